package audio

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/cwbudde/wav"
)

// ErrInvalidWAV is returned when a synthesized file does not decode as WAV.
var ErrInvalidWAV = errors.New("invalid WAV file")

// ValidateQuestionText checks that text can be handed to a TTS engine
func ValidateQuestionText(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("text cannot be empty")
	}
	return nil
}

// WAVInfo describes the format of a WAV file.
type WAVInfo struct {
	SampleRate int
	Channels   int
	BitDepth   int
}

// VerifyWAV checks that path holds a readable WAV file and returns its format.
func VerifyWAV(path string) (WAVInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return WAVInfo{}, fmt.Errorf("failed to open audio file: %w", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return WAVInfo{}, fmt.Errorf("%w: %s", ErrInvalidWAV, path)
	}

	return WAVInfo{
		SampleRate: int(dec.SampleRate),
		Channels:   int(dec.NumChans),
		BitDepth:   int(dec.BitDepth),
	}, nil
}
