package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// PiperConfig holds configuration for piper audio generation
type PiperConfig struct {
	Executable  string  // Path or name of the piper binary
	Model       string  // Voice model passed to --model (e.g., "tom.onnx")
	SpeakerID   int     // Speaker for multi-speaker models, -1 for the model default
	LengthScale float64 // Phoneme length scale, 0 leaves piper's default
}

// DefaultPiperConfig returns the default configuration for the French voice
func DefaultPiperConfig() *PiperConfig {
	return &PiperConfig{
		Executable: "piper",
		Model:      "tom.onnx",
		SpeakerID:  -1,
	}
}

// CommandError is returned when the TTS command exits unsuccessfully.
type CommandError struct {
	Command  string
	ExitCode int
	Output   string
	Err      error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("%s exited with status %d", e.Command, e.ExitCode)
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += ": " + out
	}
	return msg
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// Piper runs the piper text-to-speech binary
type Piper struct {
	config *PiperConfig
}

// NewPiper creates a new Piper instance with a copy of the given
// configuration
func NewPiper(config *PiperConfig) *Piper {
	if config == nil {
		config = DefaultPiperConfig()
	}
	own := *config
	if own.Executable == "" {
		own.Executable = "piper"
	}
	return &Piper{config: &own}
}

// Args returns the argument list for synthesizing into outputFile.
func (p *Piper) Args(outputFile string) []string {
	args := []string{"--model", p.config.Model, "--output_file", outputFile}
	if p.config.SpeakerID >= 0 {
		args = append(args, "--speaker", strconv.Itoa(p.config.SpeakerID))
	}
	if p.config.LengthScale > 0 {
		args = append(args, "--length_scale", strconv.FormatFloat(p.config.LengthScale, 'f', -1, 64))
	}
	return args
}

// GenerateAudio writes the spoken text to outputFile. The text is fed on
// stdin, one utterance per line; it is never interpreted by a shell.
func (p *Piper) GenerateAudio(ctx context.Context, text string, outputFile string) error {
	if err := ValidateQuestionText(text); err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, p.config.Executable, p.Args(outputFile)...)
	cmd.Stdin = strings.NewReader(text + "\n")

	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &CommandError{
				Command:  p.config.Executable,
				ExitCode: exitErr.ExitCode(),
				Output:   output.String(),
				Err:      err,
			}
		}
		return fmt.Errorf("failed to run %s: %w", p.config.Executable, err)
	}

	return nil
}

// checkInstalled verifies that the piper executable can be found
func (p *Piper) checkInstalled() error {
	if _, err := exec.LookPath(p.config.Executable); err != nil {
		return fmt.Errorf("%s is not installed or not in PATH: %w", p.config.Executable, err)
	}
	return nil
}
