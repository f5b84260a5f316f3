package audio

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// PiperProvider implements Provider interface for piper
type PiperProvider struct {
	piper *Piper
}

// NewPiperProvider creates a new piper provider
func NewPiperProvider(config *PiperConfig) Provider {
	return &PiperProvider{piper: NewPiper(config)}
}

// GenerateAudio generates audio using piper. Piper only writes WAV.
func (p *PiperProvider) GenerateAudio(ctx context.Context, text string, outputFile string) error {
	if ext := strings.ToLower(filepath.Ext(outputFile)); ext != ".wav" {
		return fmt.Errorf("piper only writes .wav files, got %q", outputFile)
	}
	return p.piper.GenerateAudio(ctx, text, outputFile)
}

// Name returns the provider name
func (p *PiperProvider) Name() string {
	return "piper"
}

// IsAvailable checks if piper is installed
func (p *PiperProvider) IsAvailable() error {
	return p.piper.checkInstalled()
}
