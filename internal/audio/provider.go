package audio

import (
	"context"
	"fmt"
)

// Provider defines the interface for text-to-speech providers
type Provider interface {
	// GenerateAudio generates audio from text and saves it to the specified file
	GenerateAudio(ctx context.Context, text string, outputFile string) error

	// Name returns the provider name
	Name() string

	// IsAvailable checks if the provider is properly configured and available
	IsAvailable() error
}

// Config holds common configuration for audio providers
type Config struct {
	Provider string // Provider name: "piper" or "openai"

	// Piper settings
	PiperPath        string
	PiperModel       string
	PiperSpeakerID   int
	PiperLengthScale float64

	// OpenAI-specific settings
	OpenAIKey     string
	OpenAIBaseURL string  // Optional proxy or compatible endpoint
	OpenAIModel   string  // "tts-1", "tts-1-hd" or "gpt-4o-mini-tts"
	OpenAIVoice   string  // "alloy", "echo", "fable", "onyx", "nova", "shimmer", ...
	OpenAISpeed   float64 // 0.25 to 4.0

	// Speaking instructions for gpt-4o-mini-tts, DefaultOpenAIInstruction when empty
	OpenAIInstruction string
}

// DefaultProviderConfig returns default configuration
func DefaultProviderConfig() *Config {
	return &Config{
		Provider:       "piper",
		PiperPath:      "piper",
		PiperModel:     "tom.onnx",
		PiperSpeakerID: -1,
		OpenAIModel:    "tts-1",
		OpenAIVoice:    "alloy",
		OpenAISpeed:    1.0,
	}
}

// NewProvider creates the appropriate audio provider based on configuration
func NewProvider(config *Config) (Provider, error) {
	if config == nil {
		config = DefaultProviderConfig()
	}

	switch config.Provider {
	case "", "piper":
		if config.PiperModel == "" {
			return nil, fmt.Errorf("piper model is required")
		}
		return NewPiperProvider(&PiperConfig{
			Executable:  config.PiperPath,
			Model:       config.PiperModel,
			SpeakerID:   config.PiperSpeakerID,
			LengthScale: config.PiperLengthScale,
		}), nil

	case "openai":
		if config.OpenAIKey == "" {
			return nil, fmt.Errorf("OpenAI API key is required")
		}
		return NewOpenAIProvider(config)

	default:
		return nil, fmt.Errorf("unknown audio provider: %s", config.Provider)
	}
}
