package audio

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// DefaultOpenAIInstruction asks instruction-capable models for a French
// reading of the question
const DefaultOpenAIInstruction = "Parle en français, lentement et clairement, comme un enseignant qui pose une question de calcul à un enfant."

// speechFormats maps output file extensions to OpenAI response formats
var speechFormats = map[string]openai.SpeechResponseFormat{
	".wav":  openai.SpeechResponseFormatWav,
	".mp3":  openai.SpeechResponseFormatMp3,
	".flac": openai.SpeechResponseFormatFlac,
}

// OpenAIProvider speaks questions through the OpenAI speech endpoint
type OpenAIProvider struct {
	client *openai.Client
	config *Config
}

// NewOpenAIProvider creates a new OpenAI TTS provider
func NewOpenAIProvider(config *Config) (Provider, error) {
	if config.OpenAIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if config.OpenAISpeed != 0 && (config.OpenAISpeed < 0.25 || config.OpenAISpeed > 4.0) {
		return nil, fmt.Errorf("OpenAI speed must be between 0.25 and 4.0, got %g", config.OpenAISpeed)
	}

	clientConfig := openai.DefaultConfig(config.OpenAIKey)
	if config.OpenAIBaseURL != "" {
		clientConfig.BaseURL = config.OpenAIBaseURL
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}, nil
}

// speechRequest builds the request for one question. tts-1 and tts-1-hd
// reject instructions, so they are only sent to the newer models.
func (p *OpenAIProvider) speechRequest(text, outputFile string) (openai.CreateSpeechRequest, error) {
	ext := strings.ToLower(filepath.Ext(outputFile))
	format, ok := speechFormats[ext]
	if !ok {
		return openai.CreateSpeechRequest{}, fmt.Errorf("unsupported audio format %q", ext)
	}

	model := openai.SpeechModel(p.config.OpenAIModel)
	if model == "" {
		model = openai.TTSModel1
	}
	voice := openai.SpeechVoice(p.config.OpenAIVoice)
	if voice == "" {
		voice = openai.VoiceAlloy
	}

	req := openai.CreateSpeechRequest{
		Model:          model,
		Input:          strings.TrimSpace(text),
		Voice:          voice,
		ResponseFormat: format,
		Speed:          p.config.OpenAISpeed,
	}
	if model != openai.TTSModel1 && model != openai.TTSModel1HD {
		req.Instructions = p.config.OpenAIInstruction
		if req.Instructions == "" {
			req.Instructions = DefaultOpenAIInstruction
		}
	}

	return req, nil
}

// GenerateAudio synthesizes text into outputFile. The audio is downloaded
// to a temporary file next to outputFile and renamed into place, so a
// failed download never leaves a truncated question file.
func (p *OpenAIProvider) GenerateAudio(ctx context.Context, text string, outputFile string) error {
	if err := ValidateQuestionText(text); err != nil {
		return err
	}

	req, err := p.speechRequest(text, outputFile)
	if err != nil {
		return err
	}

	response, err := p.client.CreateSpeech(ctx, req)
	if err != nil {
		return fmt.Errorf("OpenAI TTS API error: %w", err)
	}
	defer response.Close()

	tmp, err := os.CreateTemp(filepath.Dir(outputFile), ".speech-*")
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer os.Remove(tmp.Name())

	written, err := io.Copy(tmp, response)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("failed to write audio file: %w", err)
	}
	if written == 0 {
		return fmt.Errorf("no audio data received from OpenAI")
	}

	if err := os.Rename(tmp.Name(), outputFile); err != nil {
		return fmt.Errorf("failed to write audio file: %w", err)
	}
	return nil
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// IsAvailable only checks the key; a test request would spend credits
func (p *OpenAIProvider) IsAvailable() error {
	if p.config.OpenAIKey == "" {
		return fmt.Errorf("OpenAI API key not configured")
	}
	return nil
}
