package models

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// Voices accepted by the OpenAI speech endpoint
var Voices = []string{"alloy", "ash", "coral", "echo", "fable", "onyx", "nova", "sage", "shimmer"}

// Lister handles listing available OpenAI models
type Lister struct {
	apiKey string
	client *openai.Client
}

// NewLister creates a new model lister. baseURL may be empty for the
// default OpenAI endpoint.
func NewLister(apiKey, baseURL string) *Lister {
	clientConfig := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientConfig.BaseURL = baseURL
	}
	return &Lister{
		apiKey: apiKey,
		client: openai.NewClientWithConfig(clientConfig),
	}
}

// TTSModels returns the sorted ids of the speech models available for the key
func (l *Lister) TTSModels(ctx context.Context) ([]string, error) {
	if l.apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key not found. Set OPENAI_API_KEY environment variable or configure in .mathcards.yaml")
	}

	models, err := l.client.ListModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}

	ttsModels := []string{}
	for _, model := range models.Models {
		if strings.Contains(model.ID, "tts") {
			ttsModels = append(ttsModels, model.ID)
		}
	}
	sort.Strings(ttsModels)

	return ttsModels, nil
}

// ListAvailableModels prints the speech models and voices to w
func (l *Lister) ListAvailableModels(ctx context.Context, w io.Writer) error {
	ttsModels, err := l.TTSModels(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "Text-to-Speech (TTS) Models:")
	if len(ttsModels) == 0 {
		fmt.Fprintln(w, "  No TTS models found")
	}
	for _, model := range ttsModels {
		fmt.Fprintf(w, "  %s\n", model)
	}

	fmt.Fprintln(w, "\nVoices:")
	fmt.Fprintf(w, "  %s\n", strings.Join(Voices, ", "))

	return nil
}
