package testutil

import (
	"context"
	"os"
)

// AudioCall records one GenerateAudio invocation
type AudioCall struct {
	Text       string
	OutputFile string
}

// FakeProvider is an audio provider that writes canned data instead of
// running a TTS engine
type FakeProvider struct {
	ProviderName string
	Data         []byte           // Written to every output file, a short WAV when nil
	Errors       map[string]error // Errors keyed by question text
	AvailableErr error
	Calls        []AudioCall
}

// NewFakeProvider creates a fake provider that always succeeds
func NewFakeProvider() *FakeProvider {
	return &FakeProvider{
		ProviderName: "fake",
		Errors:       make(map[string]error),
	}
}

// GenerateAudio records the call and writes Data to outputFile
func (f *FakeProvider) GenerateAudio(ctx context.Context, text string, outputFile string) error {
	f.Calls = append(f.Calls, AudioCall{Text: text, OutputFile: outputFile})

	if err, ok := f.Errors[text]; ok {
		return err
	}

	data := f.Data
	if data == nil {
		data = WAVData(22050, 1, 16, 64)
	}
	return os.WriteFile(outputFile, data, 0644)
}

// Name returns the provider name
func (f *FakeProvider) Name() string {
	if f.ProviderName == "" {
		return "fake"
	}
	return f.ProviderName
}

// IsAvailable returns AvailableErr
func (f *FakeProvider) IsAvailable() error {
	return f.AvailableErr
}

// Texts returns the question texts in call order
func (f *FakeProvider) Texts() []string {
	texts := make([]string, len(f.Calls))
	for i, call := range f.Calls {
		texts[i] = call.Text
	}
	return texts
}
