package processor

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"codeberg.org/snonux/mathcards/internal/cli"
	"codeberg.org/snonux/mathcards/internal/flashcard"
	"codeberg.org/snonux/mathcards/internal/testutil"
)

func newTestProcessor(t *testing.T) (*Processor, *testutil.FakeProvider, *bytes.Buffer) {
	t.Helper()

	flags := cli.NewFlags()
	flags.OutputDir = t.TempDir()

	provider := testutil.NewFakeProvider()
	p := NewProcessorWithProvider(flags, provider)

	var out bytes.Buffer
	p.SetOutput(&out)

	return p, provider, &out
}

func TestNewProcessor(t *testing.T) {
	flags := cli.NewFlags()
	p := NewProcessor(flags)

	if p == nil {
		t.Fatal("NewProcessor returned nil")
	}

	if p.flags != flags {
		t.Error("Processor flags not set correctly")
	}

	if p.provider != nil {
		t.Error("Provider should be created lazily")
	}
}

func TestProcessorOptions(t *testing.T) {
	flags := cli.NewFlags()
	flags.Count = 20
	flags.Base = 3
	flags.VerifyAudio = true

	options := NewProcessor(flags).Options()

	if options.Count != 20 || options.Base != 3 || options.Weight != 5 {
		t.Errorf("Options() = %+v", options)
	}
	if options.AudioDir != "audio_files" || options.JSONFile != "flashcards.json" {
		t.Errorf("Options() paths = %s, %s", options.AudioDir, options.JSONFile)
	}
	if !options.VerifyAudio {
		t.Error("VerifyAudio not carried over")
	}
}

func TestProcessorProviderConfig(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "test-key")

	flags := cli.NewFlags()
	flags.PiperModel = "siwis.onnx"
	flags.PiperSpeaker = 2

	config := NewProcessor(flags).ProviderConfig()

	if config.Provider != "piper" {
		t.Errorf("Provider = %s, want piper", config.Provider)
	}
	if config.PiperModel != "siwis.onnx" || config.PiperSpeakerID != 2 {
		t.Errorf("piper settings = %s, %d", config.PiperModel, config.PiperSpeakerID)
	}
	if config.OpenAIKey != "test-key" {
		t.Errorf("OpenAIKey = %s, want test-key", config.OpenAIKey)
	}
}

func TestRun(t *testing.T) {
	p, provider, out := newTestProcessor(t)

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	if len(provider.Calls) != 12 {
		t.Errorf("Expected 12 audio calls, got %d", len(provider.Calls))
	}

	options := p.Options()
	records, err := flashcard.Load(options.JSONPath())
	if err != nil {
		t.Fatalf("Failed to load JSON: %v", err)
	}
	if len(records) != 12 || len(p.Records()) != 12 {
		t.Fatalf("Expected 12 records, got %d", len(records))
	}
	if records[11].Answer != "14" {
		t.Errorf("Last answer = %s, want 14", records[11].Answer)
	}

	if !strings.Contains(out.String(), "Flashcards and audio files generated successfully!") {
		t.Errorf("Success message missing from output:\n%s", out.String())
	}
}

func TestRunProviderUnavailable(t *testing.T) {
	p, provider, out := newTestProcessor(t)
	provider.AvailableErr = errors.New("piper not found")

	err := p.Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "not available") {
		t.Fatalf("Expected availability error, got %v", err)
	}

	if len(provider.Calls) != 0 {
		t.Errorf("Expected no audio calls, got %d", len(provider.Calls))
	}
	testutil.AssertFileNotExists(t, p.Options().AudioDirPath())
	testutil.AssertFileNotExists(t, p.Options().JSONPath())
	if out.Len() != 0 {
		t.Errorf("Expected no output, got %q", out.String())
	}
}

func TestRunGenerationFailure(t *testing.T) {
	p, provider, out := newTestProcessor(t)
	provider.Errors[flashcard.QuestionText(2, 5)] = errors.New("exit status 1")

	if err := p.Run(context.Background()); err == nil {
		t.Fatal("Expected error from failing provider")
	}

	if len(provider.Calls) != 5 {
		t.Errorf("Expected 5 audio calls, got %d", len(provider.Calls))
	}
	testutil.AssertFileNotExists(t, p.Options().JSONPath())
	if strings.Contains(out.String(), "successfully") {
		t.Error("Success message printed after failure")
	}
	if p.Records() != nil {
		t.Error("Records should be empty after failure")
	}
}

func TestRunInvalidOptions(t *testing.T) {
	p, provider, _ := newTestProcessor(t)
	p.flags.Count = 0

	if err := p.Run(context.Background()); err == nil {
		t.Fatal("Expected error for invalid options")
	}
	if len(provider.Calls) != 0 {
		t.Errorf("Expected no audio calls, got %d", len(provider.Calls))
	}
}

func TestRunUnknownProvider(t *testing.T) {
	flags := cli.NewFlags()
	flags.OutputDir = t.TempDir()
	flags.AudioProvider = "unknown"

	err := NewProcessor(flags).Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "unknown audio provider") {
		t.Errorf("Expected unknown provider error, got %v", err)
	}
}

func TestGenerateAnkiFileBeforeRun(t *testing.T) {
	p, _, _ := newTestProcessor(t)

	if _, err := p.GenerateAnkiFile(); err == nil {
		t.Error("Expected error without generated flashcards")
	}
}

func TestGenerateAnkiFile(t *testing.T) {
	tests := []struct {
		name     string
		csv      bool
		wantFile string
	}{
		{"apkg", false, "Math_Flashcards.apkg"},
		{"csv", true, "anki_import.csv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _, out := newTestProcessor(t)
			p.flags.Count = 3
			p.flags.AnkiCSV = tt.csv

			if err := p.Run(context.Background()); err != nil {
				t.Fatalf("Run() failed: %v", err)
			}

			outputPath, err := p.GenerateAnkiFile()
			if err != nil {
				t.Fatalf("GenerateAnkiFile() failed: %v", err)
			}

			if outputPath != filepath.Join(p.flags.OutputDir, tt.wantFile) {
				t.Errorf("output path = %s, want %s", outputPath, tt.wantFile)
			}
			testutil.AssertFileExists(t, outputPath)

			if tt.csv {
				testutil.AssertFileContains(t, outputPath, "Combien fait 2 plus 3 ?,5,[sound:question_3.wav],5")
			}
			if !strings.Contains(out.String(), "Generated 3 cards (3 with audio)") {
				t.Errorf("Stats missing from output:\n%s", out.String())
			}
		})
	}
}

func TestArchive(t *testing.T) {
	p, _, out := newTestProcessor(t)
	p.flags.Count = 2

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	runDir, err := p.Archive()
	if err != nil {
		t.Fatalf("Archive() failed: %v", err)
	}

	options := p.Options()
	testutil.AssertFileNotExists(t, options.JSONPath())
	testutil.AssertFileNotExists(t, options.AudioDirPath())
	testutil.AssertFileExists(t, filepath.Join(runDir, "flashcards.json"))
	testutil.AssertFileExists(t, filepath.Join(runDir, "audio_files", "question_2.wav"))

	if !strings.Contains(out.String(), "Outputs archived to:") {
		t.Errorf("Archive message missing from output:\n%s", out.String())
	}

	// A second archive has nothing left to move
	if _, err := p.Archive(); err == nil {
		t.Error("Expected error when nothing is left to archive")
	}

	if _, err := os.Stat(filepath.Join(p.flags.OutputDir, "archive")); err != nil {
		t.Errorf("archive directory missing: %v", err)
	}
}

func TestArchiveRejectsOutputDirAsAudioDir(t *testing.T) {
	p, _, _ := newTestProcessor(t)
	p.flags.AudioDir = "."
	testutil.CreateTestFile(t, filepath.Join(p.flags.OutputDir, "flashcards.json"), []byte("[]\n"))

	if _, err := p.Archive(); err == nil {
		t.Fatal("Expected error when the audio directory is the output directory")
	}

	testutil.AssertFileExists(t, filepath.Join(p.flags.OutputDir, "flashcards.json"))
	testutil.AssertFileNotExists(t, filepath.Join(p.flags.OutputDir, "archive"))
}
