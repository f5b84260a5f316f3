package processor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"codeberg.org/snonux/mathcards/internal"
	"codeberg.org/snonux/mathcards/internal/anki"
	"codeberg.org/snonux/mathcards/internal/archive"
	"codeberg.org/snonux/mathcards/internal/audio"
	"codeberg.org/snonux/mathcards/internal/cli"
	"codeberg.org/snonux/mathcards/internal/flashcard"
)

// Processor handles the main deck generation logic
type Processor struct {
	flags    *cli.Flags
	provider audio.Provider
	records  []flashcard.Record
	out      io.Writer
}

// NewProcessor creates a new processor. The audio provider is created from
// the flags when Run is called.
func NewProcessor(flags *cli.Flags) *Processor {
	return &Processor{
		flags: flags,
		out:   os.Stdout,
	}
}

// NewProcessorWithProvider creates a processor using the given audio provider
func NewProcessorWithProvider(flags *cli.Flags, provider audio.Provider) *Processor {
	p := NewProcessor(flags)
	p.provider = provider
	return p
}

// SetOutput sets the writer progress messages are written to
func (p *Processor) SetOutput(w io.Writer) {
	p.out = w
}

// Options builds the generator options from the flags
func (p *Processor) Options() *flashcard.Options {
	return &flashcard.Options{
		Count:       p.flags.Count,
		Base:        p.flags.Base,
		Weight:      p.flags.Weight,
		OutputDir:   p.flags.OutputDir,
		AudioDir:    p.flags.AudioDir,
		JSONFile:    p.flags.JSONFile,
		VerifyAudio: p.flags.VerifyAudio,
	}
}

// ProviderConfig builds the audio provider configuration from the flags
func (p *Processor) ProviderConfig() *audio.Config {
	return &audio.Config{
		Provider:          p.flags.AudioProvider,
		PiperPath:         p.flags.PiperPath,
		PiperModel:        p.flags.PiperModel,
		PiperSpeakerID:    p.flags.PiperSpeaker,
		PiperLengthScale:  p.flags.PiperLengthScale,
		OpenAIKey:         cli.GetOpenAIKey(),
		OpenAIBaseURL:     p.flags.OpenAIBaseURL,
		OpenAIModel:       p.flags.OpenAIModel,
		OpenAIVoice:       p.flags.OpenAIVoice,
		OpenAISpeed:       p.flags.OpenAISpeed,
		OpenAIInstruction: p.flags.OpenAIInstruction,
	}
}

// Run generates the audio files and the JSON deck. Nothing is generated
// when the provider is not available.
func (p *Processor) Run(ctx context.Context) error {
	options := p.Options()
	if err := options.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if p.provider == nil {
		provider, err := audio.NewProvider(p.ProviderConfig())
		if err != nil {
			return err
		}
		p.provider = provider
	}

	if err := p.provider.IsAvailable(); err != nil {
		return fmt.Errorf("audio provider %s is not available: %w", p.provider.Name(), err)
	}

	gen := flashcard.NewGenerator(options, p.provider)
	gen.SetOutput(p.out)

	records, err := gen.Run(ctx)
	if err != nil {
		return err
	}
	p.records = records

	fmt.Fprintln(p.out, "Flashcards and audio files generated successfully!")
	return nil
}

// Records returns the records produced by the last successful Run
func (p *Processor) Records() []flashcard.Record {
	return p.records
}

// GenerateAnkiFile generates the Anki import file next to the JSON file and
// returns the output path
func (p *Processor) GenerateAnkiFile() (string, error) {
	if len(p.records) == 0 {
		return "", errors.New("no flashcards generated")
	}

	options := p.Options()
	outputDir := filepath.Dir(options.JSONPath())

	csvPath := filepath.Join(outputDir, "anki_import.csv")
	gen := anki.NewGenerator(anki.GeneratorOptions{
		OutputPath:     csvPath,
		IncludeHeaders: true,
	})

	for _, record := range p.records {
		gen.AddCard(anki.Card{
			Question:  flashcard.QuestionText(options.Base, record.ID),
			Answer:    record.Answer,
			AudioFile: options.Resolve(record.AudioPath),
			Weight:    record.Weight,
		})
	}

	var outputPath string
	if p.flags.AnkiCSV {
		outputPath = csvPath
		if err := gen.GenerateCSV(); err != nil {
			return "", fmt.Errorf("failed to generate CSV: %w", err)
		}
	} else {
		outputPath = filepath.Join(outputDir, internal.SanitizeFilename(p.flags.DeckName)+".apkg")
		if err := gen.GenerateAPKG(outputPath, p.flags.DeckName); err != nil {
			return "", fmt.Errorf("failed to generate APKG: %w", err)
		}
	}

	total, withAudio := gen.Stats()
	fmt.Fprintf(p.out, "  Generated %d cards (%d with audio)\n", total, withAudio)

	return outputPath, nil
}

// Archive moves the audio directory and JSON file of a previous run into
// the archive directory and returns where they went
func (p *Processor) Archive() (string, error) {
	options := p.Options()
	if err := options.Validate(); err != nil {
		return "", fmt.Errorf("invalid configuration: %w", err)
	}

	root := options.OutputDir
	if root == "" {
		root = "."
	}

	runDir, err := archive.ArchiveOutputs(root, options.AudioDirPath(), options.JSONPath())
	if err != nil {
		return "", fmt.Errorf("failed to archive outputs: %w", err)
	}

	fmt.Fprintf(p.out, "Outputs archived to: %s\n", runDir)
	return runDir, nil
}
