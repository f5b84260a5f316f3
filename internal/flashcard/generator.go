package flashcard

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"codeberg.org/snonux/mathcards/internal/audio"
)

// Generator creates the flashcard deck and its audio files
type Generator struct {
	options  *Options
	provider audio.Provider
	out      io.Writer
}

// NewGenerator creates a new deck generator
func NewGenerator(options *Options, provider audio.Provider) *Generator {
	if options == nil {
		options = DefaultOptions()
	}
	return &Generator{
		options:  options,
		provider: provider,
		out:      os.Stdout,
	}
}

// SetOutput sets the writer progress messages go to
func (g *Generator) SetOutput(w io.Writer) {
	if w == nil {
		w = io.Discard
	}
	g.out = w
}

// Options returns the generator options
func (g *Generator) Options() *Options {
	return g.options
}

// EnsureAudioDir creates the audio directory, including parents. An
// existing directory is left alone.
func (g *Generator) EnsureAudioDir() error {
	if err := os.MkdirAll(g.options.AudioDirPath(), 0755); err != nil {
		return fmt.Errorf("failed to create audio directory: %w", err)
	}
	return nil
}

// ensureJSONDir creates the directory the JSON file goes to, so a bad
// output path is reported before any audio is synthesized.
func (g *Generator) ensureJSONDir() error {
	if err := os.MkdirAll(filepath.Dir(g.options.JSONPath()), 0755); err != nil {
		return fmt.Errorf("failed to create JSON directory: %w", err)
	}
	return nil
}

// Generate builds every record in ascending id order and synthesizes its
// audio. The first failing card aborts the run; cards after it are not
// attempted and files already written stay on disk.
func (g *Generator) Generate(ctx context.Context) ([]Record, error) {
	if err := g.options.Validate(); err != nil {
		return nil, err
	}
	if g.provider == nil {
		return nil, fmt.Errorf("no audio provider configured")
	}

	if err := g.EnsureAudioDir(); err != nil {
		return nil, err
	}
	if err := g.ensureJSONDir(); err != nil {
		return nil, err
	}

	records := make([]Record, 0, g.options.Count)
	for id := 1; id <= g.options.Count; id++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		question := QuestionText(g.options.Base, id)
		record := BuildRecord(g.options, id)
		audioFile := g.options.Resolve(record.AudioPath)

		fmt.Fprintf(g.out, "Generating audio %d/%d: %s\n", id, g.options.Count, question)
		if err := g.provider.GenerateAudio(ctx, question, audioFile); err != nil {
			return nil, fmt.Errorf("audio generation failed for card %d: %w", id, err)
		}

		if g.options.VerifyAudio {
			if _, err := audio.VerifyWAV(audioFile); err != nil {
				return nil, fmt.Errorf("card %d: %w", id, err)
			}
		}

		records = append(records, record)
	}

	return records, nil
}

// Run generates the deck and writes the JSON file. Nothing is written
// when generation fails.
func (g *Generator) Run(ctx context.Context) ([]Record, error) {
	records, err := g.Generate(ctx)
	if err != nil {
		return nil, err
	}

	if err := Save(g.options.JSONPath(), records); err != nil {
		return nil, err
	}

	return records, nil
}
