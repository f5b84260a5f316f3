package flashcard

import (
	"fmt"
	"path/filepath"
)

// Options configures deck generation
type Options struct {
	Count       int    // Number of cards, ids run from 1 to Count
	Base        int    // Left operand of every question
	Weight      int    // Weight assigned to every card
	OutputDir   string // Directory the relative paths below are resolved against
	AudioDir    string // Audio directory, relative to OutputDir
	JSONFile    string // JSON output file, relative to OutputDir
	VerifyAudio bool   // Check every synthesized file decodes as WAV
}

// DefaultOptions returns the options for the "2 + x" deck
func DefaultOptions() *Options {
	return &Options{
		Count:     12,
		Base:      2,
		Weight:    5,
		OutputDir: ".",
		AudioDir:  "audio_files",
		JSONFile:  "flashcards.json",
	}
}

// Validate checks the options for values that cannot produce a deck
func (o *Options) Validate() error {
	if o.Count < 1 {
		return fmt.Errorf("card count must be at least 1, got %d", o.Count)
	}
	if o.Weight < 0 {
		return fmt.Errorf("weight cannot be negative, got %d", o.Weight)
	}
	if o.AudioDir == "" {
		return fmt.Errorf("audio directory cannot be empty")
	}
	if !filepath.IsLocal(filepath.FromSlash(o.AudioDir)) {
		return fmt.Errorf("audio directory must be relative to the output directory: %s", o.AudioDir)
	}
	if filepath.Clean(filepath.FromSlash(o.AudioDir)) == "." {
		return fmt.Errorf("audio directory must be a subdirectory of the output directory: %s", o.AudioDir)
	}
	if o.JSONFile == "" {
		return fmt.Errorf("JSON file cannot be empty")
	}
	if !filepath.IsLocal(filepath.FromSlash(o.JSONFile)) {
		return fmt.Errorf("JSON file must be relative to the output directory: %s", o.JSONFile)
	}
	if filepath.Clean(filepath.FromSlash(o.JSONFile)) == "." {
		return fmt.Errorf("JSON file must name a file: %s", o.JSONFile)
	}
	return nil
}

// AudioDirPath returns the audio directory on disk
func (o *Options) AudioDirPath() string {
	return filepath.Join(o.outputDir(), filepath.FromSlash(o.AudioDir))
}

// JSONPath returns the JSON output file on disk
func (o *Options) JSONPath() string {
	return filepath.Join(o.outputDir(), filepath.FromSlash(o.JSONFile))
}

// Resolve maps a record's AudioPath to its location on disk
func (o *Options) Resolve(audioPath string) string {
	return filepath.Join(o.outputDir(), filepath.FromSlash(audioPath))
}

func (o *Options) outputDir() string {
	if o.OutputDir == "" {
		return "."
	}
	return o.OutputDir
}
