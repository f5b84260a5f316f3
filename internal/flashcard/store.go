package flashcard

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

// Save writes records as an indented JSON array. Non-ASCII characters and
// HTML-sensitive characters are written literally.
func Save(path string, records []Record) error {
	if records == nil {
		records = []Record{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("failed to encode flashcards: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write flashcards file: %w", err)
	}

	return nil
}

// Load reads a flashcards file written by Save
func Load(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read flashcards file: %w", err)
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse flashcards file: %w", err)
	}

	return records, nil
}
