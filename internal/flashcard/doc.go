// Package flashcard builds the arithmetic flashcard deck. It creates one
// record per question, has an audio provider speak each question into a
// WAV file, and writes the deck metadata as a JSON array.
package flashcard
