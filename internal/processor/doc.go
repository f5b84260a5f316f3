// Package processor contains the core business logic of mathcards. It turns
// the command-line flags into generator options and an audio provider,
// runs the deck generation, and produces the optional Anki export and
// archive of previous outputs. This package serves as the main coordinator
// between all other components.
package processor
