// Package models lists the OpenAI text-to-speech models and voices that can
// be passed to --openai-model when the openai audio provider is used.
package models
