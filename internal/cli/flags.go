package cli

import (
	"codeberg.org/snonux/mathcards/internal/audio"
	"codeberg.org/snonux/mathcards/internal/flashcard"
)

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile      string
	OutputDir    string
	AudioDir     string
	JSONFile     string
	VerifyAudio  bool
	GenerateAnki bool
	AnkiCSV      bool
	DeckName     string
	Archive      bool
	ListModels   bool

	// Card flags
	Count  int
	Base   int
	Weight int

	// Piper flags
	AudioProvider    string
	PiperPath        string
	PiperModel       string
	PiperSpeaker     int
	PiperLengthScale float64

	// OpenAI flags
	OpenAIModel       string
	OpenAIVoice       string
	OpenAISpeed       float64
	OpenAIBaseURL     string
	OpenAIInstruction string
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	options := flashcard.DefaultOptions()
	piper := audio.DefaultPiperConfig()
	providerConfig := audio.DefaultProviderConfig()

	return &Flags{
		OutputDir:        options.OutputDir,
		AudioDir:         options.AudioDir,
		JSONFile:         options.JSONFile,
		DeckName:         "Math Flashcards",
		Count:            options.Count,
		Base:             options.Base,
		Weight:           options.Weight,
		AudioProvider:    providerConfig.Provider,
		PiperPath:        piper.Executable,
		PiperModel:       piper.Model,
		PiperSpeaker:     piper.SpeakerID,
		PiperLengthScale: piper.LengthScale,
		OpenAIModel:      providerConfig.OpenAIModel,
		OpenAIVoice:      providerConfig.OpenAIVoice,
		OpenAISpeed:      providerConfig.OpenAISpeed,
	}
}
