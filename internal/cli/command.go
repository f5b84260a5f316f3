package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/mathcards/internal"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "mathcards",
		Short: "Spoken arithmetic flashcard generator",
		Long: `mathcards generates a deck of spoken arithmetic flashcards.

For every card it synthesizes the question with a text-to-speech engine
(piper by default) and writes the deck description to a JSON file.

Examples:
  mathcards                          # 12 cards "2 + x" into ./flashcards.json
  mathcards --count 20 --base 3      # 20 cards "3 + x"
  mathcards -o deck --anki           # also export an Anki package
  mathcards --archive                # move the previous outputs aside`,
		Args:         cobra.NoArgs,
		Version:      internal.Version,
		SilenceUsage: true,
	}

	// Set up flags
	setupFlags(rootCmd, flags)

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Global flags
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.mathcards.yaml)")

	// Output flags
	cmd.Flags().StringVarP(&flags.OutputDir, "output", "o", flags.OutputDir, "Output directory")
	cmd.Flags().StringVar(&flags.AudioDir, "audio-dir", flags.AudioDir, "Audio directory, relative to the output directory")
	cmd.Flags().StringVar(&flags.JSONFile, "json-file", flags.JSONFile, "JSON file, relative to the output directory")
	cmd.Flags().BoolVar(&flags.Archive, "archive", false, "Move the outputs of a previous run to archive/ and exit")

	// Card flags
	cmd.Flags().IntVar(&flags.Count, "count", flags.Count, "Number of cards")
	cmd.Flags().IntVar(&flags.Base, "base", flags.Base, "Left operand of every question")
	cmd.Flags().IntVar(&flags.Weight, "weight", flags.Weight, "Weight assigned to every card")

	// Audio flags
	cmd.Flags().StringVar(&flags.AudioProvider, "audio-provider", flags.AudioProvider, "Audio provider: piper or openai")
	cmd.Flags().StringVar(&flags.PiperPath, "piper-path", flags.PiperPath, "Path to the piper executable")
	cmd.Flags().StringVar(&flags.PiperModel, "model", flags.PiperModel, "Piper voice model")
	cmd.Flags().IntVar(&flags.PiperSpeaker, "speaker", flags.PiperSpeaker, "Piper speaker id for multi-speaker models (-1 for the model default)")
	cmd.Flags().Float64Var(&flags.PiperLengthScale, "length-scale", flags.PiperLengthScale, "Piper phoneme length scale (0 for the model default)")
	cmd.Flags().BoolVar(&flags.VerifyAudio, "verify-audio", false, "Check that every generated file is a valid WAV")

	// OpenAI flags
	cmd.Flags().StringVar(&flags.OpenAIModel, "openai-model", flags.OpenAIModel, "OpenAI TTS model: tts-1, tts-1-hd, gpt-4o-mini-tts")
	cmd.Flags().StringVar(&flags.OpenAIVoice, "openai-voice", flags.OpenAIVoice, "OpenAI voice: alloy, ash, coral, echo, fable, onyx, nova, sage, shimmer")
	cmd.Flags().Float64Var(&flags.OpenAISpeed, "openai-speed", flags.OpenAISpeed, "OpenAI speech speed (0.25 to 4.0)")
	cmd.Flags().StringVar(&flags.OpenAIInstruction, "openai-instruction", "", "Voice instructions for gpt-4o-mini-tts (default: a slow, clear French reading)")
	cmd.Flags().StringVar(&flags.OpenAIBaseURL, "openai-base-url", "", "OpenAI-compatible API endpoint (default is api.openai.com)")
	cmd.Flags().BoolVar(&flags.ListModels, "list-models", false, "List the OpenAI TTS models available for the current API key")

	// Anki flags
	cmd.Flags().BoolVar(&flags.GenerateAnki, "anki", false, "Generate Anki import file (APKG format by default, use --anki-csv for CSV)")
	cmd.Flags().BoolVar(&flags.AnkiCSV, "anki-csv", false, "Generate CSV format instead of APKG when using --anki")
	cmd.Flags().StringVar(&flags.DeckName, "deck-name", flags.DeckName, "Deck name for APKG export")

	// Bind flags to viper
	bindFlagsToViper(cmd)
}

// flagKeys maps viper keys to the flags they are bound to
var flagKeys = map[string]string{
	"output.directory":         "output",
	"output.audio_dir":         "audio-dir",
	"output.json_file":         "json-file",
	"cards.count":              "count",
	"cards.base":               "base",
	"cards.weight":             "weight",
	"audio.provider":           "audio-provider",
	"audio.piper_path":         "piper-path",
	"audio.model":              "model",
	"audio.speaker":            "speaker",
	"audio.length_scale":       "length-scale",
	"audio.verify":             "verify-audio",
	"audio.openai_model":       "openai-model",
	"audio.openai_voice":       "openai-voice",
	"audio.openai_speed":       "openai-speed",
	"audio.openai_url":         "openai-base-url",
	"audio.openai_instruction": "openai-instruction",
}

func bindFlagsToViper(cmd *cobra.Command) {
	for key, name := range flagKeys {
		viper.BindPFlag(key, cmd.Flags().Lookup(name))
	}
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	// A local .env may carry OPENAI_API_KEY and MATHCARDS_* overrides
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: failed to load .env file: %v\n", err)
	}

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Search config in home directory and the working directory
		// with name ".mathcards" (without extension)
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		} else {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
		}
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".mathcards")
	}

	// Environment variables, e.g. MATHCARDS_AUDIO_MODEL for audio.model
	viper.SetEnvPrefix("MATHCARDS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// ApplyConfig copies the resolved configuration back into flags. Values
// given on the command line win over the environment, which wins over the
// config file.
func ApplyConfig(flags *Flags) {
	flags.OutputDir = viper.GetString("output.directory")
	flags.AudioDir = viper.GetString("output.audio_dir")
	flags.JSONFile = viper.GetString("output.json_file")
	flags.Count = viper.GetInt("cards.count")
	flags.Base = viper.GetInt("cards.base")
	flags.Weight = viper.GetInt("cards.weight")
	flags.AudioProvider = viper.GetString("audio.provider")
	flags.PiperPath = viper.GetString("audio.piper_path")
	flags.PiperModel = viper.GetString("audio.model")
	flags.PiperSpeaker = viper.GetInt("audio.speaker")
	flags.PiperLengthScale = viper.GetFloat64("audio.length_scale")
	flags.VerifyAudio = viper.GetBool("audio.verify")
	flags.OpenAIModel = viper.GetString("audio.openai_model")
	flags.OpenAIVoice = viper.GetString("audio.openai_voice")
	flags.OpenAISpeed = viper.GetFloat64("audio.openai_speed")
	flags.OpenAIBaseURL = viper.GetString("audio.openai_url")
	flags.OpenAIInstruction = viper.GetString("audio.openai_instruction")
}

// GetOpenAIKey retrieves the OpenAI API key from environment or config
func GetOpenAIKey() string {
	// First check environment variable
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}

	// Then check config file
	return viper.GetString("audio.openai_key")
}
