package flashcard

import (
	"fmt"
	"path"
	"strconv"
)

// Record is a single flashcard as stored in the JSON output
type Record struct {
	ID            int       `json:"id"`
	AudioPath     string    `json:"audioPath"`
	Answer        string    `json:"answer"`
	Weight        int       `json:"weight"`
	ReactionTimes []float64 `json:"reactionTimes"`
}

// QuestionText returns the spoken question for card id
func QuestionText(base, id int) string {
	return fmt.Sprintf("Combien fait %d plus %d ?", base, id)
}

// AnswerText returns the expected answer for card id
func AnswerText(base, id int) string {
	return strconv.Itoa(base + id)
}

// AudioPath returns the slash-separated path of the audio file for card id,
// relative to the output directory.
func AudioPath(audioDir string, id int) string {
	return path.Join(audioDir, fmt.Sprintf("question_%d.wav", id))
}

// BuildRecord assembles the record for card id. ReactionTimes starts empty
// so it serializes as [] rather than null.
func BuildRecord(options *Options, id int) Record {
	return Record{
		ID:            id,
		AudioPath:     AudioPath(options.AudioDir, id),
		Answer:        AnswerText(options.Base, id),
		Weight:        options.Weight,
		ReactionTimes: []float64{},
	}
}
