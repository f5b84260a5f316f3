package audio

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"codeberg.org/snonux/mathcards/internal/testutil"
)

func TestValidateQuestionText(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr bool
		errMsg  string
	}{
		{
			name:    "French question",
			text:    "Combien fait 2 plus 3 ?",
			wantErr: false,
		},
		{
			name:    "non-ASCII text",
			text:    "Qu'est-ce que ça fait ?",
			wantErr: false,
		},
		{
			name:    "empty text",
			text:    "",
			wantErr: true,
			errMsg:  "text cannot be empty",
		},
		{
			name:    "whitespace only",
			text:    "   \t\n",
			wantErr: true,
			errMsg:  "text cannot be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateQuestionText(tt.text)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateQuestionText() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && err != nil {
				if !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("ValidateQuestionText() error = %v, want error containing %v", err.Error(), tt.errMsg)
				}
			}
		})
	}
}

func TestVerifyWAV(t *testing.T) {
	dir := t.TempDir()

	t.Run("valid piper output", func(t *testing.T) {
		path := filepath.Join(dir, "question_1.wav")
		if err := os.WriteFile(path, testutil.WAVData(22050, 1, 16, 100), 0644); err != nil {
			t.Fatal(err)
		}

		info, err := VerifyWAV(path)
		if err != nil {
			t.Fatalf("VerifyWAV() unexpected error: %v", err)
		}
		if info.SampleRate != 22050 || info.Channels != 1 || info.BitDepth != 16 {
			t.Errorf("VerifyWAV() = %+v, want 22050 Hz mono 16-bit", info)
		}
	})

	t.Run("not a wav file", func(t *testing.T) {
		path := filepath.Join(dir, "question_2.wav")
		if err := os.WriteFile(path, []byte("Combien fait 2 plus 2 ?\n"), 0644); err != nil {
			t.Fatal(err)
		}

		_, err := VerifyWAV(path)
		if !errors.Is(err, ErrInvalidWAV) {
			t.Errorf("VerifyWAV() error = %v, want ErrInvalidWAV", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := VerifyWAV(filepath.Join(dir, "missing.wav")); err == nil {
			t.Error("VerifyWAV() expected error for missing file")
		}
	})
}
