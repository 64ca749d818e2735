package server

import (
	"errors"
	"io"
	"mood-server/pkg/logger"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func TestFramer_Next(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "one object per line",
			input: "{\"type\":\"timer\"}\n{\"type\":\"help\"}\n",
			want:  []string{`{"type":"timer"}`, `{"type":"help"}`},
		},
		{
			name:  "object split across lines",
			input: "{\"type\":\n\"move\",\"dx\":1,\n\"dy\":0}\n",
			want:  []string{"{\"type\":\n\"move\",\"dx\":1,\n\"dy\":0}"},
		},
		{
			name:  "empty lines are skipped",
			input: "\n\n   \n{\"type\":\"timer\"}\n",
			want:  []string{`{"type":"timer"}`},
		},
		{
			name:  "fresh line wins over stale garbage",
			input: "{\"type\":\"mo\n{\"type\":\"timer\"}\n",
			want:  []string{`{"type":"timer"}`},
		},
		{
			name:  "last line without newline",
			input: "{\"type\":\"timer\"}",
			want:  []string{`{"type":"timer"}`},
		},
		{
			name:  "crlf line endings",
			input: "{\"type\":\"timer\"}\r\n",
			want:  []string{`{"type":"timer"}`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFramer(strings.NewReader(tt.input), 1024)

			var got []string
			for {
				frame, err := f.Next()
				if errors.Is(err, io.EOF) {
					break
				}
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				got = append(got, string(frame))
			}

			if len(got) != len(tt.want) {
				t.Fatalf("frames = %q, want %q", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("frame %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestFramer_Overflow(t *testing.T) {
	hook := test.NewLocal(logger.Log)
	defer hook.Reset()

	long := "{\"type\":\"sayall\",\"message\":\"" + strings.Repeat("a", 100) + "\"}"
	input := long + "\n{\"type\":\"timer\"}\n"

	f := newFramer(strings.NewReader(input), 64)
	frame, err := f.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if string(frame) != `{"type":"timer"}` {
		t.Errorf("frame = %q", frame)
	}

	entry := hook.LastEntry()
	if entry == nil || entry.Level != logrus.WarnLevel {
		t.Fatalf("expected a warning about the discarded frame, got %+v", entry)
	}
}

func TestFramer_PendingOverflow(t *testing.T) {
	hook := test.NewLocal(logger.Log)
	defer hook.Reset()

	// Каждая строка влезает, но вместе они больше лимита и валидным JSON не становятся
	input := "{\"a\":\"" + strings.Repeat("x", 30) + "\n" +
		"\"b\":\"" + strings.Repeat("y", 30) + "\n" +
		"{\"type\":\"timer\"}\n"

	f := newFramer(strings.NewReader(input), 48)
	frame, err := f.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if string(frame) != `{"type":"timer"}` {
		t.Errorf("frame = %q", frame)
	}
	if len(hook.Entries) == 0 {
		t.Error("overflow was not logged")
	}
}
