package csv

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestReadText(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  string
	}{
		{
			name:  "with BOM",
			input: append([]byte{0xEF, 0xBB, 0xBF}, []byte("a,b\n1,2")...),
			want:  "a,b\n1,2",
		},
		{
			name:  "without BOM",
			input: []byte("a,b\n1,2"),
			want:  "a,b\n1,2",
		},
		{
			name:  "empty",
			input: []byte{},
			want:  "",
		},
		{
			name:  "only BOM",
			input: []byte{0xEF, 0xBB, 0xBF},
			want:  "",
		},
		{
			name:  "invalid byte replaced",
			input: []byte{'h', 'e', 0x80, 'l', 'o'},
			want:  "he�lo",
		},
		{
			name:  "multibyte preserved",
			input: []byte("名前\n講師"),
			want:  "名前\n講師",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadText(bytes.NewReader(tt.input), 0)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReadText_Limit(t *testing.T) {
	input := strings.Repeat("x", 100)

	if _, err := ReadText(strings.NewReader(input), 100); err != nil {
		t.Errorf("exactly at limit: unexpected error %v", err)
	}

	_, err := ReadText(strings.NewReader(input), 99)
	if !errors.Is(err, ErrTooLarge) {
		t.Errorf("over limit: err = %v, want ErrTooLarge", err)
	}
}

func TestReadText_FeedsParser(t *testing.T) {
	body := append([]byte{0xEF, 0xBB, 0xBF}, []byte("名前,役割\n花子,講師\n")...)

	text, err := ReadText(bytes.NewReader(body), 1<<20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records := Parse(text)
	if len(records) != 1 {
		t.Fatalf("len = %d, want 1", len(records))
	}
	// Without BOM stripping the first key would carry U+FEFF.
	if got := records[0]["名前"]; got != "花子" {
		t.Errorf(`records[0]["名前"] = %q, want %q`, got, "花子")
	}
}
