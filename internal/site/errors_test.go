package site

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/JonMunkholm/likorise/internal/csv"
	"github.com/JonMunkholm/likorise/internal/sheets"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"nil", nil, "ERR000"},
		{"404", &sheets.StatusError{Sheet: "s", StatusCode: http.StatusNotFound}, "SHEET001"},
		{"401", &sheets.StatusError{Sheet: "s", StatusCode: http.StatusUnauthorized}, "SHEET002"},
		{"403 wrapped", fmt.Errorf("section x: %w", &sheets.StatusError{StatusCode: http.StatusForbidden}), "SHEET002"},
		{"500", &sheets.StatusError{StatusCode: http.StatusBadGateway}, "SHEET003"},
		{"too large", fmt.Errorf("sheet %q: %w", "s", csv.ErrTooLarge), "SHEET004"},
		{"no spreadsheet", sheets.ErrNoSpreadsheet, "SHEET005"},
		{"unknown section", fmt.Errorf("%w: %q", ErrUnknownSection, "x"), "SEC001"},
		{"deadline", fmt.Errorf("fetch: %w", context.DeadlineExceeded), "NET001"},
		{"client timeout text", errors.New("Client.Timeout exceeded while awaiting headers"), "NET001"},
		{"refused", errors.New("dial tcp 127.0.0.1:443: connect: connection refused"), "NET002"},
		{"dns", errors.New("dial tcp: lookup docs.example: no such host"), "NET002"},
		{"cancelled", context.Canceled, "REQ001"},
		{"rate limit", errors.New("rate limit exceeded"), "RATE001"},
		{"page not found", errors.New("page not found"), "REQ002"},
		{"bad parameter", errors.New("invalid parameter: limit"), "REQ003"},
		{"other", errors.New("something odd"), "ERR000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError(%v).Code = %q, want %q", tt.err, got.Code, tt.wantCode)
			}
			if got.Message == "" || got.Action == "" {
				t.Errorf("MapError(%v) has empty message or action: %+v", tt.err, got)
			}
		})
	}
}

func TestParseSection(t *testing.T) {
	for _, sec := range Sections {
		got, err := ParseSection(string(sec))
		if err != nil || got != sec {
			t.Errorf("ParseSection(%q) = (%q, %v)", sec, got, err)
		}
	}

	if _, err := ParseSection("Schedule"); !errors.Is(err, ErrUnknownSection) {
		t.Errorf("ParseSection is case-sensitive; err = %v", err)
	}
}
