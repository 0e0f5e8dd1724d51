package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// sheetsFile is the layout of the optional SHEETS_FILE:
//
//	spreadsheet_id: 1AbC...
//	base_url: https://docs.google.com
//	sheets:
//	  instructors: レッスン講師
//	  schedule: 年間スケジュール
//	  members: 所属生情報
type sheetsFile struct {
	SpreadsheetID string `koanf:"spreadsheet_id"`
	BaseURL       string `koanf:"base_url"`
	Sheets        struct {
		Instructors string `koanf:"instructors"`
		Schedule    string `koanf:"schedule"`
		Members     string `koanf:"members"`
	} `koanf:"sheets"`
}

// ApplySheetsFile overlays the YAML sheets file at path onto cfg.
// Environment variables still win: SHEETS_SPREADSHEET_ID and SHEETS_BASE_URL
// override the top-level keys, SHEET_<NAME> overrides sheets.<name>.
// Empty values leave the current setting untouched.
func ApplySheetsFile(cfg *SheetsConfig, path string) error {
	k := koanf.New(".")

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("reading sheets file %s: %w", path, err)
	}

	// SHEETS_SPREADSHEET_ID -> spreadsheet_id
	if err := k.Load(env.Provider("SHEETS_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "SHEETS_"))
	}), nil); err != nil {
		return fmt.Errorf("loading env overrides: %w", err)
	}

	// SHEET_INSTRUCTORS -> sheets.instructors
	if err := k.Load(env.Provider("SHEET_", ".", func(s string) string {
		return "sheets." + strings.ToLower(strings.TrimPrefix(s, "SHEET_"))
	}), nil); err != nil {
		return fmt.Errorf("loading env overrides: %w", err)
	}

	var f sheetsFile
	if err := k.Unmarshal("", &f); err != nil {
		return fmt.Errorf("unmarshalling sheets file %s: %w", path, err)
	}

	override(&cfg.SpreadsheetID, f.SpreadsheetID)
	override(&cfg.BaseURL, f.BaseURL)
	override(&cfg.Instructors, f.Sheets.Instructors)
	override(&cfg.Schedule, f.Sheets.Schedule)
	override(&cfg.Members, f.Sheets.Members)
	return nil
}

func override(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}
