// Package site assembles the content sections of the marketing page from
// spreadsheet sheets.
//
// Three sections are sheet-backed: instructors, schedule and members. Each
// is bound to a sheet name by configuration. On every page load the sheets
// are fetched concurrently, parsed, and mapped to view models. A section
// whose sheet fails to load, or loads with too little data, falls back to
// the copy embedded in the binary, so the page never shows an error.
package site

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/JonMunkholm/likorise/internal/csv"
	"github.com/JonMunkholm/likorise/internal/logging"
	"github.com/JonMunkholm/likorise/internal/sheets"
	"github.com/JonMunkholm/likorise/internal/store"
)

//go:embed fallback/*.csv
var fallbackFS embed.FS

// Section identifies a sheet-backed part of the page.
type Section string

const (
	SectionInstructors Section = "instructors"
	SectionSchedule    Section = "schedule"
	SectionMembers     Section = "members"
)

// Sections lists every section in page order.
var Sections = []Section{SectionInstructors, SectionSchedule, SectionMembers}

// ErrUnknownSection is returned for a section key that is not in Sections.
var ErrUnknownSection = errors.New("unknown section")

// ParseSection validates a section key.
func ParseSection(key string) (Section, error) {
	for _, s := range Sections {
		if string(s) == key {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSection, key)
}

// Source tells where a rendered section came from.
type Source string

const (
	SourceSheet    Source = "sheet"
	SourceFallback Source = "fallback"
)

// SheetNames binds each section to a sheet of the spreadsheet.
type SheetNames struct {
	Instructors string
	Schedule    string
	Members     string
}

// For returns the sheet name bound to sec.
func (n SheetNames) For(sec Section) string {
	switch sec {
	case SectionInstructors:
		return n.Instructors
	case SectionSchedule:
		return n.Schedule
	case SectionMembers:
		return n.Members
	}
	return ""
}

// Fetcher loads sheets. *sheets.Client satisfies it.
type Fetcher interface {
	FetchAll(ctx context.Context, names ...string) []sheets.Result
	FetchTable(ctx context.Context, name string) (csv.Table, error)
}

// Page is the content of one rendered page.
type Page struct {
	Instructors []Instructor
	Schedule    []ScheduleItem
	Members     *Members
	Sources     map[Section]Source
}

// Service builds pages. It is safe for concurrent use.
type Service struct {
	fetcher Fetcher
	names   SheetNames
	loads   store.Log

	fallback Page
}

// NewService creates a Service. A nil fetcher serves fallback content only;
// a nil loads discards load events.
func NewService(fetcher Fetcher, names SheetNames, loads store.Log) (*Service, error) {
	if loads == nil {
		loads = store.NopLog{}
	}

	fb, err := loadFallback()
	if err != nil {
		return nil, err
	}

	return &Service{
		fetcher:  fetcher,
		names:    names,
		loads:    loads,
		fallback: fb,
	}, nil
}

// Live reports whether the service fetches from a spreadsheet.
func (s *Service) Live() bool {
	return s.fetcher != nil
}

// SheetNames returns the section to sheet binding.
func (s *Service) SheetNames() SheetNames {
	return s.names
}

// LoadPage fetches all sections and builds the page. Sections that cannot
// be loaded use fallback content; LoadPage itself never fails.
func (s *Service) LoadPage(ctx context.Context) Page {
	page := s.fallbackPage()
	if s.fetcher == nil {
		return page
	}

	names := make([]string, len(Sections))
	for i, sec := range Sections {
		names[i] = s.names.For(sec)
	}

	results := s.fetcher.FetchAll(ctx, names...)
	if len(results) != len(Sections) {
		logging.FromContext(ctx).Error("sheet fetch returned wrong result count",
			"want", len(Sections), "got", len(results))
		return page
	}

	for i, sec := range Sections {
		s.applyResult(ctx, &page, sec, results[i])
	}
	return page
}

// applyResult replaces the fallback content of sec with the fetched sheet
// when it holds enough data, and records the outcome.
func (s *Service) applyResult(ctx context.Context, page *Page, sec Section, res sheets.Result) {
	logger := logging.FromContext(ctx)
	ev := store.LoadEvent{
		Section:    string(sec),
		Sheet:      res.Sheet,
		Rows:       len(res.Table.Records),
		DurationMS: res.Duration.Milliseconds(),
		RequestID:  logging.RequestID(ctx),
	}

	switch {
	case res.Err != nil:
		ev.Status = store.StatusError
		ev.Error = res.Err.Error()
		logger.Warn("sheet load failed, using fallback",
			"section", sec,
			"sheet", res.Sheet,
			"code", MapError(res.Err).Code,
			"error", res.Err,
		)

	case applySection(page, sec, res.Table.Records):
		ev.Status = store.StatusOK
		page.Sources[sec] = SourceSheet
		logger.Debug("sheet loaded",
			"section", sec,
			"sheet", res.Sheet,
			"rows", ev.Rows,
			"duration_ms", ev.DurationMS,
		)

	default:
		ev.Status = store.StatusFallback
		logger.Warn("sheet has too little data, using fallback",
			"section", sec,
			"sheet", res.Sheet,
			"rows", ev.Rows,
		)
	}

	if err := s.loads.Record(ctx, ev); err != nil {
		logger.Error("failed to record sheet load", "section", sec, "error", err)
	}
}

// applySection builds sec from records into page. It reports false and
// leaves page untouched when the records are insufficient.
func applySection(page *Page, sec Section, records []csv.Record) bool {
	switch sec {
	case SectionInstructors:
		if v := BuildInstructors(records); v != nil {
			page.Instructors = v
			return true
		}
	case SectionSchedule:
		if v := BuildSchedule(records); v != nil {
			page.Schedule = v
			return true
		}
	case SectionMembers:
		if v := BuildMembers(records); v != nil {
			page.Members = v
			return true
		}
	}
	return false
}

// Section fetches the raw table behind sec.
func (s *Service) Section(ctx context.Context, key string) (csv.Table, error) {
	sec, err := ParseSection(key)
	if err != nil {
		return csv.Table{}, err
	}
	if s.fetcher == nil {
		return csv.Table{}, sheets.ErrNoSpreadsheet
	}

	start := time.Now()
	table, err := s.fetcher.FetchTable(ctx, s.names.For(sec))
	if err != nil {
		return csv.Table{}, fmt.Errorf("section %s: %w", sec, err)
	}

	logging.FromContext(ctx).Debug("section fetched",
		"section", sec,
		"rows", len(table.Records),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return table, nil
}

// fallbackPage returns a copy of the embedded page with every section
// marked as fallback.
func (s *Service) fallbackPage() Page {
	page := s.fallback
	page.Sources = make(map[Section]Source, len(Sections))
	for _, sec := range Sections {
		page.Sources[sec] = SourceFallback
	}
	return page
}

// loadFallback parses the embedded fallback sheets.
func loadFallback() (Page, error) {
	var page Page
	for _, sec := range Sections {
		name := path.Join("fallback", string(sec)+".csv")
		data, err := fallbackFS.ReadFile(name)
		if err != nil {
			return Page{}, fmt.Errorf("read fallback %s: %w", name, err)
		}
		if !applySection(&page, sec, csv.Parse(string(data))) {
			return Page{}, fmt.Errorf("fallback %s has too little data", name)
		}
	}
	return page, nil
}
