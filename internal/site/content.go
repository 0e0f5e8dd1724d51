package site

import (
	"slices"
	"strings"
	"unicode"

	"github.com/JonMunkholm/likorise/internal/csv"
)

// Column names used by the spreadsheet.
const (
	ColOrder       = "表示順"
	ColCategory    = "カテゴリ"
	ColName        = "名前"
	ColImage       = "画像ファイル名"
	ColMonth       = "月"
	ColTitle       = "タイトル"
	ColDescription = "説明"
)

// Member categories recognized in the members sheet.
const (
	CategoryCrew       = "CREW"
	CategoryAmbassador = "AMBASSADOR"
)

// LessonStyle is the visual treatment of an instructor card.
type LessonStyle struct {
	Icon  string
	Title string
	Color string // CSS color expression
}

var lessonStyles = map[string]LessonStyle{
	"お芝居Lesson":       {Icon: "🎭", Title: "お芝居", Color: "var(--primary-peach)"},
	"アテレコLesson":      {Icon: "🎤", Title: "アテレコ", Color: "var(--secondary-mint)"},
	"ダンスLesson [HIPHOP]": {Icon: "💃", Title: "ダンス [HIPHOP]", Color: "var(--primary-salmon)"},
	"ダンスLesson [JAZZ]":   {Icon: "🕺", Title: "ダンス [JAZZ]", Color: "var(--secondary-lavender)"},
}

// StyleFor returns the lesson style of category. Unknown categories get a
// sparkle icon and use the category itself as the title.
func StyleFor(category string) LessonStyle {
	if s, ok := lessonStyles[category]; ok {
		return s
	}
	return LessonStyle{Icon: "✨", Title: category, Color: "var(--primary-salmon)"}
}

// Instructor is one card in the instructors section.
type Instructor struct {
	Name     string
	Image    string
	Category string
	Style    LessonStyle
}

// ScheduleItem is one entry of the annual timeline.
type ScheduleItem struct {
	Month       string
	Title       string
	Description string
}

// MemberBlock is the copy for one member category, split into display lines.
type MemberBlock struct {
	Category string
	Lines    []string
}

// Members holds the member categories shown on the page. Either block may
// be nil when the sheet has no row for it.
type Members struct {
	Crew       *MemberBlock
	Ambassador *MemberBlock
}

// BuildInstructors maps instructor records to cards in display order.
// It returns nil when there are no records.
func BuildInstructors(records []csv.Record) []Instructor {
	if len(records) == 0 {
		return nil
	}

	sorted := sortByDisplayOrder(records)
	out := make([]Instructor, 0, len(sorted))
	for _, r := range sorted {
		category := r[ColCategory]
		out = append(out, Instructor{
			Name:     r[ColName],
			Image:    r[ColImage],
			Category: category,
			Style:    StyleFor(category),
		})
	}
	return out
}

// BuildSchedule maps schedule records to timeline items in display order.
// It returns nil when there are no records.
func BuildSchedule(records []csv.Record) []ScheduleItem {
	if len(records) == 0 {
		return nil
	}

	sorted := sortByDisplayOrder(records)
	out := make([]ScheduleItem, 0, len(sorted))
	for _, r := range sorted {
		out = append(out, ScheduleItem{
			Month:       r[ColMonth],
			Title:       r[ColTitle],
			Description: r[ColDescription],
		})
	}
	return out
}

// BuildMembers picks the first CREW and first AMBASSADOR rows.
//
// The members sheet always carries both categories, so fewer than two
// records is treated as an incomplete export and yields nil.
func BuildMembers(records []csv.Record) *Members {
	if len(records) < 2 {
		return nil
	}

	m := &Members{}
	for _, r := range records {
		switch r[ColCategory] {
		case CategoryCrew:
			if m.Crew == nil {
				m.Crew = &MemberBlock{
					Category: CategoryCrew,
					Lines:    splitLines(r[ColDescription], bulletize),
				}
			}
		case CategoryAmbassador:
			if m.Ambassador == nil {
				m.Ambassador = &MemberBlock{
					Category: CategoryAmbassador,
					Lines:    splitLines(r[ColDescription], nil),
				}
			}
		}
	}
	return m
}

// bulletize turns spreadsheet "* " list markers into bullets.
func bulletize(line string) string {
	return strings.ReplaceAll(line, "* ", "• ")
}

func splitLines(text string, fn func(string) string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")
	if fn != nil {
		for i, l := range lines {
			lines[i] = fn(l)
		}
	}
	return lines
}

// sortByDisplayOrder returns a copy of records ordered by the display order
// column. Rows without a numeric order keep their relative position after
// all numbered rows.
func sortByDisplayOrder(records []csv.Record) []csv.Record {
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b csv.Record) int {
		ai, aok := leadingInt(a[ColOrder])
		bi, bok := leadingInt(b[ColOrder])
		switch {
		case aok && bok:
			return ai - bi
		case aok:
			return -1
		case bok:
			return 1
		default:
			return 0
		}
	})
	return sorted
}

// leadingInt parses an optional sign and the leading run of ASCII digits
// after whitespace, ignoring anything that follows ("12th" is 12).
func leadingInt(s string) (int, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)

	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}

	n, digits := 0, 0
	for digits < len(s) && s[digits] >= '0' && s[digits] <= '9' {
		if n < 1<<40 {
			n = n*10 + int(s[digits]-'0')
		}
		digits++
	}
	if digits == 0 {
		return 0, false
	}
	if neg {
		n = -n
	}
	return n, true
}
