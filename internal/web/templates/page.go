package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/likorise/internal/site"
)

// PageData is everything the page shell needs.
type PageData struct {
	Title string
	Page  site.Page
}

// sectionTitles are the headings shown above each sheet-backed section.
// The members heading is part of MembersSection.
var sectionTitles = map[site.Section]string{
	site.SectionInstructors: "レッスン講師",
	site.SectionSchedule:    "年間スケジュール",
}

// Page renders the full marketing page.
func Page(data PageData) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := newWriter(w)
		writeHead(h, data.Title)

		h.raw(`<nav class="nav"><ul>`)
		for _, sec := range site.Sections {
			h.raw(`<li><a`)
			h.attr("href", "#"+string(sec))
			h.raw(`>`)
			h.text(navLabel(sec))
			h.raw(`</a></li>`)
		}
		h.raw(`</ul></nav><main>`)

		for _, sec := range site.Sections {
			h.raw(`<section`)
			h.attr("id", string(sec))
			h.attr("data-source", string(data.Page.Sources[sec]))
			h.raw(`><div class="container">`)
			if title, ok := sectionTitles[sec]; ok {
				h.raw(`<h2 class="section-title">`)
				h.text(title)
				h.raw(`</h2>`)
			}
			switch sec {
			case site.SectionInstructors:
				writeInstructors(h, data.Page.Instructors)
			case site.SectionSchedule:
				writeTimeline(h, data.Page.Schedule)
			case site.SectionMembers:
				writeMembers(h, data.Page.Members)
			}
			h.raw(`</div></section>`)
		}

		h.raw(`</main>`)
		writeFoot(h, data.Title)
		return h.err
	})
}

func navLabel(sec site.Section) string {
	if t, ok := sectionTitles[sec]; ok {
		return t
	}
	return "所属生情報"
}

func writeHead(h *htmlWriter, title string) {
	h.raw(`<!DOCTYPE html><html lang="ja"><head><meta charset="utf-8">`)
	h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
	h.raw(`<title>`)
	h.text(title)
	h.raw(`</title></head><body>`)
}

func writeFoot(h *htmlWriter, title string) {
	h.raw(`<footer><p>&copy; `)
	h.text(title)
	h.raw(`</p></footer></body></html>`)
}
