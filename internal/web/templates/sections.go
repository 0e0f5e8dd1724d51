package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/likorise/internal/site"
)

// InstructorCards renders the instructor card grid.
func InstructorCards(items []site.Instructor) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := newWriter(w)
		writeInstructors(h, items)
		return h.err
	})
}

func writeInstructors(h *htmlWriter, items []site.Instructor) {
	h.raw(`<div class="card-grid">`)
	for _, in := range items {
		h.raw(`<div class="card">`)
		h.raw(`<div class="lesson-header"`)
		h.attr("style", "background: "+in.Style.Color+";")
		h.raw(`><h3>`)
		h.text(in.Style.Icon + " " + in.Style.Title)
		h.raw(`</h3></div>`)

		if in.Image != "" {
			h.raw(`<div class="avatar"><img`)
			h.attr("src", in.Image)
			h.attr("alt", in.Name)
			h.raw(` loading="lazy"></div>`)
		}

		h.raw(`<p class="card-text"><strong>`)
		h.text(in.Name)
		h.raw(`</strong></p></div>`)
	}
	h.raw(`</div>`)
}

// Timeline renders the annual schedule.
func Timeline(items []site.ScheduleItem) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := newWriter(w)
		writeTimeline(h, items)
		return h.err
	})
}

func writeTimeline(h *htmlWriter, items []site.ScheduleItem) {
	h.raw(`<div class="timeline">`)
	for _, it := range items {
		h.raw(`<div class="timeline-item"><div class="timeline-marker"></div><div class="timeline-content"><h4>`)
		h.text(it.Month + " - " + it.Title)
		h.raw(`</h4><p>`)
		h.lines(splitText(it.Description))
		h.raw(`</p></div></div>`)
	}
	h.raw(`</div>`)
}

// MembersSection renders the CREW and AMBASSADOR blocks. Either may be
// absent; a nil Members renders only the heading.
func MembersSection(m *site.Members) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := newWriter(w)
		writeMembers(h, m)
		return h.err
	})
}

func writeMembers(h *htmlWriter, m *site.Members) {
	h.raw(`<h2 class="section-title">所属生情報</h2>`)
	if m == nil {
		return
	}
	writeMemberBlock(h, m.Crew, "member-block crew")
	writeMemberBlock(h, m.Ambassador, "member-block ambassador")
}

func writeMemberBlock(h *htmlWriter, b *site.MemberBlock, class string) {
	if b == nil {
		return
	}
	h.raw(`<div`)
	h.attr("class", class)
	h.raw(`><h3>`)
	h.text(b.Category)
	h.raw(`</h3><div class="member-body"><p>`)
	h.lines(b.Lines)
	h.raw(`</p></div></div>`)
}
