package web

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/likorise/internal/csv"
	"github.com/JonMunkholm/likorise/internal/logging"
	"github.com/JonMunkholm/likorise/internal/site"
	"github.com/JonMunkholm/likorise/internal/store"
	"github.com/JonMunkholm/likorise/internal/web/templates"
)

// maxLoadsLimit caps the limit query parameter of /api/loads.
const maxLoadsLimit = 500

// handlePage renders the marketing page. Sheets are fetched on every
// request; failed sections render their fallback content.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page := s.site.LoadPage(ctx)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")

	data := templates.PageData{Title: s.cfg.Server.SiteTitle, Page: page}
	if err := templates.Page(data).Render(ctx, w); err != nil {
		logging.FromContext(ctx).Error("render page", "error", err)
	}
}

// HealthResponse is the body of /healthz.
type HealthResponse struct {
	Status string `json:"status"`
	Live   bool   `json:"live"`
}

// handleHealth reports liveness. It never touches the spreadsheet.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Live: s.site.Live()})
}

// SectionInfo describes one section in /api/sections.
type SectionInfo struct {
	Key   string `json:"key"`
	Sheet string `json:"sheet"`
}

// handleListSections returns the section keys and their sheet names.
func (s *Server) handleListSections(w http.ResponseWriter, r *http.Request) {
	names := s.site.SheetNames()
	out := make([]SectionInfo, len(site.Sections))
	for i, sec := range site.Sections {
		out[i] = SectionInfo{Key: string(sec), Sheet: names.For(sec)}
	}
	writeJSON(w, http.StatusOK, out)
}

// SectionResponse is the body of /api/sections/{key}.
type SectionResponse struct {
	Section string `json:"section"`
	csv.Table
}

// handleSection returns the parsed sheet behind a section, columns in
// sheet order.
func (s *Server) handleSection(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	table, err := s.site.Section(r.Context(), key)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	writeJSON(w, http.StatusOK, SectionResponse{Section: key, Table: table})
}

// LoadsResponse is the body of /api/loads.
type LoadsResponse struct {
	Loads []store.LoadEvent `json:"loads"`
}

// handleLoads returns the most recent sheet load events.
func (s *Server) handleLoads(w http.ResponseWriter, r *http.Request) {
	limit := store.DefaultRecentLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > maxLoadsLimit {
			s.respondError(w, r, errBadLimit, http.StatusBadRequest)
			return
		}
		limit = n
	}

	events, err := s.loads.Recent(r.Context(), limit)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	if events == nil {
		events = []store.LoadEvent{}
	}

	writeJSON(w, http.StatusOK, LoadsResponse{Loads: events})
}

// handleNotFound renders the not-found page, or JSON under /api.
func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.respondError(w, r, errNotFound, http.StatusNotFound)
}
