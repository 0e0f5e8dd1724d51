package web

// errors.go provides unified error response handling for the web layer.
//
// Technical errors are logged with the request ID; clients get the coded
// user message from site.MapError, as JSON for API requests and as an HTML
// page otherwise. The main page never goes through here: failed sections
// fall back to embedded content instead.

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/JonMunkholm/likorise/internal/logging"
	"github.com/JonMunkholm/likorise/internal/sheets"
	"github.com/JonMunkholm/likorise/internal/site"
	"github.com/JonMunkholm/likorise/internal/web/templates"
)

var (
	errRateLimited = errors.New("rate limit exceeded")
	errNotFound    = errors.New("page not found")
	errBadLimit    = errors.New("invalid parameter: limit")
)

// ErrorResponse represents the JSON structure for API error responses.
// Includes both machine-readable (Code) and human-readable (Message, Action) fields.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// respondError logs err and writes the mapped user message.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	userMsg := site.MapError(err)

	logger := logging.FromContext(r.Context())
	attrs := []any{
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", userMsg.Code,
	}
	if statusCode >= http.StatusInternalServerError {
		logger.Error("request error", attrs...)
	} else {
		logger.Warn("request error", attrs...)
	}

	if wantsJSON(r) {
		respondErrorJSON(w, userMsg, statusCode)
		return
	}
	s.respondErrorHTML(w, r, userMsg, statusCode)
}

// respondErrorJSON writes a JSON error response.
func respondErrorJSON(w http.ResponseWriter, msg site.UserMessage, statusCode int) {
	writeJSON(w, statusCode, ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	})
}

// respondErrorHTML renders the error page.
func (s *Server) respondErrorHTML(w http.ResponseWriter, r *http.Request, msg site.UserMessage, statusCode int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	if err := templates.ErrorPage(s.cfg.Server.SiteTitle, msg.Message, msg.Action, msg.Code).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render error page", "error", err)
	}
}

// statusFor picks the HTTP status for a handler error. Upstream sheet
// failures of any kind are 502.
func statusFor(err error) int {
	switch {
	case errors.Is(err, site.ErrUnknownSection), errors.Is(err, errNotFound):
		return http.StatusNotFound
	case errors.Is(err, errBadLimit):
		return http.StatusBadRequest
	case errors.Is(err, sheets.ErrNoSpreadsheet):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

// wantsJSON checks if the client prefers JSON response.
func wantsJSON(r *http.Request) bool {
	// API routes default to JSON
	if strings.HasPrefix(r.URL.Path, "/api/") {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}
