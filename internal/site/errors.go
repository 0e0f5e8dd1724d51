package site

// errors.go maps technical errors to messages safe to show a visitor or an
// API client. Each message carries a code for support reference:
//
//	SHEET001 - sheet not found (404 from the spreadsheet host)
//	SHEET002 - sheet not published (401/403)
//	SHEET003 - spreadsheet host error (other non-2xx)
//	SHEET004 - sheet export too large
//	SHEET005 - no spreadsheet configured
//	SEC001   - unknown section
//	NET001   - request to the spreadsheet timed out
//	NET002   - spreadsheet host unreachable
//	REQ001   - request cancelled by the client
//	REQ002   - page not found
//	REQ003   - invalid request parameter
//	RATE001  - too many requests
//	ERR000   - anything else
//
// Typed and sentinel errors are checked first; remaining errors are matched
// case-insensitively on their text, first match wins.

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/JonMunkholm/likorise/internal/csv"
	"github.com/JonMunkholm/likorise/internal/sheets"
)

// UserMessage is the client-facing description of an error.
type UserMessage struct {
	Message string
	Action  string
	Code    string
}

var (
	msgSheetNotFound = UserMessage{
		Message: "The requested sheet could not be found",
		Action:  "Check the sheet name in the site configuration",
		Code:    "SHEET001",
	}
	msgSheetPrivate = UserMessage{
		Message: "The spreadsheet is not published",
		Action:  "Publish the spreadsheet to the web or check its sharing settings",
		Code:    "SHEET002",
	}
	msgSheetUpstream = UserMessage{
		Message: "The spreadsheet host returned an error",
		Action:  "Please try again in a few moments",
		Code:    "SHEET003",
	}
	msgSheetTooLarge = UserMessage{
		Message: "The sheet export is too large",
		Action:  "Remove unused rows or raise the download limit",
		Code:    "SHEET004",
	}
	msgNoSpreadsheet = UserMessage{
		Message: "No spreadsheet is configured",
		Action:  "Set SHEETS_SPREADSHEET_ID to enable live content",
		Code:    "SHEET005",
	}
	msgUnknownSection = UserMessage{
		Message: "Unknown section",
		Action:  "Use one of: instructors, schedule, members",
		Code:    "SEC001",
	}
	msgTimeout = UserMessage{
		Message: "The spreadsheet took too long to respond",
		Action:  "Please try again in a few moments",
		Code:    "NET001",
	}
	msgUnreachable = UserMessage{
		Message: "The spreadsheet host could not be reached",
		Action:  "Please try again in a few moments",
		Code:    "NET002",
	}
	msgCancelled = UserMessage{
		Message: "Request was cancelled",
		Action:  "Please try again",
		Code:    "REQ001",
	}
	msgNotFound = UserMessage{
		Message: "Page not found",
		Action:  "Check the address or return to the top page",
		Code:    "REQ002",
	}
	msgBadRequest = UserMessage{
		Message: "Invalid request parameter",
		Action:  "Check the query parameters and try again",
		Code:    "REQ003",
	}
	msgRateLimited = UserMessage{
		Message: "Too many requests",
		Action:  "Please wait a moment before trying again",
		Code:    "RATE001",
	}
	msgDefault = UserMessage{
		Message: "An unexpected error occurred",
		Action:  "Please try again or contact the site owner",
		Code:    "ERR000",
	}
)

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	{"timeout", msgTimeout},
	{"deadline exceeded", msgTimeout},
	{"connection refused", msgUnreachable},
	{"no such host", msgUnreachable},
	{"connection reset", msgUnreachable},
	{"rate limit", msgRateLimited},
	{"not found", msgNotFound},
	{"invalid parameter", msgBadRequest},
}

// MapError converts err to a UserMessage. A nil error maps to the default
// message.
func MapError(err error) UserMessage {
	if err == nil {
		return msgDefault
	}

	var statusErr *sheets.StatusError
	switch {
	case errors.As(err, &statusErr):
		switch statusErr.StatusCode {
		case http.StatusNotFound:
			return msgSheetNotFound
		case http.StatusUnauthorized, http.StatusForbidden:
			return msgSheetPrivate
		default:
			return msgSheetUpstream
		}
	case errors.Is(err, csv.ErrTooLarge):
		return msgSheetTooLarge
	case errors.Is(err, sheets.ErrNoSpreadsheet):
		return msgNoSpreadsheet
	case errors.Is(err, ErrUnknownSection):
		return msgUnknownSection
	case errors.Is(err, context.DeadlineExceeded):
		return msgTimeout
	case errors.Is(err, context.Canceled):
		return msgCancelled
	}

	lower := strings.ToLower(err.Error())
	for _, p := range errorPatterns {
		if strings.Contains(lower, p.pattern) {
			return p.msg
		}
	}
	return msgDefault
}
