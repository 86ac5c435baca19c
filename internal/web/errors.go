package web

// errors.go renders error responses. The technical error is logged with the
// request id; clients get the mapped message and code.

import (
	"errors"
	"net/http"
	"strings"

	"github.com/JonMunkholm/salonsite/internal/build"
	"github.com/JonMunkholm/salonsite/internal/logging"
)

var (
	errNotFound   = errors.New("page not found")
	errNoBuild    = errors.New("no build manifest; run sitegen first")
	errNoSnapshot = errors.New("no snapshot saved")
)

// ErrorResponse is the JSON body of an error.
type ErrorResponse struct {
	Error  string `json:"error"`
	Action string `json:"action,omitempty"`
	Code   string `json:"code"`
}

// respondError logs err and writes a JSON or plain text response,
// depending on what the client accepts.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, status int) {
	msg := messageFor(err)

	logger := logging.FromContext(r.Context())
	attrs := []any{
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", msg.Code,
	}
	if status >= http.StatusInternalServerError {
		logger.Error("request error", attrs...)
	} else {
		logger.Debug("request error", attrs...)
	}

	if wantsJSON(r) {
		writeJSONStatus(w, status, ErrorResponse{Error: msg.Message, Action: msg.Action, Code: msg.Code})
		return
	}
	http.Error(w, msg.Message+" ("+msg.Code+")", status)
}

func messageFor(err error) build.UserMessage {
	switch {
	case errors.Is(err, errNotFound):
		return build.UserMessage{Message: "Page not found", Code: "WEB404"}
	case errors.Is(err, errNoBuild):
		return build.UserMessage{Message: "No build found", Action: "Run sitegen to generate the site", Code: "WEB404"}
	case errors.Is(err, errNoSnapshot):
		return build.UserMessage{Message: "No snapshot found", Action: "Run sitegen with SNAPSHOT_DRIVER set", Code: "WEB404"}
	}
	return build.MapError(err)
}

// wantsJSON checks if the client prefers a JSON response.
func wantsJSON(r *http.Request) bool {
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return true
	}
	return strings.HasPrefix(r.URL.Path, "/api/")
}
