// Package htmx reads and writes the htmx request and response headers.
package htmx

import (
	"net/http"
	"strings"
)

const (
	HeaderRequest  = "HX-Request"
	HeaderTrigger  = "HX-Trigger"
	HeaderRedirect = "HX-Redirect"
)

func IsRequest(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get(HeaderRequest), "true")
}

// Trigger asks the client to fire the named events once the response is
// swapped in.
func Trigger(w http.ResponseWriter, events ...string) {
	if len(events) == 0 {
		return
	}
	w.Header().Set(HeaderTrigger, strings.Join(events, ", "))
}

// Redirect makes htmx perform a full page navigation to target.
func Redirect(w http.ResponseWriter, target string) {
	w.Header().Set(HeaderRedirect, target)
}
