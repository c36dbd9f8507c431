package middleware

import (
	"io"
	"net/http"
)

// drainLimit caps how much of an unread body gets drained before close,
// photo uploads can be several MB and a rejected client should not get
// to stream all of it
const drainLimit = 1 << 20

// DrainAndCloseRequest drains whatever the handler left unread so the
// connection can be reused, then closes the body.
func DrainAndCloseRequest() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r)
			if r.Body != nil {
				_, _ = io.CopyN(io.Discard, r.Body, drainLimit)
				_ = r.Body.Close()
			}
		})
	}
}
