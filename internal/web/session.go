package web

import (
	"net/http"

	"github.com/google/uuid"

	mw "github.com/JonMunkholm/splitter/internal/web/middleware"
)

// sessionCookie identifies the browser that owns a split result. A new
// split from the same session replaces the previous result.
const sessionCookie = "splitter_session"

// session returns the caller's session ID, issuing a new cookie if needed.
func session(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(sessionCookie); err == nil {
		if id, err := uuid.Parse(c.Value); err == nil {
			return id.String()
		}
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// existingSession returns the caller's session ID without issuing one.
func existingSession(r *http.Request) string {
	c, err := r.Cookie(sessionCookie)
	if err != nil {
		return ""
	}
	if _, err := uuid.Parse(c.Value); err != nil {
		return ""
	}
	return c.Value
}

// apiOwner identifies an API caller without issuing a cookie: the browser
// session if one is sent, else the API key, else the client address. Each
// caller then holds at most one stored result.
func apiOwner(r *http.Request) string {
	if id := existingSession(r); id != "" {
		return id
	}
	if key := r.Header.Get(mw.APIKeyHeader); key != "" {
		return "key:" + uuid.NewSHA1(uuid.NameSpaceOID, []byte(key)).String()
	}
	return "ip:" + mw.ClientIP(r)
}
