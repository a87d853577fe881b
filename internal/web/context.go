package web

import (
	"context"
	"net/http"

	"github.com/JonMunkholm/splitter/internal/core"
	mw "github.com/JonMunkholm/splitter/internal/web/middleware"
)

// WithRequestMetadata adds the client IP and User-Agent to ctx for split history.
func WithRequestMetadata(ctx context.Context, r *http.Request) context.Context {
	return core.ContextWithClient(ctx, mw.ClientIP(r), r.UserAgent())
}
