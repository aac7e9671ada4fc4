package web

import (
	"context"
	"net/http"

	"github.com/JonMunkholm/licscan/internal/core"
)

// withClient returns the request context carrying the client address and
// User-Agent. RemoteAddr has already been rewritten by TrustedRealIP.
func withClient(r *http.Request) context.Context {
	return core.ContextWithClient(r.Context(), r.RemoteAddr, r.UserAgent())
}
