package core

import "context"

type contextKey string

const (
	ctxKeyIPAddress contextKey = "client_ip"
	ctxKeyUserAgent contextKey = "user_agent"
)

// ContextWithClient records the caller's address and User-Agent so import
// logs can name who submitted a document.
func ContextWithClient(ctx context.Context, ip, userAgent string) context.Context {
	ctx = context.WithValue(ctx, ctxKeyIPAddress, ip)
	return context.WithValue(ctx, ctxKeyUserAgent, userAgent)
}

// ClientFromContext returns the values stored by ContextWithClient.
func ClientFromContext(ctx context.Context) (ip, userAgent string) {
	ip, _ = ctx.Value(ctxKeyIPAddress).(string)
	userAgent, _ = ctx.Value(ctxKeyUserAgent).(string)
	return ip, userAgent
}
