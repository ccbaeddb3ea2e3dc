// Package httpapi exposes internal/manager.Manager over plain net/http,
// a {success, data|error} envelope shape similar to
// internal/rpc.Response, just carried over JSON-over-HTTP instead of a
// length-prefixed Unix socket protocol.
package httpapi

// envelope is the response body for every request. Data is omitted on
// failure, Error is omitted on success.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}
