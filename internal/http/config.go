package http

import (
	"librismundis/internal/library"
	"librismundis/internal/session"
	"librismundis/internal/storage"
)

// RouterConfig contains all dependencies and configuration needed to create
// the HTTP router. This replaces a long parameter list in NewRouter.
type RouterConfig struct {
	// Core dependencies
	Library  *library.Library
	Accounts *session.Manager
	Backend  storage.Backend
	Database *storage.Database

	// Cookie sessions (optional; browser login state)
	SessionManager *SessionManager

	// CSRF protection (enabled when a secret is set)
	CSRFSecret    []byte
	SecureCookies bool

	// Background work (optional)
	TaskClient TaskEnqueuer

	// Application info
	Version string
}
