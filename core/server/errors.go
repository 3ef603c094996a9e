package server

import "errors"

var (
	// Certificate errors
	ErrEmptyCertPath     = errors.New("certificate or key file path cannot be empty")
	ErrFailedLoadCert    = errors.New("failed to load certificate")
	ErrNoServerName      = errors.New("no server name provided")
	ErrUnknownServerName = errors.New("no certificate for server name")

	// Renewal errors
	ErrRenewFailed = errors.New("certificate renewal failed")

	// Server lifecycle errors
	ErrNilHandler           = errors.New("handler is required")
	ErrInvalidPort          = errors.New("invalid port")
	ErrHandlerPanic         = errors.New("handler panicked")
	ErrServerAlreadyRunning = errors.New("server is already running")
	ErrBind                 = errors.New("failed to bind listener")
	ErrHTTPServer           = errors.New("HTTP server error")
	ErrHTTPShutdown         = errors.New("HTTP shutdown error")
	ErrRedirectShutdown     = errors.New("redirect listener shutdown error")
	ErrInvalidSchedule      = errors.New("invalid reload interval")
)
