// internal/app/features/errors/logger.go
package errors

import (
	"net/http"

	"go.uber.org/zap"
)

// ErrorLogger logs server-side failures and renders a store_failure
// response so handlers don't repeat the log-then-render dance.
type ErrorLogger struct {
	log *zap.Logger
}

// NewErrorLogger constructs an ErrorLogger around the given zap logger.
func NewErrorLogger(log *zap.Logger) *ErrorLogger {
	return &ErrorLogger{log: log}
}

// LogServerError logs the error with request context and writes a 500
// store_failure response carrying userMsg.
func (el *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg string) {
	el.log.Error(logMsg,
		zap.Error(err),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	)
	if userMsg == "" {
		userMsg = "An unexpected error occurred."
	}
	write(w, http.StatusInternalServerError, KindStoreFailure, userMsg)
}
