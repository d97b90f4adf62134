// internal/app/features/errors/logger.go
package errors

import (
	stderrors "errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/jjprojectslab/comunify/internal/app/system/envelope"
	"go.uber.org/zap"
)

// ErrorLogger logs failures and writes the failure envelope.
type ErrorLogger struct {
	log *zap.Logger
}

// NewErrorLogger creates an ErrorLogger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{log: logger}
}

// Respond writes err as a failure envelope. Data-store errors are logged with
// the request path; the others are expected outcomes and logged at debug.
func (el *ErrorLogger) Respond(w http.ResponseWriter, r *http.Request, err error) {
	var e *Error
	if !stderrors.As(err, &e) {
		e = DataStore("A database error occurred.", err)
	}
	if e.Kind == KindDataStore {
		el.log.Error(e.Message, el.fields(r, e.Err)...)
	} else {
		el.log.Debug("request rejected", append(el.fields(r, nil), zap.String("kind", string(e.Kind)), zap.String("reason", e.Message))...)
	}
	envelope.Fail(w, e.Kind.Status(), string(e.Kind), e.Message)
}

// LogServerError logs msg with err and answers with a data-store failure
// carrying userMsg.
func (el *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg string) {
	el.log.Error(msg, el.fields(r, err)...)
	envelope.Fail(w, http.StatusInternalServerError, string(KindDataStore), userMsg)
}

// LogBadRequest logs a malformed request and answers with a validation failure.
func (el *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg string) {
	el.log.Warn(msg, el.fields(r, err)...)
	envelope.Fail(w, http.StatusBadRequest, string(KindValidation), userMsg)
}

func (el *ErrorLogger) fields(r *http.Request, err error) []zap.Field {
	fs := []zap.Field{
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	}
	if id := middleware.GetReqID(r.Context()); id != "" {
		fs = append(fs, zap.String("request_id", id))
	}
	if err != nil {
		fs = append(fs, zap.Error(err))
	}
	return fs
}
