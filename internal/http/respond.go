package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/phatnt99/shelfwise/internal/apperr"
	"github.com/phatnt99/shelfwise/internal/http/apierr"
)

// responder centralizes response serialization and error mapping for all
// handlers.
type responder struct {
	logger *slog.Logger
}

func newResponder(logger *slog.Logger) *responder {
	return &responder{logger: logger}
}

func (rs *responder) respond(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		rs.logger.ErrorContext(r.Context(), "error encoding response",
			slog.Any("error", err))
	}
}

func (rs *responder) respondError(w http.ResponseWriter, r *http.Request, err error) {
	res := apierr.New(err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(res.StatusCode)

	logLevel := slog.LevelInfo
	if res.StatusCode >= 500 {
		logLevel = slog.LevelError
	} else if res.StatusCode >= 400 {
		logLevel = slog.LevelWarn
	}
	rs.logger.Log(r.Context(), logLevel, "http response error", slog.Any("error", err))

	if err := json.NewEncoder(w).Encode(res); err != nil {
		rs.logger.ErrorContext(r.Context(), "error encoding error response",
			slog.Any("error", err))
	}
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperr.ValidationErr.WrapParent(err)
	}
	return nil
}
