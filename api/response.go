package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/garnizeh/carematch/internal/apperr"
	"github.com/gorilla/mux"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

type errorBody struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("encode response", slog.Any("err", err))
	}
}

// list keeps empty collections rendering as [] rather than null.
func list[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// writeError renders err with its status and public message. Auth denials are
// logged at WARN and counted; unexpected failures are logged with their cause.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.HTTPStatus(err)
	kind := apperr.Kind(err)
	attrs := []any{
		slog.String("request_id", requestID(r.Context())),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("kind", kind),
	}

	switch {
	case status == http.StatusUnauthorized:
		w.Header().Set("WWW-Authenticate", "Bearer")
		h.metrics.RecordAuthDenial(kind)
		logger.Warn("request denied", attrs...)
	case status == http.StatusForbidden:
		h.metrics.RecordAuthDenial(kind)
		logger.Warn("request denied", attrs...)
	case status >= http.StatusInternalServerError:
		logger.Error("request failed", append(attrs, slog.Any("err", err))...)
	}

	body := errorBody{Detail: apperr.PublicMessage(err)}
	var verr *apperr.ValidationError
	if errors.As(err, &verr) {
		body.Fields = verr.Fields
	}
	writeJSON(w, status, body)
}

// decode validates the body against schema, when one is named, and unmarshals
// it into v.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, schema string, v any) error {
	b, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return apperr.Invalid("body", "unreadable or too large")
	}
	if schema != "" {
		if err := h.validator.Validate(r.Context(), schema, b); err != nil {
			return err
		}
	}
	if err := json.Unmarshal(b, v); err != nil {
		return apperr.Invalid("body", "malformed JSON")
	}
	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Invalid(name, "must be a positive integer")
	}
	return id, nil
}
