package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/alexandernizov/messageboard/internal/pkg/logger/sl"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(log *slog.Logger, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("write json response failed", sl.Err(err))
	}
}

func writeError(log *slog.Logger, w http.ResponseWriter, status int, msg string) {
	writeJSON(log, w, status, ErrorResponse{Error: msg})
}
