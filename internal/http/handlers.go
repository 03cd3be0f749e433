package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/alexandernizov/messageboard/internal/domain"
	"github.com/alexandernizov/messageboard/internal/domain/errs"
	"github.com/alexandernizov/messageboard/internal/pkg/logger/sl"
)

//go:generate mockery --name=BoardProvider --output=mocks --outpkg=mocks

type BoardProvider interface {
	Messages(ctx context.Context) ([]domain.Message, error)
	PostMessage(ctx context.Context, input domain.NewMessage) (*domain.Message, error)
}

type Recorder interface {
	MessageCreated()
	MessagesListed(n int)
}

type noopRecorder struct{}

func (noopRecorder) MessageCreated()    {}
func (noopRecorder) MessagesListed(int) {}

const maxBodyBytes = 1 << 20

const (
	msgInvalidJSON   = "invalid json"
	msgInternalError = "internal error"
)

type MessageHandlers struct {
	log      *slog.Logger
	board    BoardProvider
	recorder Recorder
}

func NewMessageHandlers(log *slog.Logger, board BoardProvider, recorder Recorder) *MessageHandlers {
	if recorder == nil {
		recorder = noopRecorder{}
	}
	return &MessageHandlers{log: log, board: board, recorder: recorder}
}

// GET /messages
func (h *MessageHandlers) List(w http.ResponseWriter, r *http.Request) {
	const op = "http.MessageHandlers.List"
	log := h.log.With(slog.String("op", op))

	messages, err := h.board.Messages(r.Context())
	if err != nil {
		h.writeServiceError(log, w, err)
		return
	}

	h.recorder.MessagesListed(len(messages))
	writeJSON(log, w, http.StatusOK, messages)
}

// POST /messages
func (h *MessageHandlers) Create(w http.ResponseWriter, r *http.Request) {
	const op = "http.MessageHandlers.Create"
	log := h.log.With(slog.String("op", op))

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		log.Warn("can't read request body", sl.Err(err))
		writeError(log, w, http.StatusBadRequest, msgInvalidJSON)
		return
	}
	log.Debug("create message request", slog.String("body", string(body)))

	var in domain.NewMessage
	if err := json.Unmarshal(body, &in); err != nil {
		writeError(log, w, http.StatusBadRequest, msgInvalidJSON)
		return
	}

	created, err := h.board.PostMessage(r.Context(), in)
	if err != nil {
		h.writeServiceError(log, w, err)
		return
	}

	h.recorder.MessageCreated()
	writeJSON(log, w, http.StatusOK, created)
}

func (h *MessageHandlers) writeServiceError(log *slog.Logger, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errs.ErrInvalidMessage):
		writeError(log, w, http.StatusBadRequest, err.Error())
	default:
		log.Error("request failed", sl.Err(err))
		writeError(log, w, http.StatusInternalServerError, msgInternalError)
	}
}
