package inmemory

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/alexandernizov/messageboard/internal/domain"
	"github.com/alexandernizov/messageboard/internal/pkg/logger/sl"
	"github.com/alexandernizov/messageboard/internal/storage"
	"github.com/google/uuid"
)

type Inmemory struct {
	log *slog.Logger

	mu       sync.RWMutex
	messages []domain.Message
}

func New(log *slog.Logger) *Inmemory {
	return &Inmemory{log: log}
}

func (i *Inmemory) Close() error {
	return nil
}

func (i *Inmemory) InsertMessage(ctx context.Context, message domain.Message) (*domain.Message, error) {
	id, err := uuid.NewV7()
	if err != nil {
		i.log.Error("can't generate id", slog.String("op", "inmemory.InsertMessage"), sl.Err(err))
		return nil, storage.ErrInternal
	}

	newMessage := domain.Message{
		ID:        id.String(),
		Message:   message.Message,
		CreatedAt: message.CreatedAt.UTC(),
	}
	if message.Name != nil {
		name := *message.Name
		newMessage.Name = &name
	}

	i.mu.Lock()
	i.messages = append(i.messages, newMessage)
	i.mu.Unlock()

	res := newMessage
	return &res, nil
}

func (i *Inmemory) ListMessages(ctx context.Context) ([]domain.Message, error) {
	i.mu.RLock()
	res := slices.Clone(i.messages)
	i.mu.RUnlock()

	if res == nil {
		return []domain.Message{}, nil
	}

	slices.SortStableFunc(res, func(a, b domain.Message) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		switch {
		case a.ID > b.ID:
			return -1
		case a.ID < b.ID:
			return 1
		}
		return 0
	})
	return res, nil
}
