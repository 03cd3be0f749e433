package badger

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/alexandernizov/messageboard/internal/domain"
	"github.com/alexandernizov/messageboard/internal/pkg/logger/sl"
	"github.com/alexandernizov/messageboard/internal/storage"
	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

const messagePrefix = "msg:"

type Badger struct {
	log *slog.Logger
	db  *badger.DB
}

type Message struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Name      *string   `json:"name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func New(log *slog.Logger, db *badger.DB) *Badger {
	return &Badger{log: log, db: db}
}

func Open(log *slog.Logger, path string) (*Badger, error) {
	db, err := badger.Open(badger.DefaultOptions(path).WithLoggingLevel(badger.ERROR))
	if err != nil {
		return nil, fmt.Errorf("can't open Badger at %s: %w", path, storage.ErrNoConnection)
	}
	return &Badger{log: log, db: db}, nil
}

func (b *Badger) Close() error {
	return b.db.Close()
}

// MessageKey is "msg:{created_at_unix_nano_padded}:{id}". Zero padding to 19
// digits keeps lexicographic key order equal to time order, and the UUIDv7
// suffix separates messages created in the same nanosecond.
func MessageKey(message Message) []byte {
	return []byte(fmt.Sprintf("%s%019d:%s", messagePrefix, message.CreatedAt.UnixNano(), message.ID))
}

func (b *Badger) InsertMessage(ctx context.Context, message domain.Message) (*domain.Message, error) {
	const op = "badger.InsertMessage"
	log := b.log.With(slog.String("op", op))

	id, err := uuid.NewV7()
	if err != nil {
		log.Error("can't generate id", sl.Err(err))
		return nil, storage.ErrInternal
	}

	diskMessage := Message{
		ID:        id.String(),
		Message:   message.Message,
		Name:      message.Name,
		CreatedAt: message.CreatedAt.UTC(),
	}

	value, err := json.Marshal(diskMessage)
	if err != nil {
		log.Error("can't marshal message", sl.Err(err))
		return nil, storage.ErrInternal
	}

	err = b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(MessageKey(diskMessage), value)
	})
	if err != nil {
		log.Error("can't store message", sl.Err(err))
		return nil, storage.ErrInternal
	}

	return lo.ToPtr(diskMessage.toDomain()), nil
}

// ListMessages walks the message keys in reverse, which is newest first.
func (b *Badger) ListMessages(ctx context.Context) ([]domain.Message, error) {
	const op = "badger.ListMessages"
	log := b.log.With(slog.String("op", op))

	res := []domain.Message{}
	err := b.db.View(func(txn *badger.Txn) error {
		prefix := []byte(messagePrefix)
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		options.Prefix = prefix
		it := txn.NewIterator(options)
		defer it.Close()

		// In reverse mode Seek lands on the last key <= seek key.
		seekKey := append([]byte(messagePrefix), 0xFF)
		for it.Seek(seekKey); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var diskMessage Message
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &diskMessage)
			})
			if err != nil {
				return err
			}
			res = append(res, diskMessage.toDomain())
		}
		return nil
	})
	if err != nil {
		log.Error("can't read messages", sl.Err(err))
		return nil, storage.ErrInternal
	}

	return res, nil
}

func (m Message) toDomain() domain.Message {
	return domain.Message{
		ID:        m.ID,
		Message:   m.Message,
		Name:      m.Name,
		CreatedAt: m.CreatedAt.UTC(),
	}
}
