package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/alexandernizov/messageboard/internal/domain"
	"github.com/alexandernizov/messageboard/internal/pkg/logger/sl"
	"github.com/alexandernizov/messageboard/internal/storage"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/samber/lo"
)

type Redis struct {
	log *slog.Logger
	db  *redis.Client
}

type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

const (
	messagesIndexKey = "messages"
	messageKeyPrefix = "message:"
)

func New(log *slog.Logger, db *redis.Client) *Redis {
	return &Redis{log: log, db: db}
}

func NewRedis(ctx context.Context, log *slog.Logger, opt RedisOptions) (*Redis, error) {
	db := redis.NewClient(&redis.Options{Addr: opt.Addr, Password: opt.Password, DB: opt.DB})

	_, err := db.Ping(ctx).Result()
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("can't ping Redis DB: %w", storage.ErrNoConnection)
	}
	return &Redis{log: log, db: db}, nil
}

func (r *Redis) Close() error {
	return r.db.Close()
}

func MessageKey(id string) string {
	return messageKeyPrefix + id
}

// InsertMessage stores the message as a hash and indexes it in a sorted set
// scored by created_at in microseconds. Equal scores fall back to member
// order, and UUIDv7 members sort by creation time.
func (r *Redis) InsertMessage(ctx context.Context, message domain.Message) (*domain.Message, error) {
	const op = "redis.InsertMessage"
	log := r.log.With(slog.String("op", op))

	id, err := uuid.NewV7()
	if err != nil {
		log.Error("can't generate id", sl.Err(err))
		return nil, storage.ErrInternal
	}

	res := domain.Message{
		ID:        id.String(),
		Message:   message.Message,
		Name:      message.Name,
		CreatedAt: message.CreatedAt.UTC().Truncate(time.Microsecond),
	}

	fields := map[string]any{
		"id":         res.ID,
		"message":    res.Message,
		"created_at": res.CreatedAt.Format(time.RFC3339Nano),
	}
	if res.Name != nil {
		fields["name"] = *res.Name
	}

	_, err = r.db.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, MessageKey(res.ID), fields)
		pipe.ZAdd(ctx, messagesIndexKey, redis.Z{Score: float64(res.CreatedAt.UnixMicro()), Member: res.ID})
		return nil
	})
	if err != nil {
		log.Error("can't store message", sl.Err(err))
		return nil, storage.ErrInternal
	}

	return &res, nil
}

func (r *Redis) ListMessages(ctx context.Context) ([]domain.Message, error) {
	const op = "redis.ListMessages"
	log := r.log.With(slog.String("op", op))

	ids, err := r.db.ZRevRange(ctx, messagesIndexKey, 0, -1).Result()
	if err != nil {
		log.Error("can't read messages index", sl.Err(err))
		return nil, storage.ErrInternal
	}
	if len(ids) == 0 {
		return []domain.Message{}, nil
	}

	cmds := make([]*redis.MapStringStringCmd, 0, len(ids))
	_, err = r.db.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, id := range ids {
			cmds = append(cmds, pipe.HGetAll(ctx, MessageKey(id)))
		}
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		log.Error("can't read messages", sl.Err(err))
		return nil, storage.ErrInternal
	}

	res := make([]domain.Message, 0, len(cmds))
	for _, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 {
			continue
		}
		message, err := FromHash(fields)
		if err != nil {
			log.Error("can't decode message", sl.Err(err))
			return nil, storage.ErrInternal
		}
		res = append(res, message)
	}

	return res, nil
}

// FromHash decodes a message hash as written by InsertMessage.
func FromHash(fields map[string]string) (domain.Message, error) {
	createdAt, err := time.Parse(time.RFC3339Nano, fields["created_at"])
	if err != nil {
		return domain.Message{}, fmt.Errorf("created_at %q: %w", fields["created_at"], err)
	}

	res := domain.Message{
		ID:        fields["id"],
		Message:   fields["message"],
		CreatedAt: createdAt.UTC(),
	}
	if name, ok := fields["name"]; ok {
		res.Name = lo.ToPtr(name)
	}
	return res, nil
}
