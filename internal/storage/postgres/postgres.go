package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/alexandernizov/messageboard/internal/domain"
	"github.com/alexandernizov/messageboard/internal/pkg/logger/sl"
	"github.com/alexandernizov/messageboard/internal/storage"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

type Postgres struct {
	log *slog.Logger
	db  *sql.DB
}

type ConnectOptions struct {
	Host     string
	Port     string
	User     string
	Password string
	DBname   string
}

const messagesTable = "messages"

func New(log *slog.Logger, db *sql.DB) *Postgres {
	return &Postgres{log, db}
}

func NewWithOptions(ctx context.Context, log *slog.Logger, opt ConnectOptions) (*Postgres, error) {
	psqlInfo := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		opt.Host,
		opt.Port,
		opt.User,
		opt.Password,
		opt.DBname)

	db, err := sql.Open("postgres", psqlInfo)
	if err != nil {
		return nil, fmt.Errorf("can't open Postgres DB: %w", storage.ErrNoConnection)
	}

	err = db.PingContext(ctx)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("can't ping Postgres DB: %w", storage.ErrNoConnection)
	}

	p := &Postgres{log: log, db: db}
	if err := p.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return p, nil
}

func (p *Postgres) Close() error {
	err := p.db.Close()
	if err != nil {
		return err
	}
	return nil
}

// Migrate creates the messages table and its listing index when missing.
func (p *Postgres) Migrate(ctx context.Context) error {
	const op = "postgres.Migrate"
	log := p.log.With(slog.String("op", op))

	query := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %[1]s (
	id         UUID PRIMARY KEY,
	message    TEXT NOT NULL,
	name       TEXT,
	created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS %[1]s_created_at_idx ON %[1]s (created_at DESC, id DESC)`, messagesTable)

	if _, err := p.db.ExecContext(ctx, query); err != nil {
		log.Error("can't migrate", sl.Err(err))
		return storage.ErrInternal
	}
	return nil
}

type Message struct {
	Id        uuid.UUID      `pg:"id"`
	Message   string         `pg:"message"`
	Name      sql.NullString `pg:"name"`
	CreatedAt time.Time      `pg:"created_at"`
}

func (p *Postgres) InsertMessage(ctx context.Context, message domain.Message) (*domain.Message, error) {
	const op = "postgres.InsertMessage"
	log := p.log.With(slog.String("op", op))

	id, err := uuid.NewV7()
	if err != nil {
		log.Error("can't generate id", sl.Err(err))
		return nil, storage.ErrInternal
	}

	pgMessage := Message{
		Id:        id,
		Message:   message.Message,
		Name:      toNullString(message.Name),
		CreatedAt: message.CreatedAt.UTC().Truncate(time.Microsecond),
	}

	query := fmt.Sprintf("INSERT INTO %s (id, message, name, created_at) VALUES ($1,$2,$3,$4)", messagesTable)
	_, err = p.db.ExecContext(ctx, query, pgMessage.Id, pgMessage.Message, pgMessage.Name, pgMessage.CreatedAt)
	if err != nil {
		log.Error("can't insert message", sl.Err(err))
		return nil, storage.ErrInternal
	}

	res := pgMessage.toDomain()
	return &res, nil
}

func (p *Postgres) ListMessages(ctx context.Context) ([]domain.Message, error) {
	const op = "postgres.ListMessages"
	log := p.log.With(slog.String("op", op))

	query := fmt.Sprintf("SELECT id, message, name, created_at FROM %s ORDER BY created_at DESC, id DESC", messagesTable)
	rows, err := p.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("can't select messages", sl.Err(err))
		return nil, storage.ErrInternal
	}
	defer rows.Close()

	res := []domain.Message{}
	for rows.Next() {
		var pgMessage Message
		if err := rows.Scan(&pgMessage.Id, &pgMessage.Message, &pgMessage.Name, &pgMessage.CreatedAt); err != nil {
			log.Error("can't scan message", sl.Err(err))
			return nil, storage.ErrInternal
		}
		res = append(res, pgMessage.toDomain())
	}
	if err := rows.Err(); err != nil {
		log.Error("error during rows iteration", sl.Err(err))
		return nil, storage.ErrInternal
	}

	return res, nil
}

func (m Message) toDomain() domain.Message {
	res := domain.Message{
		ID:        m.Id.String(),
		Message:   m.Message,
		CreatedAt: m.CreatedAt.UTC(),
	}
	if m.Name.Valid {
		name := m.Name.String
		res.Name = &name
	}
	return res
}

func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
