package badger_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/alexandernizov/messageboard/internal/domain"
	badgerstorage "github.com/alexandernizov/messageboard/internal/storage/badger"
	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
)

func newRepository(t *testing.T) *badgerstorage.Badger {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return badgerstorage.New(slog.Default(), db)
}

func Test_Empty_Store(t *testing.T) {
	req := require.New(t)
	repository := newRepository(t)

	got, err := repository.ListMessages(context.Background())
	req.NoError(err)
	req.NotNil(got)
	req.Empty(got)
}

func Test_Record_Multiple_Message(t *testing.T) {
	req := require.New(t)
	repository := newRepository(t)

	at := time.Now().UTC()
	alice, bob := "Alice", "Bob"
	toStore := []domain.Message{
		{Message: "first", Name: &alice, CreatedAt: at},
		{Message: "second", Name: &bob, CreatedAt: at.Add(1 * time.Minute)},
		{Message: "third", CreatedAt: at.Add(2 * time.Minute)},
	}

	var stored []*domain.Message
	for _, m := range toStore {
		created, err := repository.InsertMessage(context.Background(), m)
		req.NoError(err)
		req.NotEmpty(created.ID)
		stored = append(stored, created)
	}

	fetched, err := repository.ListMessages(context.Background())
	req.NoError(err)
	req.Len(fetched, len(toStore))
	for i := range fetched {
		req.Equal(*stored[len(stored)-1-i], fetched[i])
	}
	req.Nil(fetched[0].Name)
	req.Equal("Bob", *fetched[1].Name)
}

func Test_Same_Timestamp_Keeps_Insertion_Order(t *testing.T) {
	req := require.New(t)
	repository := newRepository(t)

	at := time.Now().UTC()
	first, err := repository.InsertMessage(context.Background(), domain.Message{Message: "first", CreatedAt: at})
	req.NoError(err)
	second, err := repository.InsertMessage(context.Background(), domain.Message{Message: "second", CreatedAt: at})
	req.NoError(err)

	fetched, err := repository.ListMessages(context.Background())
	req.NoError(err)
	req.Len(fetched, 2)
	req.Equal(second.ID, fetched[0].ID)
	req.Equal(first.ID, fetched[1].ID)
}
