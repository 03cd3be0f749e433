package mongo

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alexandernizov/messageboard/internal/domain"
	"github.com/alexandernizov/messageboard/internal/pkg/logger/sl"
	"github.com/alexandernizov/messageboard/internal/storage"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/event"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"
)

const (
	defaultDatabase   = "board"
	defaultCollection = "messages"
)

type Mongo struct {
	log    *slog.Logger
	client *mongo.Client
	coll   *mongo.Collection
}

type ConnectOptions struct {
	URI        string
	Collection string
	Timeout    time.Duration
	Monitor    *event.CommandMonitor
}

type Message struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Message   string             `bson:"message"`
	Name      *string            `bson:"name,omitempty"`
	CreatedAt time.Time          `bson:"created_at"`
}

func New(log *slog.Logger, coll *mongo.Collection) *Mongo {
	return &Mongo{log: log, coll: coll}
}

func NewWithOptions(ctx context.Context, log *slog.Logger, opt ConnectOptions) (*Mongo, error) {
	cs, err := connstring.ParseAndValidate(opt.URI)
	if err != nil {
		return nil, fmt.Errorf("can't parse Mongo URI: %w", storage.ErrNoConnection)
	}
	database := cs.Database
	if database == "" {
		database = defaultDatabase
	}
	collection := opt.Collection
	if collection == "" {
		collection = defaultCollection
	}

	clientOpts := options.Client().ApplyURI(opt.URI)
	if opt.Timeout > 0 {
		clientOpts.SetServerSelectionTimeout(opt.Timeout).SetConnectTimeout(opt.Timeout)
	}
	if opt.Monitor != nil {
		clientOpts.SetMonitor(opt.Monitor)
	}

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("can't connect to Mongo: %w", storage.ErrNoConnection)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("can't ping Mongo: %w", storage.ErrNoConnection)
	}

	m := &Mongo{log: log, client: client, coll: client.Database(database).Collection(collection)}

	if err := m.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return m, nil
}

func (m *Mongo) ensureIndexes(ctx context.Context) error {
	_, err := m.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}},
	})
	if err != nil {
		m.log.Error("can't create messages index", sl.Err(err))
		return fmt.Errorf("can't create Mongo index: %w", storage.ErrInternal)
	}
	return nil
}

func (m *Mongo) Close() error {
	if m.client == nil {
		return nil
	}
	return m.client.Disconnect(context.Background())
}

func (m *Mongo) InsertMessage(ctx context.Context, message domain.Message) (*domain.Message, error) {
	const op = "mongo.InsertMessage"
	log := m.log.With(slog.String("op", op))

	doc := Message{
		ID:      primitive.NewObjectID(),
		Message: message.Message,
		Name:    message.Name,
		// BSON dates carry milliseconds only.
		CreatedAt: message.CreatedAt.UTC().Truncate(time.Millisecond),
	}

	if _, err := m.coll.InsertOne(ctx, doc); err != nil {
		log.Error("can't insert message", sl.Err(err))
		return nil, storage.ErrInternal
	}

	res := toDomain(doc)
	return &res, nil
}

func (m *Mongo) ListMessages(ctx context.Context) ([]domain.Message, error) {
	const op = "mongo.ListMessages"
	log := m.log.With(slog.String("op", op))

	findOpts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})

	cursor, err := m.coll.Find(ctx, bson.D{}, findOpts)
	if err != nil {
		log.Error("can't find messages", sl.Err(err))
		return nil, storage.ErrInternal
	}
	defer cursor.Close(ctx)

	var docs []Message
	if err := cursor.All(ctx, &docs); err != nil {
		log.Error("can't decode messages", sl.Err(err))
		return nil, storage.ErrInternal
	}

	res := make([]domain.Message, 0, len(docs))
	for _, doc := range docs {
		res = append(res, toDomain(doc))
	}
	return res, nil
}

func toDomain(doc Message) domain.Message {
	return domain.Message{
		ID:        doc.ID.Hex(),
		Message:   doc.Message,
		Name:      doc.Name,
		CreatedAt: doc.CreatedAt.UTC(),
	}
}
