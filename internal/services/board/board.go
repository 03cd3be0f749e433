package board

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/alexandernizov/messageboard/internal/domain"
	"github.com/alexandernizov/messageboard/internal/domain/errs"
	"github.com/alexandernizov/messageboard/internal/pkg/logger/sl"
	"github.com/go-playground/validator/v10"
)

//go:generate mockery --name=MessageStorage --output=mocks --outpkg=mocks
//go:generate mockery --name=MessageNotifier --output=mocks --outpkg=mocks

type MessageStorage interface {
	InsertMessage(ctx context.Context, message domain.Message) (*domain.Message, error)
	ListMessages(ctx context.Context) ([]domain.Message, error)
}

type MessageNotifier interface {
	MessageCreated(ctx context.Context, message domain.Message) error
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type BoardService struct {
	log      *slog.Logger
	storage  MessageStorage
	notifier MessageNotifier
	now      func() time.Time
}

// New wires the service. notifier may be nil when events are disabled.
func New(log *slog.Logger, storage MessageStorage, notifier MessageNotifier) *BoardService {
	return &BoardService{
		log:      log,
		storage:  storage,
		notifier: notifier,
		now:      time.Now,
	}
}

func (b *BoardService) Messages(ctx context.Context) ([]domain.Message, error) {
	const op = "board.Messages"
	log := b.log.With(slog.String("op", op))

	messages, err := b.storage.ListMessages(ctx)
	if err != nil {
		log.Error("can't list messages", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, errs.ErrInternal)
	}
	if messages == nil {
		messages = []domain.Message{}
	}
	return messages, nil
}

func (b *BoardService) PostMessage(ctx context.Context, input domain.NewMessage) (*domain.Message, error) {
	const op = "board.PostMessage"
	log := b.log.With(slog.String("op", op))

	if err := ValidateNewMessage(input); err != nil {
		return nil, err
	}

	message := domain.Message{
		Message:   input.Message,
		Name:      input.Name,
		CreatedAt: b.now().UTC(),
	}

	created, err := b.storage.InsertMessage(ctx, message)
	if err != nil {
		log.Error("can't insert message", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, errs.ErrInternal)
	}

	if b.notifier != nil {
		if err := b.notifier.MessageCreated(ctx, *created); err != nil {
			log.Warn("message stored but not published", slog.String("id", created.ID), sl.Err(err))
		}
	}

	return created, nil
}

// ValidateNewMessage reports schema violations as errs.ErrInvalidMessage.
func ValidateNewMessage(input domain.NewMessage) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		fe := validationErrs[0]
		return fmt.Errorf("%w: field %s failed on %s", errs.ErrInvalidMessage, fe.Field(), fe.Tag())
	}
	return fmt.Errorf("%w: %s", errs.ErrInvalidMessage, err.Error())
}
