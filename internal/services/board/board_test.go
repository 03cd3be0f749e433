package board

import (
	"context"
	"errors"
	"log/slog"
	"reflect"
	"testing"
	"time"

	"github.com/alexandernizov/messageboard/internal/domain"
	"github.com/alexandernizov/messageboard/internal/domain/errs"
	"github.com/alexandernizov/messageboard/internal/services/board/mocks"
	"github.com/alexandernizov/messageboard/internal/storage"
	"github.com/stretchr/testify/mock"
)

var (
	nowTest       = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	nameTest      = "a"
	messageIdTest = "65e1c4a0f1d2c3b4a5968778"
	messageTest   = domain.Message{ID: messageIdTest, Message: "hi", Name: &nameTest, CreatedAt: nowTest}
)

type mockArgs struct {
	methodName string
	arguments  []any
	returning  []any
}

func NewMockService(t *testing.T, storageMocks []mockArgs, notifierMocks []mockArgs) *BoardService {
	messageStorage := mocks.NewMessageStorage(t)
	for _, m := range storageMocks {
		messageStorage.On(m.methodName, m.arguments...).Return(m.returning...).Once()
	}
	mockService := BoardService{
		log:     slog.Default(),
		storage: messageStorage,
		now:     func() time.Time { return nowTest },
	}
	if notifierMocks != nil {
		notifier := mocks.NewMessageNotifier(t)
		for _, m := range notifierMocks {
			notifier.On(m.methodName, m.arguments...).Return(m.returning...).Once()
		}
		mockService.notifier = notifier
	}
	return &mockService
}

func TestBoardService_Messages(t *testing.T) {
	tests := []struct {
		name     string
		mockArgs []mockArgs
		want     []domain.Message
		wantErr  error
	}{
		{
			name: "success",
			mockArgs: []mockArgs{
				{methodName: "ListMessages", arguments: []any{mock.Anything}, returning: []any{[]domain.Message{messageTest}, nil}},
			},
			want:    []domain.Message{messageTest},
			wantErr: nil,
		},
		{
			name: "nil_becomes_empty",
			mockArgs: []mockArgs{
				{methodName: "ListMessages", arguments: []any{mock.Anything}, returning: []any{nil, nil}},
			},
			want:    []domain.Message{},
			wantErr: nil,
		},
		{
			name: "storage_error",
			mockArgs: []mockArgs{
				{methodName: "ListMessages", arguments: []any{mock.Anything}, returning: []any{nil, storage.ErrInternal}},
			},
			want:    nil,
			wantErr: errs.ErrInternal,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewMockService(t, tt.mockArgs, nil)
			got, err := b.Messages(context.TODO())
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("BoardService.Messages() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("BoardService.Messages() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBoardService_PostMessage(t *testing.T) {
	toInsert := domain.Message{Message: "hi", Name: &nameTest, CreatedAt: nowTest}
	withoutName := domain.Message{ID: messageIdTest, Message: "hi", CreatedAt: nowTest}

	tests := []struct {
		name          string
		input         domain.NewMessage
		storageMocks  []mockArgs
		notifierMocks []mockArgs
		want          *domain.Message
		wantErr       error
	}{
		{
			name:  "success",
			input: domain.NewMessage{Message: "hi", Name: &nameTest},
			storageMocks: []mockArgs{
				{methodName: "InsertMessage", arguments: []any{mock.Anything, toInsert}, returning: []any{&messageTest, nil}},
			},
			want:    &messageTest,
			wantErr: nil,
		},
		{
			name:  "without_name",
			input: domain.NewMessage{Message: "hi"},
			storageMocks: []mockArgs{
				{methodName: "InsertMessage", arguments: []any{mock.Anything, domain.Message{Message: "hi", CreatedAt: nowTest}}, returning: []any{&withoutName, nil}},
			},
			want:    &withoutName,
			wantErr: nil,
		},
		{
			name:    "empty_message",
			input:   domain.NewMessage{Message: "", Name: &nameTest},
			want:    nil,
			wantErr: errs.ErrInvalidMessage,
		},
		{
			name:  "storage_error",
			input: domain.NewMessage{Message: "hi", Name: &nameTest},
			storageMocks: []mockArgs{
				{methodName: "InsertMessage", arguments: []any{mock.Anything, toInsert}, returning: []any{nil, storage.ErrInternal}},
			},
			want:    nil,
			wantErr: errs.ErrInternal,
		},
		{
			name:  "notified",
			input: domain.NewMessage{Message: "hi", Name: &nameTest},
			storageMocks: []mockArgs{
				{methodName: "InsertMessage", arguments: []any{mock.Anything, toInsert}, returning: []any{&messageTest, nil}},
			},
			notifierMocks: []mockArgs{
				{methodName: "MessageCreated", arguments: []any{mock.Anything, messageTest}, returning: []any{nil}},
			},
			want:    &messageTest,
			wantErr: nil,
		},
		{
			name:  "notify_error_is_not_fatal",
			input: domain.NewMessage{Message: "hi", Name: &nameTest},
			storageMocks: []mockArgs{
				{methodName: "InsertMessage", arguments: []any{mock.Anything, toInsert}, returning: []any{&messageTest, nil}},
			},
			notifierMocks: []mockArgs{
				{methodName: "MessageCreated", arguments: []any{mock.Anything, messageTest}, returning: []any{errors.New("broker is down")}},
			},
			want:    &messageTest,
			wantErr: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewMockService(t, tt.storageMocks, tt.notifierMocks)
			got, err := b.PostMessage(context.TODO(), tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("BoardService.PostMessage() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("BoardService.PostMessage() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidateNewMessage(t *testing.T) {
	tests := []struct {
		name    string
		input   domain.NewMessage
		wantErr bool
		errText string
	}{
		{name: "valid", input: domain.NewMessage{Message: "hi", Name: &nameTest}},
		{name: "valid_without_name", input: domain.NewMessage{Message: "hi"}},
		{name: "missing_message", input: domain.NewMessage{Name: &nameTest}, wantErr: true, errText: "invalid message: field message failed on required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNewMessage(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateNewMessage() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, errs.ErrInvalidMessage) {
					t.Errorf("ValidateNewMessage() error = %v, want ErrInvalidMessage", err)
				}
				if err.Error() != tt.errText {
					t.Errorf("ValidateNewMessage() error text = %q, want %q", err.Error(), tt.errText)
				}
			}
		})
	}
}
