package domain

import "time"

const MessageTopic = "messages"

// Message is a board post as stored and served. ID is assigned by the store.
type Message struct {
	ID        string    `json:"_id"`
	Message   string    `json:"message"`
	Name      *string   `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// NewMessage is the accepted shape of a create request.
type NewMessage struct {
	Message string  `json:"message" validate:"required"`
	Name    *string `json:"name"`
}
