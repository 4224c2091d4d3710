package entity

import "errors"

var (
	// Message errors
	ErrInvalidConversationID = errors.New("invalid conversation id")
	ErrInvalidSenderID       = errors.New("invalid sender id")
	ErrEmptyContent          = errors.New("empty message content")
)
