package messaging

import (
	"context"
)

type Repository interface {
	GetConversation(ctx context.Context, id string) (*Conversation, error)
	FindConversation(ctx context.Context, listingID, recipientID string) (*Conversation, error)
	CreateConversation(ctx context.Context, c *Conversation) (*Conversation, error)
	SelectConversationsForUser(ctx context.Context, userID string) ([]*Conversation, error)
	CreateMessage(ctx context.Context, m *Message) (*Message, error)
	SelectMessages(ctx context.Context, conversationID string) ([]*Message, error)
	// MarkRead marks every message in the conversation not sent by readerID
	// as read.
	MarkRead(ctx context.Context, conversationID, readerID string) error
	// UnreadCount counts unread messages in the conversation addressed to
	// userID.
	UnreadCount(ctx context.Context, conversationID, userID string) (int, error)
}
