package messaging

import "time"

// Conversation is a donor/recipient thread about one listing. A pair of
// users has at most one conversation per listing.
type Conversation struct {
	ID          string    `json:"id"`
	ListingID   string    `json:"listing_id"`
	DonorID     string    `json:"donor_id"`
	RecipientID string    `json:"recipient_id"`
	Unread      int       `json:"unread"`
	CreatedAt   time.Time `json:"created_at"`
}

// Participant reports whether userID is part of the conversation.
func (c *Conversation) Participant(userID string) bool {
	return userID == c.DonorID || userID == c.RecipientID
}

type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	SenderID       string    `json:"sender_id"`
	Body           string    `json:"body"`
	Read           bool      `json:"read"`
	CreatedAt      time.Time `json:"created_at"`
}
