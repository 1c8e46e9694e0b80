package messaging

import (
	"context"
	"errors"
	"strings"

	"github.com/foodshare/foodshare/internal/common"
	"github.com/foodshare/foodshare/internal/server/listings"
)

var (
	ErrEmptyBody      = errors.New("message body is empty")
	ErrNotParticipant = errors.New("not a participant of this conversation")
	ErrDonorInitiated = errors.New("donors reply in existing conversations")
)

type Service struct {
	repo     Repository
	listings *listings.Service
}

func NewService(repo Repository, listingService *listings.Service) *Service {
	return &Service{repo: repo, listings: listingService}
}

// Send delivers a message about a listing. Recipients may start a new
// conversation with the listing's donor; the donor replies within the
// conversation that already exists (use SendToConversation).
func (s *Service) Send(ctx context.Context, senderID, listingID, body string) (*Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, ErrEmptyBody
	}

	l, err := s.listings.Get(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if l.DonorID == senderID {
		return nil, ErrDonorInitiated
	}

	conv, err := s.repo.FindConversation(ctx, listingID, senderID)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		conv, err = s.repo.CreateConversation(ctx, &Conversation{
			ListingID:   listingID,
			DonorID:     l.DonorID,
			RecipientID: senderID,
		})
		if err != nil {
			return nil, err
		}
	}

	return s.repo.CreateMessage(ctx, &Message{
		ConversationID: conv.ID,
		SenderID:       senderID,
		Body:           body,
	})
}

// SendToConversation delivers a message into an existing conversation.
// The sender must be one of the two participants.
func (s *Service) SendToConversation(ctx context.Context, senderID, conversationID, body string) (*Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, ErrEmptyBody
	}

	conv, err := s.repo.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !conv.Participant(senderID) {
		return nil, ErrNotParticipant
	}

	return s.repo.CreateMessage(ctx, &Message{
		ConversationID: conv.ID,
		SenderID:       senderID,
		Body:           body,
	})
}

// ConversationsForUser lists the user's conversations with unread counts.
func (s *Service) ConversationsForUser(ctx context.Context, userID string) ([]*Conversation, error) {
	convs, err := s.repo.SelectConversationsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, c := range convs {
		n, err := s.repo.UnreadCount(ctx, c.ID, userID)
		if err != nil {
			return nil, err
		}
		c.Unread = n
	}
	return convs, nil
}

// Messages returns a conversation's messages for a participant and marks
// the other party's messages read.
func (s *Service) Messages(ctx context.Context, userID, conversationID string) ([]*Message, error) {
	conv, err := s.repo.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !conv.Participant(userID) {
		return nil, ErrNotParticipant
	}

	msgs, err := s.repo.SelectMessages(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.MarkRead(ctx, conversationID, userID); err != nil {
		return nil, err
	}
	return msgs, nil
}
