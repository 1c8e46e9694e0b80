package messaging

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/foodshare/foodshare/internal/common"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) (*PostgresRepository, error) {
	return &PostgresRepository{db: db}, nil
}

func (r *PostgresRepository) GetConversation(ctx context.Context, id string) (*Conversation, error) {
	query :=
		`SELECT id, listing_id, donor_id, recipient_id, created_at
		 FROM conversations WHERE id = $1
		 `

	c := &Conversation{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.ListingID, &c.DonorID, &c.RecipientID, &c.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}

	return c, nil
}

func (r *PostgresRepository) FindConversation(ctx context.Context, listingID, recipientID string) (*Conversation, error) {
	query :=
		`SELECT id, listing_id, donor_id, recipient_id, created_at
		 FROM conversations WHERE listing_id = $1 AND recipient_id = $2
		 `

	c := &Conversation{}
	err := r.db.QueryRowContext(ctx, query, listingID, recipientID).Scan(
		&c.ID, &c.ListingID, &c.DonorID, &c.RecipientID, &c.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}

	return c, nil
}

func (r *PostgresRepository) CreateConversation(ctx context.Context, c *Conversation) (*Conversation, error) {
	query :=
		`INSERT INTO conversations (listing_id, donor_id, recipient_id)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query, c.ListingID, c.DonorID, c.RecipientID).
		Scan(&c.ID, &c.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}

	return c, nil
}

func (r *PostgresRepository) SelectConversationsForUser(ctx context.Context, userID string) ([]*Conversation, error) {
	query :=
		`SELECT id, listing_id, donor_id, recipient_id, created_at
		 FROM conversations
		 WHERE donor_id = $1 OR recipient_id = $1
		 ORDER BY created_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}
	defer rows.Close()

	var result []*Conversation
	for rows.Next() {
		var c Conversation
		if err := rows.Scan(&c.ID, &c.ListingID, &c.DonorID, &c.RecipientID, &c.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) CreateMessage(ctx context.Context, m *Message) (*Message, error) {
	query :=
		`INSERT INTO messages (conversation_id, sender_id, body, read)
		 VALUES ($1, $2, $3, false)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query, m.ConversationID, m.SenderID, m.Body).
		Scan(&m.ID, &m.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}

	return m, nil
}

func (r *PostgresRepository) SelectMessages(ctx context.Context, conversationID string) ([]*Message, error) {
	query :=
		`SELECT id, conversation_id, sender_id, body, read, created_at
		 FROM messages WHERE conversation_id = $1
		 ORDER BY created_at
		 `

	rows, err := r.db.QueryContext(ctx, query, conversationID)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}
	defer rows.Close()

	var result []*Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.Body, &m.Read, &m.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) MarkRead(ctx context.Context, conversationID, readerID string) error {
	query :=
		`UPDATE messages SET read = true
		 WHERE conversation_id = $1 AND sender_id <> $2 AND NOT read
		 `

	if _, err := r.db.ExecContext(ctx, query, conversationID, readerID); err != nil {
		return fmt.Errorf("error performing sql request: %v", err)
	}
	return nil
}

func (r *PostgresRepository) UnreadCount(ctx context.Context, conversationID, userID string) (int, error) {
	query :=
		`SELECT count(*) FROM messages
		 WHERE conversation_id = $1 AND sender_id <> $2 AND NOT read
		 `

	var n int
	if err := r.db.QueryRowContext(ctx, query, conversationID, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("error performing sql request: %v", err)
	}
	return n, nil
}
