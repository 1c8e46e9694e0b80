package messaging

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodshare/foodshare/internal/common"
	"github.com/foodshare/foodshare/internal/server/listings"
)

type fakeMsgRepo struct {
	convs    map[string]*Conversation
	messages map[string][]*Message
	nextID   int
}

func newFakeMsgRepo() *fakeMsgRepo {
	return &fakeMsgRepo{convs: map[string]*Conversation{}, messages: map[string][]*Message{}, nextID: 1}
}

func (f *fakeMsgRepo) id(prefix string) string {
	id := prefix + strconv.Itoa(f.nextID)
	f.nextID++
	return id
}

func (f *fakeMsgRepo) GetConversation(ctx context.Context, id string) (*Conversation, error) {
	if c, ok := f.convs[id]; ok {
		return c, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeMsgRepo) FindConversation(ctx context.Context, listingID, recipientID string) (*Conversation, error) {
	for _, c := range f.convs {
		if c.ListingID == listingID && c.RecipientID == recipientID {
			return c, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeMsgRepo) CreateConversation(ctx context.Context, c *Conversation) (*Conversation, error) {
	c.ID = f.id("C")
	c.CreatedAt = time.Now()
	f.convs[c.ID] = c
	return c, nil
}

func (f *fakeMsgRepo) SelectConversationsForUser(ctx context.Context, userID string) ([]*Conversation, error) {
	var out []*Conversation
	for _, c := range f.convs {
		if c.Participant(userID) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeMsgRepo) CreateMessage(ctx context.Context, m *Message) (*Message, error) {
	m.ID = f.id("M")
	m.CreatedAt = time.Now()
	f.messages[m.ConversationID] = append(f.messages[m.ConversationID], m)
	return m, nil
}

func (f *fakeMsgRepo) SelectMessages(ctx context.Context, conversationID string) ([]*Message, error) {
	return f.messages[conversationID], nil
}

func (f *fakeMsgRepo) MarkRead(ctx context.Context, conversationID, readerID string) error {
	for _, m := range f.messages[conversationID] {
		if m.SenderID != readerID {
			m.Read = true
		}
	}
	return nil
}

func (f *fakeMsgRepo) UnreadCount(ctx context.Context, conversationID, userID string) (int, error) {
	n := 0
	for _, m := range f.messages[conversationID] {
		if m.SenderID != userID && !m.Read {
			n++
		}
	}
	return n, nil
}

type stubListingRepo struct {
	l *listings.Listing
}

func (s *stubListingRepo) Create(ctx context.Context, l *listings.Listing) (*listings.Listing, error) {
	return l, nil
}

func (s *stubListingRepo) GetByID(ctx context.Context, id string) (*listings.Listing, error) {
	if s.l != nil && s.l.ID == id {
		return s.l, nil
	}
	return nil, common.ErrorNotFound
}

func (s *stubListingRepo) Select(ctx context.Context, category, status string) ([]*listings.Listing, error) {
	return nil, nil
}

func (s *stubListingRepo) SelectByDonor(ctx context.Context, donorID string) ([]*listings.Listing, error) {
	return nil, nil
}

func (s *stubListingRepo) UpdateStatus(ctx context.Context, id, status string) error { return nil }

func (s *stubListingRepo) CountByStatus(ctx context.Context) (map[string]int, error) {
	return map[string]int{}, nil
}

func msgFixture() (*Service, *fakeMsgRepo) {
	repo := newFakeMsgRepo()
	lrepo := &stubListingRepo{l: &listings.Listing{ID: "L1", DonorID: "donor-1"}}
	return NewService(repo, listings.NewService(lrepo)), repo
}

func TestSend_CreatesConversationOnce(t *testing.T) {
	svc, repo := msgFixture()
	ctx := context.Background()

	m1, err := svc.Send(ctx, "rec-1", "L1", "Is this still available?")
	require.NoError(t, err)

	m2, err := svc.Send(ctx, "rec-1", "L1", "I could come by tonight.")
	require.NoError(t, err)

	assert.Equal(t, m1.ConversationID, m2.ConversationID)
	assert.Len(t, repo.convs, 1)

	conv := repo.convs[m1.ConversationID]
	assert.Equal(t, "donor-1", conv.DonorID)
	assert.Equal(t, "rec-1", conv.RecipientID)
}

func TestSend_Rules(t *testing.T) {
	svc, _ := msgFixture()
	ctx := context.Background()

	_, err := svc.Send(ctx, "rec-1", "L1", "   ")
	assert.ErrorIs(t, err, ErrEmptyBody)

	_, err = svc.Send(ctx, "donor-1", "L1", "hello")
	assert.ErrorIs(t, err, ErrDonorInitiated)

	_, err = svc.Send(ctx, "rec-1", "missing", "hello")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestMessages_MarksReadAndGuardsAccess(t *testing.T) {
	svc, _ := msgFixture()
	ctx := context.Background()

	m, err := svc.Send(ctx, "rec-1", "L1", "Is this still available?")
	require.NoError(t, err)

	// unread for the donor until they open the thread
	convs, err := svc.ConversationsForUser(ctx, "donor-1")
	require.NoError(t, err)
	require.Len(t, convs, 1)
	assert.Equal(t, 1, convs[0].Unread)

	_, err = svc.Messages(ctx, "stranger", m.ConversationID)
	assert.ErrorIs(t, err, ErrNotParticipant)

	msgs, err := svc.Messages(ctx, "donor-1", m.ConversationID)
	require.NoError(t, err)
	require.Len(t, msgs, 1)

	convs, err = svc.ConversationsForUser(ctx, "donor-1")
	require.NoError(t, err)
	assert.Equal(t, 0, convs[0].Unread)
}

func TestSendToConversation_DonorReplies(t *testing.T) {
	svc, _ := msgFixture()
	ctx := context.Background()

	m, err := svc.Send(ctx, "rec-1", "L1", "Hello")
	require.NoError(t, err)

	_, err = svc.SendToConversation(ctx, "donor-1", m.ConversationID, "Yes, still here!")
	require.NoError(t, err)

	_, err = svc.SendToConversation(ctx, "stranger", m.ConversationID, "hi")
	assert.ErrorIs(t, err, ErrNotParticipant)

	// the reply shows as unread for the recipient
	convs, err := svc.ConversationsForUser(ctx, "rec-1")
	require.NoError(t, err)
	require.Len(t, convs, 1)
	assert.Equal(t, 1, convs[0].Unread)
}
