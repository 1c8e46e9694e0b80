package cli

import (
	"context"
	"fmt"
	"os"
)

// Inbox lists the user's conversations with unread counts.
func (a *App) Inbox(ctx context.Context) error {
	convs, err := a.api.Conversations(ctx)
	if err != nil {
		a.log.Error(ctx, "conversation fetch failed", "error", err)
		return err
	}
	if len(convs) == 0 {
		printlnFn("No conversations yet.")
		return nil
	}
	for _, c := range convs {
		line := fmt.Sprintf("%s  listing %s", c.ID, c.ListingID)
		if c.Unread > 0 {
			line += fmt.Sprintf("  (%d unread)", c.Unread)
		}
		printlnFn(line)
	}
	return nil
}

// Read prints a conversation's messages; the server marks them read.
func (a *App) Read(ctx context.Context, conversationID string) error {
	msgs, err := a.api.Messages(ctx, conversationID)
	if err != nil {
		a.log.Error(ctx, "message fetch failed", "error", err)
		return err
	}
	for _, m := range msgs {
		printlnFn(fmt.Sprintf("[%s] %s: %s",
			m.CreatedAt.Format("2006-01-02 15:04"), m.SenderID, m.Body))
	}
	return nil
}

// Send prompts for a message body and sends it about the given listing,
// starting the conversation if it does not exist yet.
func (a *App) Send(ctx context.Context, listingID string) error {
	body, err := GetMultiline(a.reader, "Message:", os.Stdout)
	if err != nil {
		return err
	}
	if body == "" {
		printlnFn("Nothing to send.")
		return nil
	}
	msg, err := a.api.SendMessage(ctx, listingID, body)
	if err != nil {
		a.log.Error(ctx, "message send failed", "error", err)
		return err
	}
	printlnFn(fmt.Sprintf("Sent (conversation %s)", msg.ConversationID))
	return nil
}
