package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"poolroom/internal/models"
	"poolroom/internal/store"
)

// Post appends a chat message from a room member. The log is pruned to the
// retention cap on every append, so reads never see more than the cap.
func (c *Chat) Post(ctx context.Context, room, senderID, displayName, text string) (models.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Message{}, fmt.Errorf("%w: message text required", ErrValidation)
	}

	snap, err := c.store.GetRoom(ctx, room)
	if err != nil {
		return models.Message{}, err
	}
	if senderID != models.SystemSender {
		m, ok := snap.Members[senderID]
		if !ok {
			return models.Message{}, ErrNotMember
		}
		if displayName == "" {
			displayName = m.DisplayName
		}
	}

	msg := models.Message{
		SenderID:    senderID,
		DisplayName: displayName,
		Text:        text,
		SentAt:      time.Now(),
	}
	if err := c.store.AppendMessage(ctx, room, msg, store.MessageRetention); err != nil {
		return models.Message{}, err
	}

	c.log.WithFields(logrus.Fields{"room": room, "sender": senderID}).Debug("message posted")
	return msg, nil
}

// Recent returns up to limit of the newest messages, oldest first. A limit
// outside (0, retention] is clamped to the retention cap.
func (c *Chat) Recent(ctx context.Context, room string, limit int) ([]models.Message, error) {
	if limit <= 0 || limit > store.MessageRetention {
		limit = store.MessageRetention
	}
	if _, err := c.store.GetRoom(ctx, room); err != nil {
		return nil, err
	}
	return c.store.Messages(ctx, room, limit)
}
