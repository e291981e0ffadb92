package notification

import (
	"context"
	"errors"
	"fmt"

	identityRepo "adwuma/database/repository/identity"
	"adwuma/models"
	"adwuma/utils"

	"firebase.google.com/go/v4/messaging"
)

// FCMSender is the production Sender: it resolves the recipient's push token
// through the identity store and delivers over Firebase Cloud Messaging.
type FCMSender struct {
	Identity identityRepo.IdentityRepository
}

func NewFCMSender(identity identityRepo.IdentityRepository) (*FCMSender, error) {
	if identity == nil {
		return nil, fmt.Errorf("notification sender initialization error: identity repository is nil")
	}
	return &FCMSender{Identity: identity}, nil
}

func (s *FCMSender) Send(ctx context.Context, n models.Notification) error {
	token, err := s.Identity.PushToken(ctx, n.Recipient)
	if err != nil {
		if errors.Is(err, identityRepo.ErrRecipientNotFound) {
			return fmt.Errorf("notification %s: unknown recipient %s/%s", n.ID, n.Recipient.Kind, n.Recipient.ID)
		}
		return fmt.Errorf("notification %s: token lookup failed: %w", n.ID, err)
	}
	if token == "" {
		// No registered device; nothing to deliver.
		return nil
	}

	data := map[string]string{"type": n.Type, "role": string(n.Recipient.Kind)}
	for k, v := range n.Data {
		data[k] = v
	}

	msg := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: n.Title,
			Body:  n.Body,
		},
		Data: data,
	}
	if n.Recipient.Kind == models.RecipientProvider {
		msg.Android = &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: "high_priority",
				Sound:     "default",
			},
		}
	}

	if _, err := utils.FCMClient.Send(ctx, msg); err != nil {
		return fmt.Errorf("notification %s: FCM send failed: %w", n.ID, err)
	}
	return nil
}
