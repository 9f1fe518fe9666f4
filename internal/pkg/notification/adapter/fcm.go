package adapter

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go"
	"firebase.google.com/go/messaging"
	"google.golang.org/api/option"

	"github.com/apusetone/chat-service/internal/pkg/notification/port"
)

const fcmTitle = "chat-service"

type fcmAPI interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// FCMSender delivers pushes through Firebase Cloud Messaging; device tokens
// are FCM registration tokens.
type FCMSender struct {
	client fcmAPI
}

// NewFCMSender builds a messaging client from a service account file.
func NewFCMSender(ctx context.Context, credentialsFile string) (*FCMSender, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	app, err := firebase.NewApp(ctx, nil, opts...)
	if err != nil {
		return nil, fmt.Errorf("fcm: new app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("fcm: messaging client: %w", err)
	}
	return &FCMSender{client: client}, nil
}

var _ port.PushSender = (*FCMSender)(nil)

func (s *FCMSender) Push(ctx context.Context, msg port.PushMessage) error {
	_, err := s.client.Send(ctx, &messaging.Message{
		Token: msg.DeviceToken,
		Notification: &messaging.Notification{
			Title: fcmTitle,
			Body:  msg.Text,
		},
	})
	return err
}
