package port

import "context"

// Notifier delivers a rendered chat preview to one user through whatever
// channel that user configured. Delivery is best-effort.
type Notifier interface {
	Notify(ctx context.Context, userID int64, rendered string) error
}

// EmailSender sends a plain-text email.
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// PushMessage is one push delivery to a registered device.
type PushMessage struct {
	DeviceToken string
	// Body is the provider-specific JSON document, already platform-shaped.
	Body string
	// Text is the plain rendered preview.
	Text string
}

// PushSender delivers a push notification to a device.
type PushSender interface {
	Push(ctx context.Context, msg PushMessage) error
}
