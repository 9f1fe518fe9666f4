package adapter

import (
	"context"
	"log"

	"github.com/apusetone/chat-service/internal/pkg/notification/port"
)

// LogSender writes notifications to the process log instead of delivering them.
// It stands in for every provider when running locally.
type LogSender struct {
	Logger *log.Logger
}

var (
	_ port.EmailSender = LogSender{}
	_ port.PushSender  = LogSender{}
)

func (s LogSender) SendEmail(_ context.Context, to, subject, body string) error {
	s.printf("notification: email to=%s subject=%q body=%q", to, subject, body)
	return nil
}

func (s LogSender) Push(_ context.Context, msg port.PushMessage) error {
	s.printf("notification: push token=%s body=%s", msg.DeviceToken, msg.Body)
	return nil
}

func (s LogSender) printf(format string, args ...any) {
	if s.Logger != nil {
		s.Logger.Printf(format, args...)
		return
	}
	log.Printf(format, args...)
}
