package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/apusetone/chat-service/internal/pkg/notification/port"
	user "github.com/apusetone/chat-service/internal/pkg/user/application/domain"
	repository "github.com/apusetone/chat-service/internal/repository/port"
)

// DefaultSubject is the email subject of chat notifications.
const DefaultSubject = "[chat-service] posted message"

// DispatchNotificationUseCase delivers a rendered chat preview through the
// channel the recipient configured. It implements port.Notifier directly; the
// queued notifier runs it from a background worker.
type DispatchNotificationUseCase struct {
	Users   repository.UserRepository
	Email   port.EmailSender
	Push    port.PushSender
	Subject string
}

func NewDispatchNotificationUseCase(users repository.UserRepository, email port.EmailSender, push port.PushSender) *DispatchNotificationUseCase {
	return &DispatchNotificationUseCase{Users: users, Email: email, Push: push, Subject: DefaultSubject}
}

var _ port.Notifier = (*DispatchNotificationUseCase)(nil)

func (uc *DispatchNotificationUseCase) Notify(ctx context.Context, userID int64, rendered string) error {
	u, err := uc.Users.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrUserNotFound) {
		// deleted accounts keep their participant rows
		return nil
	}
	if err != nil {
		return fmt.Errorf("notification: load user %d: %w", userID, err)
	}

	switch u.NotificationType {
	case user.NotificationDisabled:
		return nil
	case user.NotificationEmail:
		if err := uc.Email.SendEmail(ctx, u.Email, uc.Subject, rendered); err != nil {
			return fmt.Errorf("notification: email user %d: %w", userID, err)
		}
		return nil
	case user.NotificationMobilePush:
		return uc.pushAll(ctx, u, rendered)
	default:
		log.Printf("notification: user %d has unsupported %s", userID, u.NotificationType)
		return nil
	}
}

// pushAll fails only when no device accepted the push. Once one delivery
// succeeded a retry would repeat it, so the remaining failures are logged.
func (uc *DispatchNotificationUseCase) pushAll(ctx context.Context, u *user.User, rendered string) error {
	devices, err := uc.Users.ListMobileDevices(ctx, u.ID)
	if err != nil {
		return fmt.Errorf("notification: load devices of user %d: %w", u.ID, err)
	}
	var (
		errs      []error
		delivered int
	)
	for _, d := range devices {
		body, ok, err := PushBody(d.Platform, rendered)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if !ok {
			continue
		}
		msg := port.PushMessage{DeviceToken: d.DeviceToken, Body: body, Text: rendered}
		if err := uc.Push.Push(ctx, msg); err != nil {
			errs = append(errs, fmt.Errorf("notification: push %s device of user %d: %w", d.Platform, u.ID, err))
			continue
		}
		delivered++
	}
	if delivered > 0 {
		for _, err := range errs {
			log.Printf("%v", err)
		}
		return nil
	}
	return errors.Join(errs...)
}

// PushBody builds the platform-shaped JSON message document. ok is false for
// platforms that cannot receive pushes.
func PushBody(platform user.PlatformType, rendered string) (body string, ok bool, err error) {
	var doc map[string]string
	switch platform {
	case user.PlatformAndroid:
		inner, err := json.Marshal(rendered)
		if err != nil {
			return "", false, err
		}
		doc = map[string]string{"GCM": string(inner)}
	case user.PlatformIOS:
		inner, err := json.Marshal(map[string]map[string]string{"aps": {"alert": rendered}})
		if err != nil {
			return "", false, err
		}
		doc = map[string]string{"APNS": string(inner)}
	case user.PlatformUnknown:
		return "", false, nil
	default:
		return "", false, nil
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return "", false, err
	}
	return string(out), true, nil
}
