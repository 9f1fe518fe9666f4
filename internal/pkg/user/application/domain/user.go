package user

import "fmt"

// NotificationType is the channel a user wants to be notified on.
type NotificationType int16

const (
	NotificationDisabled   NotificationType = 0
	NotificationMobilePush NotificationType = 1
	NotificationEmail      NotificationType = 2
)

func (t NotificationType) String() string {
	switch t {
	case NotificationDisabled:
		return "disabled"
	case NotificationMobilePush:
		return "mobile_push"
	case NotificationEmail:
		return "email"
	default:
		return fmt.Sprintf("notification_type(%d)", int16(t))
	}
}

// PlatformType is the operating system a device session was registered from.
type PlatformType int16

const (
	PlatformUnknown PlatformType = 0
	PlatformIOS     PlatformType = 1
	PlatformAndroid PlatformType = 2
)

func (p PlatformType) String() string {
	switch p {
	case PlatformUnknown:
		return "unknown"
	case PlatformIOS:
		return "ios"
	case PlatformAndroid:
		return "android"
	default:
		return fmt.Sprintf("platform_type(%d)", int16(p))
	}
}

// ParsePlatform maps the wire name of a platform to its PlatformType.
func ParsePlatform(name string) (PlatformType, bool) {
	switch name {
	case "unknown":
		return PlatformUnknown, true
	case "ios":
		return PlatformIOS, true
	case "android":
		return PlatformAndroid, true
	default:
		return PlatformUnknown, false
	}
}

// User is the subset of an account the chat service reads.
type User struct {
	ID               int64            `db:"id"`
	Username         string           `db:"username"`
	Email            string           `db:"email"`
	NotificationType NotificationType `db:"notification_type"`
}

// Device is a signed-in session that registered a push token.
type Device struct {
	UserID      int64        `db:"user_id"`
	DeviceToken string       `db:"device_token"`
	Platform    PlatformType `db:"platform_type"`
}
