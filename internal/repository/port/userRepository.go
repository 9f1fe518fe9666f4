package repository

import (
	"context"
	"errors"

	user "github.com/apusetone/chat-service/internal/pkg/user/application/domain"
)

// ErrUserNotFound is returned when no live user has the requested id.
var ErrUserNotFound = errors.New("user: not found")

// ErrSessionNotFound is returned when a user has no session for a refresh token.
var ErrSessionNotFound = errors.New("user: session not found")

// UserRepository reads accounts and their registered devices.
type UserRepository interface {
	FindByID(ctx context.Context, id int64) (*user.User, error)
	// ListMobileDevices returns devices with a push token and a known platform.
	ListMobileDevices(ctx context.Context, userID int64) ([]user.Device, error)
}

// DeviceRepository attaches push targets to signed-in sessions.
type DeviceRepository interface {
	// UpdateDevice sets the device token and platform of the session userID
	// opened with refreshToken. It returns ErrSessionNotFound when there is none.
	UpdateDevice(ctx context.Context, userID int64, refreshToken string, device user.Device) error
}
