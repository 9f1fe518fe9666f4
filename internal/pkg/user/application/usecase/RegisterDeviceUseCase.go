package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	user "github.com/apusetone/chat-service/internal/pkg/user/application/domain"
	repository "github.com/apusetone/chat-service/internal/repository/port"
)

var (
	// ErrPersistence indicates a repository failure.
	ErrPersistence = errors.New("user use case persistence error")
	// ErrInvalidInput marks requests rejected before touching storage.
	ErrInvalidInput = errors.New("user use case invalid input")
)

var validate = validator.New()

// RegisterDeviceInput names the session by its refresh token and the push
// target to attach to it.
type RegisterDeviceInput struct {
	UserID       int64  `validate:"gt=0"`
	RefreshToken string `validate:"required,max=32"`
	DeviceToken  string `validate:"required,max=255"`
	Platform     string `validate:"oneof=unknown ios android"`
}

// RegisterDeviceUseCase stores the push token of a signed-in device so chat
// notifications can reach it.
type RegisterDeviceUseCase struct {
	Repo repository.DeviceRepository
}

func NewRegisterDeviceUseCase(repo repository.DeviceRepository) *RegisterDeviceUseCase {
	return &RegisterDeviceUseCase{Repo: repo}
}

func (uc *RegisterDeviceUseCase) Execute(ctx context.Context, in RegisterDeviceInput) error {
	if err := validate.Struct(in); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	platform, _ := user.ParsePlatform(in.Platform)
	err := uc.Repo.UpdateDevice(ctx, in.UserID, in.RefreshToken, user.Device{
		UserID:      in.UserID,
		DeviceToken: in.DeviceToken,
		Platform:    platform,
	})
	if errors.Is(err, repository.ErrSessionNotFound) {
		return err
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}
