package adapter

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	user "github.com/apusetone/chat-service/internal/pkg/user/application/domain"
	repository "github.com/apusetone/chat-service/internal/repository/port"
)

// PgUserRepository implements repository.UserRepository on Postgres.
type PgUserRepository struct {
	pool *pgxpool.Pool
}

func NewPgUserRepository(pool *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{pool: pool}
}

var (
	_ repository.UserRepository   = (*PgUserRepository)(nil)
	_ repository.DeviceRepository = (*PgUserRepository)(nil)
)

func (r *PgUserRepository) FindByID(ctx context.Context, id int64) (*user.User, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgUserRepository: nil pool")
	}
	var u user.User
	err := r.pool.QueryRow(ctx, `
		SELECT id, username, email, notification_type
		FROM users
		WHERE id = $1 AND deleted_at IS NULL
	`, id).Scan(&u.ID, &u.Username, &u.Email, &u.NotificationType)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *PgUserRepository) ListMobileDevices(ctx context.Context, userID int64) ([]user.Device, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgUserRepository: nil pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT user_id, device_token, platform_type
		FROM sessions
		WHERE user_id = $1
		  AND device_token IS NOT NULL
		  AND platform_type IS NOT NULL
		  AND platform_type <> $2
		ORDER BY id
	`, userID, user.PlatformUnknown)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var devices []user.Device
	for rows.Next() {
		var d user.Device
		if err := rows.Scan(&d.UserID, &d.DeviceToken, &d.Platform); err != nil {
			return nil, err
		}
		devices = append(devices, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return devices, nil
}

func (r *PgUserRepository) UpdateDevice(ctx context.Context, userID int64, refreshToken string, device user.Device) error {
	if r == nil || r.pool == nil {
		return errors.New("PgUserRepository: nil pool")
	}
	ct, err := r.pool.Exec(ctx, `
		UPDATE sessions
		SET device_token = $3, platform_type = $4
		WHERE user_id = $1 AND refresh_token = $2
	`, userID, refreshToken, device.DeviceToken, device.Platform)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrSessionNotFound
	}
	return nil
}
