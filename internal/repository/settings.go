package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/phatnt99/shelfwise/internal/apperr"
	"github.com/phatnt99/shelfwise/internal/model"
	"github.com/phatnt99/shelfwise/internal/storage/db"
)

type SaveSettingsParams struct {
	UserKey  string
	Username string
	Theme    model.Theme
}

type SettingsRepository interface {
	WithDB(db db.DB) SettingsRepository
	GetSettings(ctx context.Context, userKey string) (model.Settings, error)
	SaveSettings(ctx context.Context, params SaveSettingsParams) (model.Settings, error)
}

type settingsRepository struct {
	db db.DB
}

func NewSettingsRepository(db db.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

func (r settingsRepository) WithDB(db db.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

func (r settingsRepository) GetSettings(ctx context.Context, userKey string) (model.Settings, error) {
	row := r.db.QueryRow(ctx, `
		SELECT user_key, username, theme, updated_at
		FROM user_settings
		WHERE user_key = $1`,
		userKey,
	)

	settings, err := scanSettings(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Settings{}, apperr.SettingsNotFoundErr.WrapParent(err)
		}
		return model.Settings{}, apperr.StorageUnavailableErr.WrapParent(fmt.Errorf("get settings: %w", err))
	}

	return settings, nil
}

// SaveSettings inserts or overwrites the single row for the user key. The
// upsert resolves concurrent saves on the unique constraint, so two racing
// callers can never leave two rows behind.
func (r settingsRepository) SaveSettings(ctx context.Context, params SaveSettingsParams) (model.Settings, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO user_settings (user_key, username, theme, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_key) DO UPDATE
		SET username = EXCLUDED.username,
		    theme = EXCLUDED.theme,
		    updated_at = EXCLUDED.updated_at
		RETURNING user_key, username, theme, updated_at`,
		params.UserKey, params.Username, string(params.Theme),
	)

	settings, err := scanSettings(row)
	if err != nil {
		return model.Settings{}, apperr.StorageUnavailableErr.WrapParent(fmt.Errorf("save settings: %w", err))
	}

	return settings, nil
}

func scanSettings(row pgx.Row) (model.Settings, error) {
	var (
		settings model.Settings
		theme    string
	)

	if err := row.Scan(
		&settings.UserKey,
		&settings.Username,
		&theme,
		&settings.UpdatedAt,
	); err != nil {
		return model.Settings{}, err
	}
	settings.Theme = model.Theme(theme)

	return settings, nil
}
