package users

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/paramita-auth/internal/common"
	"github.com/dmitrijs2005/paramita-auth/internal/dbx"
	"github.com/dmitrijs2005/paramita-auth/internal/logging"
	"github.com/dmitrijs2005/paramita-auth/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	// pgUniqueViolation is the SQLSTATE for a unique constraint violation.
	pgUniqueViolation = "23505"
	// pgInvalidText is raised when an id that is not a UUID is compared
	// with the uuid column.
	pgInvalidText = "22P02"
)

const selectUser = `SELECT id, email, password_hash, first_name, last_name, spiritual_level,
		language_preference, status, created_at, last_login_at, progress, history
		FROM users`

// PostgresRepository stores users in the users table. Unlike the file and
// S3 backends, email uniqueness is enforced by the database.
type PostgresRepository struct {
	db     dbx.DBTX
	logger logging.Logger
}

func NewPostgresRepository(db dbx.DBTX, l logging.Logger) *PostgresRepository {
	return &PostgresRepository{db: db, logger: l.With("module", "postgres_user_repository")}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) error {
	progress, history, err := encodeOpaque(user)
	if err != nil {
		return err
	}

	query :=
		`INSERT INTO users (id, email, password_hash, first_name, last_name, spiritual_level,
		 language_preference, status, created_at, last_login_at, progress, history)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 `

	_, err = r.db.ExecContext(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.FirstName, user.LastName, user.SpiritualLevel,
		string(user.LanguagePreference), string(user.Status), user.CreatedAt, user.LastLoginAt,
		progress, history)

	if err != nil {
		if isPgCode(err, pgUniqueViolation) {
			return common.ErrDuplicateAccount
		}
		return fmt.Errorf("%w: db error: %w", common.ErrStorageUnavailable, err)
	}

	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getOne(ctx, selectUser+` WHERE id = $1`, id)
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, selectUser+` WHERE email = $1`, email)
}

func (r *PostgresRepository) Update(ctx context.Context, user *models.User) error {
	progress, history, err := encodeOpaque(user)
	if err != nil {
		return err
	}

	query :=
		`UPDATE users SET email = $2, password_hash = $3, first_name = $4, last_name = $5,
		 spiritual_level = $6, language_preference = $7, status = $8, last_login_at = $9,
		 progress = $10, history = $11
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.FirstName, user.LastName, user.SpiritualLevel,
		string(user.LanguagePreference), string(user.Status), user.LastLoginAt, progress, history)
	if err != nil {
		if isPgCode(err, pgInvalidText) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("%w: db error: %w", common.ErrStorageUnavailable, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: db error: %w", common.ErrStorageUnavailable, err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *PostgresRepository) Ping(ctx context.Context) error {
	if err := dbx.Ping(ctx, r.db); err != nil {
		return fmt.Errorf("%w: db error: %w", common.ErrStorageUnavailable, err)
	}
	return nil
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg string) (*models.User, error) {
	user := &models.User{}
	var lang, status string
	var progress, history []byte

	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.FirstName, &user.LastName, &user.SpiritualLevel,
		&lang, &status, &user.CreatedAt, &user.LastLoginAt, &progress, &history)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || isPgCode(err, pgInvalidText) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("%w: db error: %w", common.ErrStorageUnavailable, err)
	}

	user.LanguagePreference = models.Language(lang)
	user.Status = models.Status(status)

	if err := json.Unmarshal(progress, &user.Progress); err != nil {
		r.logger.Warn(ctx, "skipping user row with corrupt progress", "user_id", user.ID, "error", err)
		return nil, common.ErrorNotFound
	}
	if err := json.Unmarshal(history, &user.History); err != nil {
		r.logger.Warn(ctx, "skipping user row with corrupt history", "user_id", user.ID, "error", err)
		return nil, common.ErrorNotFound
	}

	return user, nil
}

func isPgCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

func encodeOpaque(user *models.User) ([]byte, []byte, error) {
	progress, err := json.Marshal(user.Progress)
	if err != nil {
		return nil, nil, fmt.Errorf("encode progress: %w", err)
	}
	history, err := json.Marshal(user.History)
	if err != nil {
		return nil, nil, fmt.Errorf("encode history: %w", err)
	}
	return progress, history, nil
}
