package users

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/paramita-auth/internal/common"
	"github.com/dmitrijs2005/paramita-auth/internal/filex"
	"github.com/dmitrijs2005/paramita-auth/internal/logging"
	"github.com/dmitrijs2005/paramita-auth/internal/server/models"
)

const recordExt = ".json"

// FileRepository keeps one pretty-printed JSON file per user under
// <dataDir>/users/<id>.json. GetByEmail reads every file, so lookups are
// O(number of users).
type FileRepository struct {
	dataDir  string
	usersDir string
	logger   logging.Logger
}

func NewFileRepository(dataDir string, l logging.Logger) (*FileRepository, error) {
	root, err := filex.EnsureDir(dataDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrStorageUnavailable, err)
	}
	usersDir, err := filex.EnsureDir(filepath.Join(root, "users"))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrStorageUnavailable, err)
	}
	return &FileRepository{
		dataDir:  root,
		usersDir: usersDir,
		logger:   l.With("module", "file_user_repository"),
	}, nil
}

func (r *FileRepository) Create(ctx context.Context, user *models.User) error {
	path, ok := r.recordPath(user.ID)
	if !ok {
		return fmt.Errorf("invalid user id %q", user.ID)
	}

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("user %s already stored", user.ID)
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %w", common.ErrStorageUnavailable, err)
	}

	return r.write(path, user)
}

func (r *FileRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	path, ok := r.recordPath(id)
	if !ok {
		return nil, common.ErrorNotFound
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("%w: %w", common.ErrStorageUnavailable, err)
	}

	user, err := decodeUser(data)
	if err != nil {
		r.logger.Warn(ctx, "skipping corrupt user record", "path", path, "error", err)
		return nil, common.ErrorNotFound
	}

	return user, nil
}

func (r *FileRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	entries, err := os.ReadDir(r.usersDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrStorageUnavailable, err)
	}

	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, recordExt) {
			continue
		}

		path := filepath.Join(r.usersDir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			r.logger.Warn(ctx, "skipping unreadable user record", "path", path, "error", err)
			continue
		}

		user, err := decodeUser(data)
		if err != nil {
			r.logger.Warn(ctx, "skipping corrupt user record", "path", path, "error", err)
			continue
		}

		if user.Email == email {
			return user, nil
		}
	}

	return nil, common.ErrorNotFound
}

func (r *FileRepository) Update(ctx context.Context, user *models.User) error {
	path, ok := r.recordPath(user.ID)
	if !ok {
		return common.ErrorNotFound
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("%w: %w", common.ErrStorageUnavailable, err)
	}

	return r.write(path, user)
}

// Ping writes, reads back and removes a probe file in the data directory.
func (r *FileRepository) Ping(ctx context.Context) error {
	suffix, err := common.MakeRandHexString(8)
	if err != nil {
		return err
	}
	probe := filepath.Join(r.dataDir, "health_"+suffix+recordExt)
	payload := []byte(`{"test":"health_check"}`)

	if err := os.WriteFile(probe, payload, 0o600); err != nil {
		return fmt.Errorf("%w: %w", common.ErrStorageUnavailable, err)
	}
	defer os.Remove(probe)

	got, err := os.ReadFile(probe)
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrStorageUnavailable, err)
	}
	if !json.Valid(got) {
		return fmt.Errorf("%w: probe file read back corrupted", common.ErrStorageUnavailable)
	}

	return nil
}

func (r *FileRepository) write(path string, user *models.User) error {
	data, err := json.MarshalIndent(user, "", "  ")
	if err != nil {
		return fmt.Errorf("encode user %s: %w", user.ID, err)
	}
	if err := filex.WriteFileAtomic(path, data, 0o600); err != nil {
		return fmt.Errorf("%w: %w", common.ErrStorageUnavailable, err)
	}
	return nil
}

// recordPath maps an id to its file, refusing anything that could escape
// the users directory.
func (r *FileRepository) recordPath(id string) (string, bool) {
	if id == "" || strings.HasPrefix(id, ".") || strings.ContainsAny(id, `/\`) || filepath.Base(id) != id {
		return "", false
	}
	return filepath.Join(r.usersDir, id+recordExt), true
}

func decodeUser(data []byte) (*models.User, error) {
	user := &models.User{}
	if err := json.Unmarshal(data, user); err != nil {
		return nil, err
	}
	if user.ID == "" {
		return nil, errors.New("record has no id")
	}
	return user, nil
}
