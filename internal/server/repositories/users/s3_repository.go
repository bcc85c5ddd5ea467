package users

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/dmitrijs2005/paramita-auth/internal/common"
	"github.com/dmitrijs2005/paramita-auth/internal/logging"
	"github.com/dmitrijs2005/paramita-auth/internal/server/models"
)

const s3Prefix = "users/"

// S3API is the part of *s3.Client used by S3Repository.
type S3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	HeadBucket(ctx context.Context, in *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// S3Repository keeps each user as the object users/<id>.json, using the
// same JSON layout as FileRepository. GetByEmail lists and reads every
// object under the prefix.
type S3Repository struct {
	client S3API
	bucket string
	logger logging.Logger
}

func NewS3Repository(client S3API, bucket string, l logging.Logger) *S3Repository {
	return &S3Repository{client: client, bucket: bucket, logger: l.With("module", "s3_user_repository")}
}

func (r *S3Repository) Create(ctx context.Context, user *models.User) error {
	key, ok := objectKey(user.ID)
	if !ok {
		return fmt.Errorf("invalid user id %q", user.ID)
	}

	exists, err := r.exists(ctx, key)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("user %s already stored", user.ID)
	}

	return r.put(ctx, key, user)
}

func (r *S3Repository) GetByID(ctx context.Context, id string) (*models.User, error) {
	key, ok := objectKey(id)
	if !ok {
		return nil, common.ErrorNotFound
	}

	data, err := r.get(ctx, key)
	if err != nil {
		return nil, err
	}

	user, err := decodeUser(data)
	if err != nil {
		r.logger.Warn(ctx, "skipping corrupt user object", "key", key, "error", err)
		return nil, common.ErrorNotFound
	}

	return user, nil
}

func (r *S3Repository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	p := s3.NewListObjectsV2Paginator(r.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(r.bucket),
		Prefix: aws.String(s3Prefix),
	})

	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: list objects: %w", common.ErrStorageUnavailable, err)
		}

		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if !strings.HasSuffix(key, recordExt) {
				continue
			}

			data, err := r.get(ctx, key)
			if err != nil {
				r.logger.Warn(ctx, "skipping unreadable user object", "key", key, "error", err)
				continue
			}

			user, err := decodeUser(data)
			if err != nil {
				r.logger.Warn(ctx, "skipping corrupt user object", "key", key, "error", err)
				continue
			}

			if user.Email == email {
				return user, nil
			}
		}
	}

	return nil, common.ErrorNotFound
}

func (r *S3Repository) Update(ctx context.Context, user *models.User) error {
	key, ok := objectKey(user.ID)
	if !ok {
		return common.ErrorNotFound
	}

	exists, err := r.exists(ctx, key)
	if err != nil {
		return err
	}
	if !exists {
		return common.ErrorNotFound
	}

	return r.put(ctx, key, user)
}

func (r *S3Repository) Ping(ctx context.Context) error {
	if _, err := r.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(r.bucket)}); err != nil {
		return fmt.Errorf("%w: head bucket: %w", common.ErrStorageUnavailable, err)
	}
	return nil
}

func (r *S3Repository) put(ctx context.Context, key string, user *models.User) error {
	data, err := json.MarshalIndent(user, "", "  ")
	if err != nil {
		return fmt.Errorf("encode user %s: %w", user.ID, err)
	}

	_, err = r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("%w: put object: %w", common.ErrStorageUnavailable, err)
	}

	return nil
}

func (r *S3Repository) get(ctx context.Context, key string) ([]byte, error) {
	out, err := r.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("%w: get object: %w", common.ErrStorageUnavailable, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read object: %w", common.ErrStorageUnavailable, err)
	}

	return data, nil
}

func (r *S3Repository) exists(ctx context.Context, key string) (bool, error) {
	_, err := r.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	})
	if err == nil {
		return true, nil
	}

	var nf *types.NotFound
	if errors.As(err, &nf) {
		return false, nil
	}
	return false, fmt.Errorf("%w: head object: %w", common.ErrStorageUnavailable, err)
}

func objectKey(id string) (string, bool) {
	if id == "" || strings.ContainsAny(id, `/\`) || strings.HasPrefix(id, ".") {
		return "", false
	}
	return s3Prefix + id + recordExt, true
}
