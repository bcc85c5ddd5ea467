package repomanager

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/dmitrijs2005/paramita-auth/internal/logging"
	"github.com/dmitrijs2005/paramita-auth/internal/server/config"
	"github.com/dmitrijs2005/paramita-auth/internal/server/repositories/users"
)

// BucketAPI is the part of the S3 client the manager needs on top of
// what the repository uses.
type BucketAPI interface {
	users.S3API
	CreateBucket(ctx context.Context, params *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
}

var (
	loadDefaultAWSConfig  = awsconfig.LoadDefaultConfig
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) BucketAPI {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

type S3RepositoryManager struct {
	client BucketAPI
	bucket string
	logger logging.Logger
}

func (m *S3RepositoryManager) Users() users.Repository {
	return users.NewS3Repository(m.client, m.bucket, m.logger)
}

// RunMigrations creates the bucket when it does not exist yet.
func (m *S3RepositoryManager) RunMigrations(ctx context.Context) error {
	_, err := m.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(m.bucket)})
	if err == nil {
		return nil
	}

	var nf *types.NotFound
	if !errors.As(err, &nf) {
		return err
	}

	m.logger.Info(ctx, "creating bucket", "bucket", m.bucket)
	_, err = m.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(m.bucket)})
	var owned *types.BucketAlreadyOwnedByYou
	if errors.As(err, &owned) {
		return nil
	}
	return err
}

func (m *S3RepositoryManager) Close() error {
	return nil
}

func NewS3RepositoryManager(ctx context.Context, cfg *config.Config, l logging.Logger) (RepositoryManager, error) {
	awsCfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3RootUser,
			cfg.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return &S3RepositoryManager{client: client, bucket: cfg.S3Bucket, logger: l}, nil
}
