package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"

	"github.com/pageza/healthdiary/backend/internal/models"
)

// S3API is the subset of the S3 client the archive uses.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	DeleteObjects(ctx context.Context, params *s3.DeleteObjectsInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error)
}

// S3Archiver writes every stored recommendation to a bucket as plain text.
type S3Archiver struct {
	client S3API
	bucket string
	log    *zap.Logger
}

var _ Archiver = (*S3Archiver)(nil)

func NewS3Archiver(client S3API, bucket string, log *zap.Logger) *S3Archiver {
	return &S3Archiver{client: client, bucket: bucket, log: log.Named("archive")}
}

func archivePrefix(userID string) string {
	return fmt.Sprintf("recommendations/%s/", userID)
}

// ArchiveKey is the object key of a recommendation.
func ArchiveKey(rec *models.Recommendation) string {
	return archivePrefix(rec.UserID) + rec.ID.String() + ".txt"
}

func (a *S3Archiver) Archive(ctx context.Context, rec *models.Recommendation) error {
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(ArchiveKey(rec)),
		Body:        bytes.NewReader([]byte(rec.Text)),
		ContentType: aws.String("text/plain; charset=utf-8"),
		Metadata: map[string]string{
			"user-id":  rec.UserID,
			"format":   rec.Format,
			"provider": rec.Provider,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to upload report: %w", err)
	}
	return nil
}

// Purge deletes every archived report of the user, one listing page at a
// time.
func (a *S3Archiver) Purge(ctx context.Context, userID string) error {
	paginator := s3.NewListObjectsV2Paginator(a.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(a.bucket),
		Prefix: aws.String(archivePrefix(userID)),
	})

	deleted := 0
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("failed to list archived reports: %w", err)
		}
		if len(page.Contents) == 0 {
			continue
		}

		ids := make([]types.ObjectIdentifier, 0, len(page.Contents))
		for _, obj := range page.Contents {
			ids = append(ids, types.ObjectIdentifier{Key: obj.Key})
		}
		_, err = a.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(a.bucket),
			Delete: &types.Delete{Objects: ids, Quiet: aws.Bool(true)},
		})
		if err != nil {
			return fmt.Errorf("failed to delete archived reports: %w", err)
		}
		deleted += len(ids)
	}

	a.log.Debug("archived reports purged", zap.String("user_id", userID), zap.Int("count", deleted))
	return nil
}

// NoopArchiver is used when no bucket is configured.
type NoopArchiver struct{}

func (NoopArchiver) Archive(context.Context, *models.Recommendation) error { return nil }

func (NoopArchiver) Purge(context.Context, string) error { return nil }
