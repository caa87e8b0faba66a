package services

import (
	"bytes"
	"context"
	"fmt"
	"net/url"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/xnftlabs/backend/internal/config"
)

// StorageService keeps review comment bodies in an S3-compatible bucket.
// Reviews on the ledger carry only the URI.
type StorageService struct {
	client *s3.Client
	cfg    *config.Config
}

// NewStorageService builds the comment bucket client. Returns nil without
// error when no credentials are configured; callers treat a nil service as
// "no off-chain storage".
func NewStorageService(cfg *config.Config) (*StorageService, error) {
	if cfg.CommentS3AccessKeyID == "" {
		return nil, nil
	}
	client, err := buildClient(cfg.CommentS3Endpoint, cfg.CommentS3Region, cfg.CommentS3AccessKeyID, cfg.CommentS3SecretAccessKey, cfg.CommentS3UsePathStyle)
	if err != nil {
		return nil, err
	}
	return &StorageService{client: client, cfg: cfg}, nil
}

func buildClient(endpoint, region, key, secret string, pathStyle bool) (*s3.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(key, secret, "")),
	)
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = pathStyle
		if endpoint != "" {
			o.BaseEndpoint = &endpoint
		}
	})
	return client, nil
}

// UploadComment stores a review comment body and returns its public URI.
func (s *StorageService) UploadComment(ctx context.Context, assetID, author string, body []byte) (string, error) {
	key := fmt.Sprintf("comments/%s/%s.json", assetID, author)
	ctype := "application/json"

	uploader := manager.NewUploader(s.client)
	_, err := uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      &s.cfg.CommentBucket,
		Key:         &key,
		Body:        bytes.NewReader(body),
		ContentType: &ctype,
		ACL:         s3types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload comment: %w", err)
	}
	return s.CommentURL(key), nil
}

// DeleteComment removes a stored comment body
func (s *StorageService) DeleteComment(ctx context.Context, assetID, author string) error {
	key := fmt.Sprintf("comments/%s/%s.json", assetID, author)
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: &s.cfg.CommentBucket,
		Key:    &key,
	})
	return err
}

// CommentURL builds the public URL for a stored comment key
func (s *StorageService) CommentURL(key string) string {
	if s.cfg.CommentPublicURL != "" {
		return fmt.Sprintf("%s/%s", s.cfg.CommentPublicURL, url.PathEscape(key))
	}
	base := aws.ToString(s.client.Options().BaseEndpoint)
	if base == "" {
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.CommentBucket, s.cfg.CommentS3Region, url.PathEscape(key))
	}
	return fmt.Sprintf("%s/%s/%s", base, s.cfg.CommentBucket, url.PathEscape(key))
}
