package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/Law4Us/Law4Us-sub002/pkg/types"
)

// ObjectAPI is the part of the S3 client the storage layer uses.
type ObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Storage handles generated document uploads to an S3 bucket
type S3Storage struct {
	client     ObjectAPI
	bucketName string
}

// NewS3Storage creates a storage sink for bucketName. A blank bucket is a configuration error.
func NewS3Storage(client ObjectAPI, bucketName string) (*S3Storage, error) {
	if strings.TrimSpace(bucketName) == "" {
		return nil, &types.ConfigError{Resource: "bucket", Identifier: "DOCUMENTS_BUCKET", Err: types.ErrMissingCredential}
	}
	return &S3Storage{client: client, bucketName: bucketName}, nil
}

// DocumentKey is the object key of a generated document: one folder per submission,
// one sub-folder per claim label.
func DocumentKey(submissionID string, claim types.ClaimType, fileName string) string {
	return path.Join("submissions", submissionID, claim.Label(), fileName)
}

// Upload stores data under key and returns the key on success
func (s *S3Storage) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucketName),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}

	return key, nil
}

// Download reads the object at key
func (s *S3Storage) Download(ctx context.Context, key string) ([]byte, error) {
	return GetObject(ctx, s.client, s.bucketName, key)
}

// Delete removes the object at key
func (s *S3Storage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// GetObject reads a whole object. A missing key maps to types.ErrDocumentNotFound.
func GetObject(ctx context.Context, client ObjectAPI, bucket, key string) ([]byte, error) {
	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *s3types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, fmt.Errorf("%w: %s", types.ErrDocumentNotFound, key)
		}
		return nil, fmt.Errorf("failed to download %s: %w", key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, nil
}
