// Package s3 provides the object store backing uploaded file content.
// File descriptors live in Postgres; the bytes live here.
package s3

import (
	"io"
	"time"

	"forms-service/internal/config"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// ObjectStore wraps the S3 client for file content operations.
type ObjectStore struct {
	bucketName    string
	presignExpiry time.Duration
	svc           *s3.S3
}

func NewObjectStore(cfg *config.AWSConfig, presignExpiry time.Duration) (*ObjectStore, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(cfg.Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		),
	})
	if err != nil {
		return nil, err
	}

	return &ObjectStore{
		bucketName:    cfg.Bucket,
		presignExpiry: presignExpiry,
		svc:           s3.New(sess),
	}, nil
}

// Upload stores file content under the given storage key.
func (s *ObjectStore) Upload(src io.Reader, storageKey string) error {
	_, err := s.svc.PutObject(&s3.PutObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(storageKey),
		Body:   aws.ReadSeekCloser(src),
	})
	return err
}

// PresignDownload returns a time-limited download URL for the stored object.
func (s *ObjectStore) PresignDownload(storageKey string) (string, error) {
	req, _ := s.svc.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(storageKey),
	})

	return req.Presign(s.presignExpiry)
}

// Delete removes the stored object.
func (s *ObjectStore) Delete(storageKey string) error {
	_, err := s.svc.DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(storageKey),
	})
	return err
}
