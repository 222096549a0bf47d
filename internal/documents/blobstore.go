package documents

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/psipro/platform/pkg/logging"
)

// S3API is the subset of the S3 client used by BlobStore.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// PresignAPI is the subset of the S3 presign client used by BlobStore.
type PresignAPI interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// BlobStore keeps the rendered document HTML in S3. Keys are scoped
// ownerID/patientID/documentID.html so a practitioner's objects can be listed
// and removed together.
type BlobStore struct {
	bucket   string
	s3Client S3API
	presign  PresignAPI
	urlTTL   time.Duration
	logger   *logging.Logger
}

// NewBlobStore creates a BlobStore over the given bucket.
func NewBlobStore(s3Client S3API, presign PresignAPI, bucket string, urlTTL time.Duration, logger *logging.Logger) *BlobStore {
	if logger == nil {
		logger = logging.Default()
	}
	return &BlobStore{
		bucket:   bucket,
		s3Client: s3Client,
		presign:  presign,
		urlTTL:   urlTTL,
		logger:   logger,
	}
}

// Key builds the object key for one document.
func Key(ownerID, patientID, documentID string) string {
	return fmt.Sprintf("%s/%s/%s.html", ownerID, patientID, documentID)
}

// Upload writes the rendered HTML, replacing any previous object at the key.
func (b *BlobStore) Upload(ctx context.Context, key, html string) error {
	_, err := b.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(b.bucket),
		Key:         aws.String(key),
		Body:        strings.NewReader(html),
		ContentType: aws.String("text/html; charset=utf-8"),
	})
	if err != nil {
		return fmt.Errorf("documents: s3 put %s: %w", key, err)
	}
	b.logger.Info("uploaded document blob", "s3_key", key, "bytes", len(html))
	return nil
}

// Delete removes the object. Deleting an absent key is not an error in S3.
func (b *BlobStore) Delete(ctx context.Context, key string) error {
	_, err := b.s3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("documents: s3 delete %s: %w", key, err)
	}
	return nil
}

// SignedURL returns a presigned GET URL for the document blob.
func (b *BlobStore) SignedURL(ctx context.Context, key string) (string, error) {
	req, err := b.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	}, func(o *s3.PresignOptions) {
		o.Expires = b.urlTTL
	})
	if err != nil {
		return "", fmt.Errorf("documents: presign %s: %w", key, err)
	}
	return req.URL, nil
}
