// Package media stores menu and profile images in S3.
package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

const DefaultMaxSize = 5 << 20

var (
	ErrNotImage = errors.New("file is not an image")
	ErrTooLarge = errors.New("file is too large")
)

type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type Config struct {
	Region        string
	Bucket        string
	PublicBaseURL string
	MaxSize       int64
}

type Uploader struct {
	client  objectPutter
	bucket  string
	baseURL string
	maxSize int64
}

func NewS3Uploader(ctx context.Context, cfg Config) (*Uploader, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}

	return newUploader(s3.NewFromConfig(awsCfg), cfg), nil
}

func newUploader(client objectPutter, cfg Config) *Uploader {
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = DefaultMaxSize
	}
	baseURL := strings.TrimRight(cfg.PublicBaseURL, "/")
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.amazonaws.com", cfg.Bucket)
	}

	return &Uploader{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: baseURL,
		maxSize: cfg.MaxSize,
	}
}

// Upload stores an image under folder and returns its public URL. Files that
// are not images or exceed the size limit are rejected before upload.
func (u *Uploader) Upload(ctx context.Context, folder, filename string, r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, u.maxSize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > u.maxSize {
		return "", ErrTooLarge
	}

	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return "", ErrNotImage
	}

	key := objectKey(folder, filename)
	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("unable to upload file to S3: %w", err)
	}

	return u.baseURL + "/" + key, nil
}

func objectKey(folder, filename string) string {
	folder = strings.Trim(folder, "/")
	if folder == "" {
		folder = "uploads"
	}

	return path.Join(folder, uuid.NewString()+strings.ToLower(path.Ext(filename)))
}
