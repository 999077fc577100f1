package mediasvc

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/zeroonecreation/classify/core"
)

type s3Service struct {
	client  *s3.Client
	bucket  string
	baseURL string
	maxSize int64
}

var _ Service = (*s3Service)(nil)

func NewS3Service(ctx context.Context, conf *core.Config) (Service, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(conf.Media.Region))
	if err != nil {
		return nil, errors.Wrap(err, "loading AWS config")
	}

	baseURL := conf.Media.BaseURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", conf.Media.Bucket, conf.Media.Region)
	}
	return &s3Service{
		client:  s3.NewFromConfig(cfg),
		bucket:  conf.Media.Bucket,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		maxSize: conf.Media.MaxUpload,
	}, nil
}

func (svc *s3Service) Upload(ctx context.Context, filename, contentType string, size int64, body io.Reader) (string, error) {
	if err := ValidateImage(contentType, size, svc.maxSize); err != nil {
		return "", err
	}

	// re-check the cap while buffering; Content-Length can lie
	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(body, svc.maxSize+1))
	if err != nil {
		return "", errors.Wrap(err, "buffering upload")
	}
	if n > svc.maxSize {
		return "", ErrTooLarge
	}

	key := uuid.NewString() + extFor(contentType)
	_, err = svc.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(svc.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String(contentType),
		Metadata: map[string]string{
			"original-filename": filename,
			"upload-time":       time.Now().UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return "", errors.Wrap(err, "uploading to S3")
	}
	return svc.baseURL + "/" + key, nil
}

func (svc *s3Service) Delete(ctx context.Context, url string) error {
	if !strings.HasPrefix(url, svc.baseURL+"/") {
		// not one of ours; nothing to delete
		return nil
	}
	key := strings.TrimPrefix(url, svc.baseURL+"/")
	_, err := svc.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(svc.bucket),
		Key:    aws.String(key),
	})
	return errors.Wrap(err, "deleting from S3")
}
