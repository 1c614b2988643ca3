package images

import (
	"context"
	"mime/multipart"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/pkg/errors"
)

// S3Config describes an S3-compatible bucket. Endpoint is optional and
// switches the client to path-style addressing (R2, MinIO).
type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	Prefix    string
	PublicURL string
	AccessKey string
	SecretKey string
}

// objectAPI is the subset of the S3 client the store uses.
type objectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, opts ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Store keeps images as objects under a key prefix.
type S3Store struct {
	client    objectAPI
	bucket    string
	prefix    string
	publicURL string
}

var _ Store = (*S3Store)(nil)

func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3 bucket is required")
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "load aws config")
	}

	endpoint := strings.TrimRight(cfg.Endpoint, "/")
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	publicURL := strings.TrimRight(cfg.PublicURL, "/")
	if publicURL == "" {
		if endpoint != "" {
			publicURL = endpoint + "/" + cfg.Bucket
		} else {
			publicURL = "https://" + cfg.Bucket + ".s3." + cfg.Region + ".amazonaws.com"
		}
	}
	return newS3Store(client, cfg.Bucket, cfg.Prefix, publicURL), nil
}

func newS3Store(client objectAPI, bucket, prefix, publicURL string) *S3Store {
	return &S3Store{client: client, bucket: bucket, prefix: prefix, publicURL: publicURL}
}

func (s *S3Store) key(name string) string { return s.prefix + name }

func (s *S3Store) Save(ctx context.Context, fh *multipart.FileHeader) (string, error) {
	name, err := newName(fh.Filename)
	if err != nil {
		return "", err
	}

	src, err := fh.Open()
	if err != nil {
		return "", errors.Wrap(err, "open upload")
	}
	defer src.Close()

	in := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(s.key(name)),
		Body:          src,
		ContentLength: aws.Int64(fh.Size),
	}
	if ct := fh.Header.Get("Content-Type"); ct != "" {
		in.ContentType = aws.String(ct)
	}
	if _, err := s.client.PutObject(ctx, in); err != nil {
		return "", errors.Wrapf(err, "put object %s", s.key(name))
	}
	return name, nil
}

func (s *S3Store) Delete(ctx context.Context, name string) error {
	if name == "" {
		return errors.New("object name cannot be empty")
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(name)),
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && (apiErr.ErrorCode() == "NoSuchKey" || apiErr.ErrorCode() == "NotFound") {
			return nil
		}
		return errors.Wrapf(err, "delete object %s", s.key(name))
	}
	return nil
}

func (s *S3Store) URL(_ string, name string) string {
	return s.publicURL + "/" + s.key(name)
}
