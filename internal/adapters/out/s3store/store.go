// Package s3store reads prediction files from and writes optimized results to
// an S3 bucket. Keys live under configurable prefixes, as laid out by the
// prediction pipeline ("predictions/", "optimized/").
package s3store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

var (
	_ ports.PredictionSource = (*Source)(nil)
	_ ports.ResultSink       = (*Sink)(nil)
)

// API is the subset of *s3.Client the store uses.
type API interface {
	s3.ListObjectsV2APIClient
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// NewClient builds an S3 client from the default credential chain
// (environment, shared config, Lambda execution role).
func NewClient(ctx context.Context) (*s3.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return s3.NewFromConfig(cfg), nil
}

// Source picks the newest object with the configured extension under a prefix.
type Source struct {
	api       API
	bucket    string
	prefix    string
	extension string
}

func NewSource(api API, bucket, prefix, extension string) (*Source, error) {
	if api == nil {
		return nil, errs.NewValueIsRequiredError("api")
	}
	if strings.TrimSpace(bucket) == "" {
		return nil, errs.NewValueIsRequiredError("bucket")
	}
	if extension == "" {
		extension = ".csv"
	}
	return &Source{api: api, bucket: bucket, prefix: prefix, extension: extension}, nil
}

func (s *Source) Latest(ctx context.Context) (ports.ObjectRef, error) {
	paginator := s3.NewListObjectsV2Paginator(s.api, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.prefix),
	})

	var latest ports.ObjectRef
	found := false
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return ports.ObjectRef{}, fmt.Errorf("list s3://%s/%s: %w", s.bucket, s.prefix, err)
		}

		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if !strings.EqualFold(path.Ext(key), s.extension) {
				continue
			}
			modified := aws.ToTime(obj.LastModified)
			if !found || modified.After(latest.LastModified) {
				latest = ports.ObjectRef{Key: key, LastModified: modified}
				found = true
			}
		}
	}

	if !found {
		return ports.ObjectRef{}, errs.NewObjectNotFoundError("prefix", "s3://"+s.bucket+"/"+s.prefix)
	}
	return latest, nil
}

func (s *Source) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	out, err := s.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, errs.NewObjectNotFoundErrorWithCause("key", key, err)
		}
		return nil, fmt.Errorf("get s3://%s/%s: %w", s.bucket, key, err)
	}
	return out.Body, nil
}

func (s *Source) Delete(ctx context.Context, key string) error {
	_, err := s.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete s3://%s/%s: %w", s.bucket, key, err)
	}
	return nil
}

// Sink uploads result files under a prefix.
type Sink struct {
	api         API
	bucket      string
	prefix      string
	contentType string
}

func NewSink(api API, bucket, prefix string) (*Sink, error) {
	if api == nil {
		return nil, errs.NewValueIsRequiredError("api")
	}
	if strings.TrimSpace(bucket) == "" {
		return nil, errs.NewValueIsRequiredError("bucket")
	}
	return &Sink{api: api, bucket: bucket, prefix: prefix, contentType: "text/csv"}, nil
}

// Write returns the object key, prefix included.
func (s *Sink) Write(ctx context.Context, name string, body []byte) (string, error) {
	if name == "" {
		return "", errs.NewValueIsRequiredError("name")
	}

	key := s.prefix + name
	_, err := s.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentLength: aws.Int64(int64(len(body))),
		ContentType:   aws.String(s.contentType),
	})
	if err != nil {
		return "", fmt.Errorf("put s3://%s/%s: %w", s.bucket, key, err)
	}
	return key, nil
}
