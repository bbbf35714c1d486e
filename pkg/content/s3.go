package content

import (
	"context"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/edgekit-dev/edgekit/pkg/dispatch"
	"github.com/edgekit-dev/edgekit/pkg/manifest"
)

// s3API is the subset of the S3 client the source needs. Declared locally
// so tests can substitute a fake without network access.
type s3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source resolves route files from an S3 bucket holding the distribution.
//
// Example:
//
//	cfg, _ := config.LoadDefaultConfig(context.Background())
//	src := content.NewS3Source(s3.NewFromConfig(cfg), "my-site", "dist/")
type S3Source struct {
	client s3API
	bucket string
	prefix string
}

// NewS3Source creates a source reading objects from bucket. The prefix is
// prepended to every route file reference to form the object key.
func NewS3Source(client *s3.Client, bucket, prefix string) *S3Source {
	return newS3Source(client, bucket, prefix)
}

func newS3Source(client s3API, bucket, prefix string) *S3Source {
	return &S3Source{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}
}

// Content implements dispatch.ContentSource. A missing object, a read
// failure, or a reference that fails sanitization all yield nil; the
// engine surfaces those uniformly as 404.
func (s *S3Source) Content(ctx context.Context, _ *dispatch.Request, route *manifest.Route) *dispatch.Content {
	rel, ok := SafeRel(route.File)
	if !ok {
		return nil
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.prefix + rel),
	})
	if err != nil {
		return nil
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil
	}
	return &dispatch.Content{Body: data}
}
