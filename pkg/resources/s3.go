package resources

import (
	"context"
	"io"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3API is the subset of the S3 client used by S3Store.
type S3API interface {
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Store serves a resource tree from an S3 bucket, so view trees deployed
// to object storage can be scanned and served without a local copy.
//
// Example:
//
//	cfg, _ := config.LoadDefaultConfig(context.Background())
//	store := resources.NewS3Store(s3.NewFromConfig(cfg), "my-bucket", "site/")
type S3Store struct {
	client S3API
	bucket string
	prefix string
}

// NewS3Store creates a Store over the given bucket. The prefix, if not
// empty, must end with a slash and is prepended to every key.
func NewS3Store(client S3API, bucket, prefix string) *S3Store {
	return &S3Store{client: client, bucket: bucket, prefix: prefix}
}

// List implements Store. Directory listing uses delimiter queries, so
// "directories" are the common key prefixes of the bucket.
func (s *S3Store) List(dir string) []string {
	keyPrefix := s.prefix + strings.TrimPrefix(dir, "/")
	if keyPrefix != "" && !strings.HasSuffix(keyPrefix, "/") {
		keyPrefix += "/"
	}

	var children []string
	var continuation *string

	for {
		out, err := s.client.ListObjectsV2(context.Background(), &s3.ListObjectsV2Input{
			Bucket:            aws.String(s.bucket),
			Prefix:            aws.String(keyPrefix),
			Delimiter:         aws.String("/"),
			ContinuationToken: continuation,
		})
		if err != nil {
			return nil
		}

		for _, cp := range out.CommonPrefixes {
			if cp.Prefix != nil {
				children = append(children, s.childPath(*cp.Prefix))
			}
		}
		for _, obj := range out.Contents {
			if obj.Key != nil && *obj.Key != keyPrefix {
				children = append(children, s.childPath(*obj.Key))
			}
		}

		if out.IsTruncated == nil || !*out.IsTruncated {
			break
		}
		continuation = out.NextContinuationToken
	}

	sort.Strings(children)
	return children
}

// Open implements Store.
func (s *S3Store) Open(path string) (io.ReadCloser, error) {
	out, err := s.client.GetObject(context.Background(), &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.prefix + strings.TrimPrefix(path, "/")),
	})
	if err != nil {
		return nil, err
	}
	return out.Body, nil
}

// childPath converts a bucket key back to an absolute resource path.
func (s *S3Store) childPath(key string) string {
	return "/" + strings.TrimPrefix(key, s.prefix)
}
