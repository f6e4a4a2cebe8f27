package publish

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// HTMLContentType is the content type of every published document.
const HTMLContentType = "text/html; charset=utf-8"

// Store receives published documents. Keys are slash-separated and
// relative, e.g. "about/index.html".
type Store interface {
	Put(ctx context.Context, key, contentType string, body []byte) error
}

// DirStore writes documents below a local directory.
type DirStore struct {
	dir string
}

// NewDirStore creates a DirStore, creating dir if needed.
func NewDirStore(dir string) (*DirStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &DirStore{dir: dir}, nil
}

// Dir returns the output directory.
func (s *DirStore) Dir() string {
	return s.dir
}

// Put writes body to dir/key. The file is written to a temporary name
// first and renamed into place.
func (s *DirStore) Put(_ context.Context, key, _ string, body []byte) error {
	path := filepath.Join(s.dir, filepath.FromSlash(key))
	if rel, err := filepath.Rel(s.dir, path); err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return fmt.Errorf("key %q escapes output directory", key)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".publish-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// PutObjectAPI is the subset of the S3 client used by S3Store.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store uploads documents to an S3 bucket.
//
// Example usage:
//
//	cfg, _ := config.LoadDefaultConfig(context.Background())
//	store := publish.NewS3Store(s3.NewFromConfig(cfg), "my-bucket", "site/")
type S3Store struct {
	client       PutObjectAPI
	bucket       string
	prefix       string
	cacheControl string
}

// NewS3Store creates an S3Store. prefix is prepended to every key.
func NewS3Store(client PutObjectAPI, bucket, prefix string) *S3Store {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &S3Store{
		client:       client,
		bucket:       bucket,
		prefix:       prefix,
		cacheControl: "public, max-age=300",
	}
}

// WithCacheControl sets the Cache-Control header stored on each object.
func (s *S3Store) WithCacheControl(v string) *S3Store {
	s.cacheControl = v
	return s
}

// Put uploads body under prefix+key.
func (s *S3Store) Put(ctx context.Context, key, contentType string, body []byte) error {
	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(s.prefix + key),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(body))),
	}
	if s.cacheControl != "" {
		input.CacheControl = aws.String(s.cacheControl)
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("s3 put %s: %w", s.prefix+key, err)
	}
	return nil
}
