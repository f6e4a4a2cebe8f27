package content

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// Source lists and opens content files by slash-separated name.
// Open returns an error satisfying errors.Is(err, fs.ErrNotExist) for
// missing files.
type Source interface {
	List(ctx context.Context) ([]string, error)
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// DirSource reads content from a directory tree on disk.
type DirSource struct {
	Root string
}

// List returns every file under Root, sorted.
func (d DirSource) List(ctx context.Context) ([]string, error) {
	var names []string
	err := filepath.WalkDir(d.Root, func(p string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if entry.IsDir() {
			if p != d.Root && strings.HasPrefix(entry.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(d.Root, p)
		if err != nil {
			return err
		}
		names = append(names, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", d.Root, err)
	}
	sort.Strings(names)
	return names, nil
}

// Open opens name relative to Root.
func (d DirSource) Open(_ context.Context, name string) (io.ReadCloser, error) {
	if !fs.ValidPath(name) {
		return nil, fmt.Errorf("open %s: %w", name, fs.ErrInvalid)
	}
	return os.Open(filepath.Join(d.Root, filepath.FromSlash(name)))
}

// S3API is the subset of the S3 client used by S3Source.
type S3API interface {
	s3.ListObjectsV2APIClient
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source reads content from objects under Prefix in Bucket.
type S3Source struct {
	Client S3API
	Bucket string
	Prefix string
}

func (s S3Source) prefix() string {
	p := strings.Trim(s.Prefix, "/")
	if p == "" {
		return ""
	}
	return p + "/"
}

// List returns the names of all objects under Prefix, relative to it, sorted.
func (s S3Source) List(ctx context.Context) ([]string, error) {
	prefix := s.prefix()
	p := s3.NewListObjectsV2Paginator(s.Client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.Bucket),
		Prefix: aws.String(prefix),
	})

	var names []string
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list s3://%s/%s: %w", s.Bucket, prefix, err)
		}
		for _, obj := range page.Contents {
			key := strings.TrimPrefix(aws.ToString(obj.Key), prefix)
			if key == "" || strings.HasSuffix(key, "/") {
				continue
			}
			names = append(names, key)
		}
	}
	sort.Strings(names)
	return names, nil
}

// Open fetches the object for name.
func (s S3Source) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	key := s.prefix() + path.Clean(name)
	out, err := s.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, fmt.Errorf("open s3://%s/%s: %w", s.Bucket, key, fs.ErrNotExist)
		}
		return nil, fmt.Errorf("open s3://%s/%s: %w", s.Bucket, key, err)
	}
	return out.Body, nil
}
