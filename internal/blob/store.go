// Package blob stores raw documents in S3-compatible object storage so
// ingestion can pull from a shared bucket instead of the local filesystem.
package blob

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/bull/docrag/internal/loader"
)

// ObjectInfo describes a stored document.
type ObjectInfo struct {
	Name         string
	Size         int64
	LastModified time.Time
}

// Store wraps a single bucket on an S3-compatible endpoint.
type Store struct {
	client *minio.Client
	bucket string
	logger *slog.Logger
}

// Options configures a Store connection.
type Options struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	Logger    *slog.Logger
}

// NewStore connects to the endpoint and creates the bucket if it does not
// exist yet.
func NewStore(ctx context.Context, opts Options) (*Store, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to blob endpoint %s: %w", opts.Endpoint, err)
	}

	exists, err := client.BucketExists(ctx, opts.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", opts.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, opts.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", opts.Bucket, err)
		}
		logger.Info("created bucket", "bucket", opts.Bucket)
	}

	return &Store{client: client, bucket: opts.Bucket, logger: logger}, nil
}

// Upload puts a local file into the bucket. An empty objectName defaults to
// the file's base name. Existing objects are overwritten.
func (s *Store) Upload(ctx context.Context, localPath, objectName string) (string, error) {
	if objectName == "" {
		objectName = filepath.Base(localPath)
	}

	info, err := s.client.FPutObject(ctx, s.bucket, objectName, localPath, minio.PutObjectOptions{
		ContentType: contentType(localPath),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", localPath, err)
	}

	s.logger.Info("uploaded object", "object", objectName, "bytes", info.Size)
	return objectName, nil
}

// UploadDirectory uploads every supported document in dir (non-recursive)
// and returns the object names in upload order.
func (s *Store) UploadDirectory(ctx context.Context, dir string) ([]string, error) {
	paths, err := loader.ListSupported(dir)
	if err != nil {
		return nil, err
	}

	var uploaded []string
	for _, path := range paths {
		name, err := s.Upload(ctx, path, "")
		if err != nil {
			return uploaded, err
		}
		uploaded = append(uploaded, name)
	}
	return uploaded, nil
}

// List returns every object in the bucket, sorted by name.
func (s *Store) List(ctx context.Context) ([]ObjectInfo, error) {
	var objects []ObjectInfo
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("list bucket %s: %w", s.bucket, obj.Err)
		}
		objects = append(objects, ObjectInfo{
			Name:         obj.Key,
			Size:         obj.Size,
			LastModified: obj.LastModified,
		})
	}
	sort.Slice(objects, func(i, j int) bool { return objects[i].Name < objects[j].Name })
	return objects, nil
}

// Download fetches an object to localPath, creating parent directories as
// needed.
func (s *Store) Download(ctx context.Context, objectName, localPath string) error {
	if err := os.MkdirAll(filepath.Dir(localPath), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", localPath, err)
	}
	if err := s.client.FGetObject(ctx, s.bucket, objectName, localPath, minio.GetObjectOptions{}); err != nil {
		return fmt.Errorf("download %s: %w", objectName, err)
	}
	return nil
}

// DownloadAll fetches every object in the bucket into dir and returns the
// local paths. Object names containing path separators are flattened to
// their base name.
func (s *Store) DownloadAll(ctx context.Context, dir string) ([]string, error) {
	objects, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, obj := range objects {
		local := filepath.Join(dir, filepath.Base(obj.Name))
		if err := s.Download(ctx, obj.Name, local); err != nil {
			return paths, err
		}
		paths = append(paths, local)
	}
	return paths, nil
}

// Delete removes an object from the bucket.
func (s *Store) Delete(ctx context.Context, objectName string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, objectName, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("delete %s: %w", objectName, err)
	}
	s.logger.Info("deleted object", "object", objectName)
	return nil
}

func contentType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return "application/pdf"
	case ".md", ".markdown":
		return "text/markdown"
	case ".txt":
		return "text/plain"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	default:
		return "application/octet-stream"
	}
}
