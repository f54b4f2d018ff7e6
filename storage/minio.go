package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"musiclib/config"
	"musiclib/logger"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ErrAssetNotFound is returned when no object exists for a filename.
var ErrAssetNotFound = errors.New("audio asset not found")

// ErrInvalidName is returned for filenames that would escape the music prefix.
var ErrInvalidName = errors.New("invalid asset name")

// AssetInfo describes one stored audio object.
type AssetInfo struct {
	Name         string // filename relative to the music prefix
	Size         int64
	ContentType  string
	ETag         string
	LastModified time.Time
}

// AssetStore reads audio assets from a MinIO bucket under a fixed prefix.
// Entries only reference filenames; uploading is handled elsewhere.
type AssetStore struct {
	client *minio.Client
	bucket string
	prefix string
}

// NewAssetStore connects to MinIO and checks that the bucket exists.
func NewAssetStore(ctx context.Context, cfg *config.Config) (*AssetStore, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
		Region: cfg.MinioRegion,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", cfg.MinioBucket, err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket %s does not exist", cfg.MinioBucket)
	}

	logger.Info("Connected to MinIO",
		logger.String("endpoint", cfg.MinioEndpoint),
		logger.String("bucket", cfg.MinioBucket))

	return &AssetStore{client: client, bucket: cfg.MinioBucket, prefix: normalizePrefix(cfg.MinioPrefix)}, nil
}

func normalizePrefix(prefix string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return ""
	}
	return prefix + "/"
}

// ObjectKey maps a filename to its object key, rejecting path traversal.
func ObjectKey(prefix, name string) (string, error) {
	if name == "" || strings.Contains(name, "\\") {
		return "", ErrInvalidName
	}
	cleaned := path.Clean("/" + name)[1:]
	if cleaned == "" || cleaned != name {
		return "", ErrInvalidName
	}
	return normalizePrefix(prefix) + cleaned, nil
}

// Open returns a reader for the named asset and its metadata.
func (s *AssetStore) Open(ctx context.Context, name string) (io.ReadCloser, *AssetInfo, error) {
	key, err := ObjectKey(s.prefix, name)
	if err != nil {
		return nil, nil, err
	}

	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get object %s: %w", key, err)
	}

	// GetObject is lazy; Stat surfaces a missing key.
	stat, err := obj.Stat()
	if err != nil {
		obj.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, nil, fmt.Errorf("%s: %w", name, ErrAssetNotFound)
		}
		return nil, nil, fmt.Errorf("failed to stat object %s: %w", key, err)
	}

	return obj, toAssetInfo(s.prefix, stat), nil
}

// List returns every asset under the music prefix.
func (s *AssetStore) List(ctx context.Context) ([]AssetInfo, error) {
	assets := make([]AssetInfo, 0)
	for object := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: s.prefix, Recursive: true}) {
		if object.Err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", object.Err)
		}
		assets = append(assets, *toAssetInfo(s.prefix, object))
	}
	return assets, nil
}

func toAssetInfo(prefix string, obj minio.ObjectInfo) *AssetInfo {
	return &AssetInfo{
		Name:         strings.TrimPrefix(obj.Key, prefix),
		Size:         obj.Size,
		ContentType:  obj.ContentType,
		ETag:         obj.ETag,
		LastModified: obj.LastModified,
	}
}
