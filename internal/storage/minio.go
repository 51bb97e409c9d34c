package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// MinIOConfig configures an S3-compatible bucket.
type MinIOConfig struct {
	Endpoint        string `mapstructure:"endpoint" validate:"required"`
	AccessKeyID     string `mapstructure:"access-key-id"`
	SecretAccessKey string `mapstructure:"secret-access-key"`
	SecretKeyFile   string `mapstructure:"secret-access-key-file"`
	Bucket          string `mapstructure:"bucket" validate:"required"`
	Location        string `mapstructure:"location"`
	UseSSL          bool   `mapstructure:"use-ssl"`
}

// objectClient is the subset of *minio.Client the store uses.
type objectClient interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	ListObjects(ctx context.Context, bucketName string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (*minio.Object, error)
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// MinIO keeps folders as key prefixes inside one bucket.
type MinIO struct {
	client objectClient
	bucket string
	logger *zap.Logger
}

// NewMinIO connects to the endpoint and creates the bucket when missing.
func NewMinIO(ctx context.Context, cfg MinIOConfig, secretKey string, l *zap.Logger) (*MinIO, error) {
	if l == nil {
		l = zap.NewNop()
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, secretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Location,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	s := &MinIO{client: client, bucket: cfg.Bucket, logger: l.With(zap.String("bucket", cfg.Bucket))}
	if err := s.ensureBucket(ctx, cfg.Location); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *MinIO) ensureBucket(ctx context.Context, location string) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", s.bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: location}); err != nil {
		return fmt.Errorf("create bucket %s: %w", s.bucket, err)
	}
	s.logger.Info("bucket created")
	return nil
}

func prefix(folder string) string {
	folder = strings.Trim(folder, "/")
	if folder == "" {
		return ""
	}
	return folder + "/"
}

// List returns the objects directly under folder sorted by name.
func (s *MinIO) List(ctx context.Context, folder string) ([]File, error) {
	var files []File
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: prefix(folder)}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("list %s: %w", folder, obj.Err)
		}
		if strings.HasSuffix(obj.Key, "/") {
			continue
		}
		files = append(files, File{
			Name:     path.Base(obj.Key),
			Ref:      obj.Key,
			Size:     obj.Size,
			Modified: obj.LastModified,
		})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	s.logger.Debug("listed bucket folder", zap.String("folder", folder), zap.Int("files", len(files)))
	return files, nil
}

func (s *MinIO) Download(ctx context.Context, ref string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, ref, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", ref, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", ref, err)
	}
	return data, nil
}

func (s *MinIO) UploadCSV(ctx context.Context, folder, name string, rows [][]string) (string, error) {
	data, err := encodeCSV(rows)
	if err != nil {
		return "", err
	}

	key := prefix(folder) + name
	_, err = s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{ContentType: "text/csv"})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}

	s.logger.Info("csv exported", zap.String("key", key), zap.Int("rows", len(rows)))
	return key, nil
}
