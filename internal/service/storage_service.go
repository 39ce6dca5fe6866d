package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"coursehub_backend/internal/config"
	"coursehub_backend/internal/util"
	"coursehub_backend/pkg/logger"
	"coursehub_backend/pkg/monitoring"

	"github.com/go-redis/redis/v8"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

const (
	streamUploadTimeout     = 10 * time.Minute
	uploadProgressKeyPrefix = "upload_progress:"
	uploadProgressTTL       = time.Hour
)

// StorageBackend persists and removes uploaded objects. Deletion
// reports found/not-found as a bool; transport failures as an error.
type StorageBackend interface {
	Put(ctx context.Context, ref string, reader io.Reader, size int64, contentType string) error
	PutStream(ctx context.Context, ref string, reader io.Reader, size int64, contentType string) error
	Remove(ctx context.Context, ref string) (bool, error)
	URL(ref string) string
}

// LocalBackend writes under <LocalPath>/<folder>/<file> and serves from
// the configured base URL.
type LocalBackend struct {
	Config *config.StorageConfig
}

func (b *LocalBackend) Put(ctx context.Context, ref string, reader io.Reader, size int64, contentType string) error {
	dst := filepath.Join(b.Config.LocalPath, filepath.FromSlash(ref))
	dir := filepath.Dir(dst)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err = io.Copy(out, reader); err != nil {
		// discard the partial write, e.g. on client disconnect
		out.Close()
		os.Remove(dst)
		return err
	}
	return nil
}

func (b *LocalBackend) PutStream(ctx context.Context, ref string, reader io.Reader, size int64, contentType string) error {
	return b.Put(ctx, ref, reader, size, contentType)
}

func (b *LocalBackend) Remove(ctx context.Context, ref string) (bool, error) {
	dst := filepath.Join(b.Config.LocalPath, filepath.FromSlash(ref))
	err := os.Remove(dst)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (b *LocalBackend) URL(ref string) string {
	return strings.TrimRight(b.Config.BaseURL, "/") + "/uploads/" + ref
}

// CDNBackend talks to the object store over the minio client. Put is a
// single PUT; PutStream is the multipart path with a part size suited
// to large files and redis-visible progress.
type CDNBackend struct {
	Config *config.StorageConfig
	Client *minio.Client
	Redis  *redis.Client
}

func NewCDNBackend(cfg *config.StorageConfig, rdb *redis.Client) (*CDNBackend, error) {
	if cfg.CDNEndpoint == "" || cfg.CDNAccessKey == "" {
		return nil, fmt.Errorf("cdn credentials missing: %w", util.ErrStorageUnavailable)
	}
	client, err := minio.New(cfg.CDNEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.CDNAccessKey, cfg.CDNSecretKey, ""),
		Secure: cfg.CDNSecure,
	})
	if err != nil {
		return nil, err
	}
	return &CDNBackend{Config: cfg, Client: client, Redis: rdb}, nil
}

func (b *CDNBackend) Put(ctx context.Context, ref string, reader io.Reader, size int64, contentType string) error {
	_, err := b.Client.PutObject(ctx, b.Config.CDNBucket, ref, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

func (b *CDNBackend) PutStream(ctx context.Context, ref string, reader io.Reader, size int64, contentType string) error {
	ctx, cancel := context.WithTimeout(ctx, streamUploadTimeout)
	defer cancel()

	opts := minio.PutObjectOptions{
		ContentType: contentType,
		PartSize:    uint64(b.Config.StreamPartSizeMiB) * 1024 * 1024,
	}
	if b.Redis != nil {
		opts.Progress = &uploadProgress{rdb: b.Redis, key: uploadProgressKeyPrefix + ref, total: size}
	}

	// cancellation aborts the in-flight multipart upload
	_, err := b.Client.PutObject(ctx, b.Config.CDNBucket, ref, reader, size, opts)
	return err
}

func (b *CDNBackend) Remove(ctx context.Context, ref string) (bool, error) {
	_, err := b.Client.StatObject(ctx, b.Config.CDNBucket, ref, minio.StatObjectOptions{})
	if err != nil {
		resp := minio.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" || resp.StatusCode == 404 {
			return false, nil
		}
		return false, err
	}
	if err := b.Client.RemoveObject(ctx, b.Config.CDNBucket, ref, minio.RemoveObjectOptions{}); err != nil {
		return false, err
	}
	return true, nil
}

func (b *CDNBackend) URL(ref string) string {
	scheme := "http"
	if b.Config.CDNSecure {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, b.Config.CDNEndpoint, b.Config.CDNBucket, ref)
}

// uploadProgress satisfies minio's Progress reader; each Read reports
// the bytes transferred since the previous call.
type uploadProgress struct {
	rdb   *redis.Client
	key   string
	total int64
	seen  int64
}

func (p *uploadProgress) Read(buf []byte) (int, error) {
	n := len(buf)
	p.seen += int64(n)
	pct := 0
	if p.total > 0 {
		pct = int(p.seen * 100 / p.total)
	}
	p.rdb.Set(context.Background(), p.key, pct, uploadProgressTTL)
	return n, nil
}

// StorageService routes each upload to one of three strategies, chosen
// per call: local disk in local mode, a direct CDN PUT for small files,
// the streaming CDN path above the size threshold. References are
// <folder>/<unix-ms>-<sanitized-name>; local mode returns a full URL
// under the configured base URL instead.
type StorageService struct {
	Cfg   *config.Config
	local *LocalBackend
	cdn   StorageBackend
}

func NewStorageService(cfg *config.Config, rdb *redis.Client) *StorageService {
	s := &StorageService{
		Cfg:   cfg,
		local: &LocalBackend{Config: &cfg.Storage},
	}
	if cfg.Storage.Type == util.StorageCDN {
		cdn, err := NewCDNBackend(&cfg.Storage, rdb)
		if err != nil {
			logger.Log.Error("cdn backend unavailable, uploads will fail until configured", zap.Error(err))
		} else {
			s.cdn = cdn
		}
	}
	return s
}

func (s *StorageService) streamThreshold() int64 {
	return s.Cfg.Storage.StreamThresholdMiB * 1024 * 1024
}

// Store persists the file and returns its reference.
func (s *StorageService) Store(ctx context.Context, folder, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	ref := fmt.Sprintf("%s/%d-%s", folder, time.Now().UnixMilli(), util.SanitizeFilename(filename))

	if s.Cfg.Storage.Type == util.StorageLocal {
		if err := s.local.Put(ctx, ref, reader, size, contentType); err != nil {
			return "", err
		}
		monitoring.UploadBytes.WithLabelValues("local").Add(float64(size))
		return s.local.URL(ref), nil
	}

	if s.cdn == nil {
		return "", fmt.Errorf("no storage backend configured: %w", util.ErrStorageUnavailable)
	}

	var err error
	if size > s.streamThreshold() {
		err = s.cdn.PutStream(ctx, ref, reader, size, contentType)
		monitoring.UploadBytes.WithLabelValues("cdn_stream").Add(float64(size))
	} else {
		err = s.cdn.Put(ctx, ref, reader, size, contentType)
		monitoring.UploadBytes.WithLabelValues("cdn").Add(float64(size))
	}
	if err != nil {
		return "", fmt.Errorf("upload failed: %v: %w", err, util.ErrStorageUnavailable)
	}
	return ref, nil
}

// Delete removes the object behind a reference. It is advisory: a
// missing object or empty reference returns false without error, and
// transport failures are logged, never raised.
func (s *StorageService) Delete(ctx context.Context, ref string) bool {
	if ref == "" {
		return false
	}

	// local references carry the full serving URL
	if prefix := strings.TrimRight(s.Cfg.Storage.BaseURL, "/") + "/uploads/"; strings.HasPrefix(ref, prefix) {
		ref = strings.TrimPrefix(ref, prefix)
		ok, err := s.local.Remove(ctx, ref)
		if err != nil {
			logger.Log.Error("local file delete failed", zap.String("ref", ref), zap.Error(err))
			return false
		}
		return ok
	}

	if s.Cfg.Storage.Type == util.StorageLocal {
		ok, err := s.local.Remove(ctx, ref)
		if err != nil {
			logger.Log.Error("local file delete failed", zap.String("ref", ref), zap.Error(err))
			return false
		}
		return ok
	}

	if s.cdn == nil {
		logger.Log.Error("cdn delete skipped, backend unavailable", zap.String("ref", ref))
		return false
	}
	ok, err := s.cdn.Remove(ctx, ref)
	if err != nil {
		logger.Log.Error("cdn delete failed", zap.String("ref", ref), zap.Error(err))
		return false
	}
	return ok
}

// URL resolves a stored reference to something servable.
func (s *StorageService) URL(ref string) string {
	if ref == "" {
		return ""
	}
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	if s.Cfg.Storage.Type == util.StorageLocal || s.cdn == nil {
		return s.local.URL(ref)
	}
	return s.cdn.URL(ref)
}

// UploadProgress reads the redis-tracked percentage of a streaming
// upload; -1 when unknown.
func UploadProgress(ctx context.Context, rdb *redis.Client, ref string) int {
	if rdb == nil {
		return -1
	}
	pct, err := rdb.Get(ctx, uploadProgressKeyPrefix+ref).Int()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Log.Warn("upload progress lookup failed", zap.String("ref", ref), zap.Error(err))
		}
		return -1
	}
	return pct
}
