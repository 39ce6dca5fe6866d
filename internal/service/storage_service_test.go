package service

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"coursehub_backend/internal/config"
	"coursehub_backend/internal/util"

	"github.com/stretchr/testify/assert"
)

func localStorageConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Storage: config.StorageConfig{
			Type:               util.StorageLocal,
			LocalPath:          t.TempDir(),
			BaseURL:            "http://localhost:8080",
			StreamThresholdMiB: 20,
			StreamPartSizeMiB:  16,
		},
	}
}

func TestLocalBackend_PutAndRemove(t *testing.T) {
	cfg := localStorageConfig(t)
	backend := &LocalBackend{Config: &cfg.Storage}

	err := backend.Put(context.Background(), "materials/1-notes.pdf", strings.NewReader("payload"), 7, "application/pdf")
	assert.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(cfg.Storage.LocalPath, "materials", "1-notes.pdf"))
	assert.NoError(t, err)
	assert.Equal(t, "payload", string(data))

	found, err := backend.Remove(context.Background(), "materials/1-notes.pdf")
	assert.NoError(t, err)
	assert.True(t, found)

	found, err = backend.Remove(context.Background(), "materials/1-notes.pdf")
	assert.NoError(t, err)
	assert.False(t, found)
}

func TestStore_LocalReturnsServingURL(t *testing.T) {
	svc := NewStorageService(localStorageConfig(t), nil)

	url, err := svc.Store(context.Background(), "materials", "Lecture Notes (v2).pdf", strings.NewReader("x"), 1, "application/pdf")

	assert.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^http://localhost:8080/uploads/materials/\d+-Lecture-Notes-v2-\.pdf$`), url)
}

func TestDelete_IsAdvisory(t *testing.T) {
	svc := NewStorageService(localStorageConfig(t), nil)

	assert.False(t, svc.Delete(context.Background(), ""))
	assert.False(t, svc.Delete(context.Background(), "materials/never-stored.pdf"))
}

func TestDelete_ResolvesServingURLBackToFile(t *testing.T) {
	cfg := localStorageConfig(t)
	svc := NewStorageService(cfg, nil)

	url, err := svc.Store(context.Background(), "avatars", "me.png", strings.NewReader("img"), 3, "image/png")
	assert.NoError(t, err)

	assert.True(t, svc.Delete(context.Background(), url))
	assert.False(t, svc.Delete(context.Background(), url))
}

// fakeBackend records which upload strategy the router picked.
type fakeBackend struct {
	puts    []string
	streams []string
}

func (f *fakeBackend) Put(ctx context.Context, ref string, r io.Reader, size int64, ct string) error {
	f.puts = append(f.puts, ref)
	return nil
}

func (f *fakeBackend) PutStream(ctx context.Context, ref string, r io.Reader, size int64, ct string) error {
	f.streams = append(f.streams, ref)
	return nil
}

func (f *fakeBackend) Remove(ctx context.Context, ref string) (bool, error) { return true, nil }
func (f *fakeBackend) URL(ref string) string                                { return "https://cdn.test/" + ref }

func TestStore_SizeSelectsUploadStrategy(t *testing.T) {
	cfg := localStorageConfig(t)
	cfg.Storage.Type = util.StorageCDN
	backend := &fakeBackend{}
	svc := NewStorageService(cfg, nil)
	svc.cdn = backend

	small, err := svc.Store(context.Background(), "materials", "slides.pdf", strings.NewReader("x"), 5*1024*1024, "application/pdf")
	assert.NoError(t, err)
	big, err := svc.Store(context.Background(), "materials", "lecture.mp4", strings.NewReader("x"), 25*1024*1024, "video/mp4")
	assert.NoError(t, err)

	assert.Len(t, backend.puts, 1)
	assert.Len(t, backend.streams, 1)
	assert.Regexp(t, regexp.MustCompile(`^materials/\d+-slides\.pdf$`), small)
	assert.Regexp(t, regexp.MustCompile(`^materials/\d+-lecture\.mp4$`), big)
}

func TestStore_CDNModeWithoutBackendFails(t *testing.T) {
	cfg := localStorageConfig(t)
	cfg.Storage.Type = util.StorageCDN
	// no endpoint or credentials, so the cdn backend never comes up
	svc := NewStorageService(cfg, nil)

	_, err := svc.Store(context.Background(), "materials", "big.mp4", strings.NewReader("x"), 1, "video/mp4")

	assert.ErrorIs(t, err, util.ErrStorageUnavailable)
}

func TestURL_PassesThroughAbsoluteReferences(t *testing.T) {
	svc := NewStorageService(localStorageConfig(t), nil)

	assert.Equal(t, "", svc.URL(""))
	assert.Equal(t, "https://cdn.example.com/x.pdf", svc.URL("https://cdn.example.com/x.pdf"))
	assert.Equal(t, "http://localhost:8080/uploads/materials/x.pdf", svc.URL("materials/x.pdf"))
}
