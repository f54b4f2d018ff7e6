package server

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"musiclib/storage"
)

type seekCloser struct {
	*bytes.Reader
}

func (seekCloser) Close() error { return nil }

type fakeAssets struct {
	objects map[string][]byte
	err     error
}

func (f *fakeAssets) Open(ctx context.Context, name string) (io.ReadCloser, *storage.AssetInfo, error) {
	if f.err != nil {
		return nil, nil, f.err
	}
	if _, err := storage.ObjectKey("music/", name); err != nil {
		return nil, nil, err
	}
	data, ok := f.objects[name]
	if !ok {
		return nil, nil, storage.ErrAssetNotFound
	}
	info := &storage.AssetInfo{
		Name:         name,
		Size:         int64(len(data)),
		ContentType:  "audio/mpeg",
		ETag:         "abc",
		LastModified: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	return seekCloser{bytes.NewReader(data)}, info, nil
}

func newAssetServer(t *testing.T, assets AssetSource) *httptest.Server {
	t.Helper()
	tokens := mustTokens(t)
	srv := httptest.NewServer(NewRouter(Dependencies{Tokens: tokens, Assets: assets}))
	t.Cleanup(srv.Close)
	return srv
}

func TestServeAsset(t *testing.T) {
	srv := newAssetServer(t, &fakeAssets{objects: map[string][]byte{"song.mp3": []byte("0123456789")}})

	resp, err := http.Get(srv.URL + "/storage/music/song.mp3")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if got := resp.Header.Get("Content-Type"); got != "audio/mpeg" {
		t.Fatalf("content type = %q, want audio/mpeg", got)
	}
	if got := resp.Header.Get("ETag"); got != `"abc"` {
		t.Fatalf("etag = %q", got)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "0123456789" {
		t.Fatalf("body = %q", body)
	}
}

func TestServeAssetRange(t *testing.T) {
	srv := newAssetServer(t, &fakeAssets{objects: map[string][]byte{"song.mp3": []byte("0123456789")}})

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/storage/music/song.mp3", nil)
	req.Header.Set("Range", "bytes=2-4")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusPartialContent {
		t.Fatalf("status = %d, want 206", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "234" {
		t.Fatalf("body = %q, want 234", body)
	}
}

func TestServeAssetErrors(t *testing.T) {
	tests := []struct {
		name   string
		assets *fakeAssets
		path   string
		status int
	}{
		{"missing", &fakeAssets{}, "/storage/music/nope.mp3", http.StatusNotFound},
		{"backend failure", &fakeAssets{err: errors.New("connection reset")}, "/storage/music/a.mp3", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newAssetServer(t, tt.assets)
			resp, err := http.Get(srv.URL + tt.path)
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.status)
			}
		})
	}
}

func TestAssetRouteAbsentWithoutStore(t *testing.T) {
	srv := httptest.NewServer(NewRouter(Dependencies{Tokens: mustTokens(t)}))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/storage/music/song.mp3")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}
