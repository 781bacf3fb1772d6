package proxy

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/DogTwoChen/parse-video/internal/config"
	"github.com/DogTwoChen/parse-video/internal/fetch"
	"github.com/DogTwoChen/parse-video/internal/utils"
)

func newTestStreamer() *Streamer {
	client := fetch.NewClient(&config.FetchConfig{Timeout: 5})
	return NewStreamer(client, zap.NewNop())
}

func TestStreamExactBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "video/mp4")
		w.Write([]byte("0123456789"))
	}))
	defer srv.Close()

	resource, err := newTestStreamer().Stream(context.Background(), srv.URL+"/v.mp4")
	if err != nil {
		t.Fatalf("Stream failed: %v", err)
	}
	defer resource.Body.Close()

	if resource.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d", resource.StatusCode)
	}
	if resource.ContentType != "video/mp4" {
		t.Errorf("ContentType = %q", resource.ContentType)
	}
	if resource.ContentLength != 10 {
		t.Errorf("ContentLength = %d", resource.ContentLength)
	}

	body, err := io.ReadAll(resource.Body)
	if err != nil {
		t.Fatalf("read body failed: %v", err)
	}
	if string(body) != "0123456789" {
		t.Errorf("body = %q, want exactly 10 fixture bytes", body)
	}
}

func TestStreamPassesThroughUpstreamStatus(t *testing.T) {
	// 上游403必须原样透传,不得翻译成500
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	resource, err := newTestStreamer().Stream(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Stream failed: %v", err)
	}
	defer resource.Body.Close()

	if resource.StatusCode != http.StatusForbidden {
		t.Errorf("StatusCode = %d, want 403 passthrough", resource.StatusCode)
	}
}

func TestStreamSetsRefererFromTargetHost(t *testing.T) {
	var gotReferer, gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotReferer = r.Header.Get("Referer")
		gotUA = r.Header.Get("User-Agent")
	}))
	defer srv.Close()

	resource, err := newTestStreamer().Stream(context.Background(), srv.URL+"/img.jpg")
	if err != nil {
		t.Fatalf("Stream failed: %v", err)
	}
	resource.Body.Close()

	if !strings.HasPrefix(gotReferer, "https://") || !strings.Contains(gotReferer, "127.0.0.1") {
		t.Errorf("Referer = %q, want derived from target host", gotReferer)
	}
	if gotUA != fetch.DefaultUserAgent {
		t.Errorf("User-Agent = %q, want browser UA", gotUA)
	}
}

func TestStreamDefaultContentType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	resource, err := newTestStreamer().Stream(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Stream failed: %v", err)
	}
	defer resource.Body.Close()

	if resource.ContentType != "application/octet-stream" {
		t.Errorf("ContentType = %q, want fallback octet-stream", resource.ContentType)
	}
}

func TestStreamRejectsInvalidURL(t *testing.T) {
	_, err := newTestStreamer().Stream(context.Background(), "::not-a-url::")
	if !errors.Is(err, utils.ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}
