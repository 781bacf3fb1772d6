package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/DogTwoChen/parse-video/internal/adapter"
	"github.com/DogTwoChen/parse-video/internal/config"
	"github.com/DogTwoChen/parse-video/internal/fetch"
	"github.com/DogTwoChen/parse-video/internal/models"
	"github.com/DogTwoChen/parse-video/internal/registry"
	"github.com/DogTwoChen/parse-video/internal/utils"
)

// exampleAdapter 测试用适配器: 跟随重定向抓取JSON载荷
type exampleAdapter struct {
	client *fetch.Client
	marker string
}

func (e *exampleAdapter) Source() models.VideoSource { return "example" }

func (e *exampleAdapter) Matches(rawText string) bool {
	return strings.Contains(rawText, e.marker)
}

func (e *exampleAdapter) Resolve(ctx context.Context, identifier string) (*models.ResolvedVideo, error) {
	var payload struct {
		VideoURL string `json:"video_url"`
		Title    string `json:"title"`
	}
	if err := e.client.JSON(ctx, identifier, nil, &payload); err != nil {
		return nil, err
	}
	return &models.ResolvedVideo{
		Source:   "example",
		Title:    payload.Title,
		VideoURL: payload.VideoURL,
	}, nil
}

// failingAdapter 测试用适配器: 固定返回包装后的错误
type failingAdapter struct {
	err error
}

func (f *failingAdapter) Source() models.VideoSource  { return "failing" }
func (f *failingAdapter) Matches(rawText string) bool { return strings.Contains(rawText, "failing") }

func (f *failingAdapter) Resolve(ctx context.Context, identifier string) (*models.ResolvedVideo, error) {
	return nil, fmt.Errorf("resolve %s: %w", identifier, f.err)
}

func newTestResolver(t *testing.T, a adapter.Adapter) *Resolver {
	t.Helper()
	reg, err := registry.New(a)
	if err != nil {
		t.Fatalf("registry.New failed: %v", err)
	}
	return NewResolver(reg, 4, zap.NewNop())
}

func TestResolveShareTextNoURL(t *testing.T) {
	resolver := newTestResolver(t, &failingAdapter{err: utils.ErrNotFound})

	// 无论什么噪声输入,只要没有URL就必须是 ErrInvalidInput
	for _, text := range []string{"", "纯文字分享", "复制打开 app 看视频", "ftp://no"} {
		_, err := resolver.ResolveShareText(context.Background(), text)
		if !errors.Is(err, utils.ErrInvalidInput) {
			t.Errorf("ResolveShareText(%q) err = %v, want ErrInvalidInput", text, err)
		}
	}
}

func TestResolveShareTextUnsupported(t *testing.T) {
	resolver := newTestResolver(t, &failingAdapter{err: utils.ErrNotFound})

	_, err := resolver.ResolveShareText(context.Background(), "看看 https://www.youtube.com/watch?v=abc 这个")
	if !errors.Is(err, utils.ErrUnsupportedSource) {
		t.Errorf("err = %v, want ErrUnsupportedSource", err)
	}
}

func TestResolveShareTextEndToEnd(t *testing.T) {
	// 短链 → 重定向 → 含JSON载荷的正文
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/abc123":
			http.Redirect(w, r, "/post/1", http.StatusFound)
		case "/post/1":
			fmt.Fprint(w, `{"video_url": "https://cdn.example.com/v.mp4", "title": "demo"}`)
		}
	}))
	defer srv.Close()

	client := fetch.NewClient(&config.FetchConfig{Timeout: 5})
	resolver := newTestResolver(t, &exampleAdapter{client: client, marker: "abc123"})

	text := "发现一个视频 " + srv.URL + "/abc123 快来看"
	video, err := resolver.ResolveShareText(context.Background(), text)
	if err != nil {
		t.Fatalf("ResolveShareText failed: %v", err)
	}

	if video.Source != "example" {
		t.Errorf("Source = %q", video.Source)
	}
	if video.VideoURL != "https://cdn.example.com/v.mp4" {
		t.Errorf("VideoURL = %q", video.VideoURL)
	}
	if video.Title != "demo" {
		t.Errorf("Title = %q", video.Title)
	}
}

func TestResolveByIDUnknownSource(t *testing.T) {
	resolver := newTestResolver(t, &failingAdapter{err: utils.ErrNotFound})

	_, err := resolver.ResolveByID(context.Background(), models.SourceDouYin, "123")
	if !errors.Is(err, utils.ErrUnsupportedSource) {
		t.Errorf("err = %v, want ErrUnsupportedSource", err)
	}
}

func TestResolveByIDEmptyID(t *testing.T) {
	resolver := newTestResolver(t, &failingAdapter{err: utils.ErrNotFound})

	_, err := resolver.ResolveByID(context.Background(), "failing", "")
	if !errors.Is(err, utils.ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}

func TestDispatcherPassesErrorsThrough(t *testing.T) {
	// 调度器不得吞掉或重新分类适配器错误
	for _, kind := range []error{utils.ErrNotFound, utils.ErrUpstreamFormat, utils.ErrNetwork} {
		resolver := newTestResolver(t, &failingAdapter{err: kind})

		_, err := resolver.ResolveByID(context.Background(), "failing", "123")
		if !errors.Is(err, kind) {
			t.Errorf("err = %v, want %v passed through", err, kind)
		}
	}
}

func TestResolveByIDIdempotent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"video_url": "https://cdn.example.com/v.mp4", "title": "demo"}`)
	}))
	defer srv.Close()

	client := fetch.NewClient(&config.FetchConfig{Timeout: 5})
	resolver := newTestResolver(t, &exampleAdapter{client: client, marker: "post"})
	ctx := context.Background()

	first, err := resolver.ResolveByID(ctx, "example", srv.URL+"/post/1")
	if err != nil {
		t.Fatalf("first ResolveByID failed: %v", err)
	}
	second, err := resolver.ResolveByID(ctx, "example", srv.URL+"/post/1")
	if err != nil {
		t.Fatalf("second ResolveByID failed: %v", err)
	}

	if first.Title != second.Title || first.VideoURL != second.VideoURL || first.Author != second.Author {
		t.Errorf("results differ:\n%+v\n%+v", first, second)
	}
}
