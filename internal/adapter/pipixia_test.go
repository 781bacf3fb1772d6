package adapter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DogTwoChen/parse-video/internal/models"
	"github.com/DogTwoChen/parse-video/internal/utils"
)

const pipixiaDetailBody = `{
  "data": {
    "data": {
      "item": {
        "share": {"title": "皮皮虾测试视频"},
        "author": {
          "name": "皮皮虾作者",
          "avatar": {"download_list": [{"url": "https://p3.ppxcdn.com/avatar.webp"}]}
        },
        "video": {
          "video_download": {"url_list": [{"url": "https://v.ppxcdn.com/play.mp4"}]},
          "cover_image": {"download_list": [{"url": "https://p3.ppxcdn.com/cover.webp"}]}
        }
      }
    }
  }
}`

const pipixiaEmptyBody = `{
  "data": {
    "data": {
      "item": {
        "share": {"title": "已下架"},
        "video": {"video_download": {"url_list": []}}
      }
    }
  }
}`

func newPiPiXiaFixture(t *testing.T, body string) (*PiPiXia, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/s/abc":
			http.Redirect(w, r, "https://h5.pipix.com/item/7012345678901234567", http.StatusFound)
		case "/bds/cell/detail/":
			if r.URL.Query().Get("cell_id") == "" {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, body)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)

	a := NewPiPiXia(testFetchClient())
	a.apiBase = srv.URL
	return a, srv
}

func TestPiPiXiaResolve(t *testing.T) {
	a, srv := newPiPiXiaFixture(t, pipixiaDetailBody)

	video, err := a.Resolve(context.Background(), srv.URL+"/s/abc")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if video.Source != models.SourcePiPiXia {
		t.Errorf("Source = %q", video.Source)
	}
	if video.Title != "皮皮虾测试视频" {
		t.Errorf("Title = %q", video.Title)
	}
	if video.VideoURL != "https://v.ppxcdn.com/play.mp4" {
		t.Errorf("VideoURL = %q", video.VideoURL)
	}
	if video.CoverURL != "https://p3.ppxcdn.com/cover.webp" {
		t.Errorf("CoverURL = %q", video.CoverURL)
	}
	if video.Author.Name != "皮皮虾作者" || video.Author.AvatarURL != "https://p3.ppxcdn.com/avatar.webp" {
		t.Errorf("Author = %+v", video.Author)
	}
}

func TestPiPiXiaResolveEmptyMediaList(t *testing.T) {
	a, _ := newPiPiXiaFixture(t, pipixiaEmptyBody)

	// 接口正常返回但媒体列表为空
	_, err := a.Resolve(context.Background(), "999")
	if !errors.Is(err, utils.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestPiPiXiaResolveMalformedPayload(t *testing.T) {
	a, _ := newPiPiXiaFixture(t, "<html>不是JSON</html>")

	_, err := a.Resolve(context.Background(), "999")
	if !errors.Is(err, utils.ErrUpstreamFormat) {
		t.Errorf("err = %v, want ErrUpstreamFormat", err)
	}
}

func TestPiPiXiaMatches(t *testing.T) {
	a := NewPiPiXia(testFetchClient())

	if !a.Matches("https://h5.pipix.com/s/abc/") {
		t.Error("short link should match")
	}
	if !a.Matches("https://h5.pipix.com/item/7012345678901234567") {
		t.Error("item link should match")
	}
	if a.Matches("https://v.douyin.com/abc") {
		t.Error("douyin link should not match")
	}
}
