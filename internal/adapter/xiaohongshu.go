package adapter

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/DogTwoChen/parse-video/internal/fetch"
	"github.com/DogTwoChen/parse-video/internal/models"
	"github.com/DogTwoChen/parse-video/internal/utils"
)

var (
	xhsHostPattern   = regexp.MustCompile(`https?://([\w-]+\.)?(xiaohongshu\.com|xhslink\.com)/`)
	xhsNoteIDPattern = regexp.MustCompile(`/(?:explore|discovery/item)/([0-9a-fA-F]+)`)
	xhsBareIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)
)

// XiaoHongShu 小红书适配器
//
// 笔记分视频和图文两种类型,图文帖产出 Images 列表。
// 载荷内嵌在 window.__INITIAL_STATE__ 中,含字面量 undefined,
// 解码前替换为 null。
type XiaoHongShu struct {
	client  *fetch.Client
	webBase string
}

// NewXiaoHongShu 创建小红书适配器
func NewXiaoHongShu(client *fetch.Client) *XiaoHongShu {
	return &XiaoHongShu{
		client:  client,
		webBase: "https://www.xiaohongshu.com",
	}
}

func (a *XiaoHongShu) Source() models.VideoSource {
	return models.SourceXiaoHongShu
}

func (a *XiaoHongShu) Matches(rawText string) bool {
	return xhsHostPattern.MatchString(rawText)
}

// xhsInitialState 笔记页 __INITIAL_STATE__ 载荷,只取需要的字段
type xhsInitialState struct {
	Note struct {
		NoteDetailMap map[string]struct {
			Note xhsNote `json:"note"`
		} `json:"noteDetailMap"`
	} `json:"note"`
}

type xhsNote struct {
	Type  string `json:"type"`
	Title string `json:"title"`
	Desc  string `json:"desc"`
	User  struct {
		Nickname string `json:"nickname"`
		Avatar   string `json:"avatar"`
	} `json:"user"`
	Video struct {
		Media struct {
			Stream struct {
				H264 []struct {
					MasterURL string `json:"masterUrl"`
				} `json:"h264"`
			} `json:"stream"`
		} `json:"media"`
	} `json:"video"`
	ImageList []struct {
		URLDefault string `json:"urlDefault"`
	} `json:"imageList"`
}

// Resolve 解析小红书笔记
func (a *XiaoHongShu) Resolve(ctx context.Context, identifier string) (*models.ResolvedVideo, error) {
	pageURL := identifier
	if xhsBareIDPattern.MatchString(identifier) {
		pageURL = a.webBase + "/explore/" + identifier
	}

	// 短链 xhslink.com 由重定向跟随自动展开
	html, finalURL, err := a.client.Text(ctx, pageURL, nil)
	if err != nil {
		return nil, err
	}

	noteID := ""
	if m := xhsNoteIDPattern.FindStringSubmatch(finalURL); len(m) == 2 {
		noteID = m[1]
	} else if xhsBareIDPattern.MatchString(identifier) {
		noteID = identifier
	}
	if noteID == "" {
		return nil, fmt.Errorf("no note id in redirect target: %w", utils.ErrUpstreamFormat)
	}

	payload, err := extractScriptJSON(html, "window.__INITIAL_STATE__")
	if err != nil {
		return nil, err
	}
	// 页面状态里缺省字段输出为字面量undefined,不是合法JSON
	payload = strings.ReplaceAll(payload, "undefined", "null")

	var state xhsInitialState
	if err := decodeScriptJSON(payload, &state); err != nil {
		return nil, err
	}
	if len(state.Note.NoteDetailMap) == 0 {
		return nil, fmt.Errorf("empty noteDetailMap for note %s: %w", noteID, utils.ErrUpstreamFormat)
	}

	detail, ok := state.Note.NoteDetailMap[noteID]
	if !ok {
		// 状态树正常但没有该笔记,已删除或仅作者可见
		return nil, fmt.Errorf("note %s not in page state: %w", noteID, utils.ErrNotFound)
	}
	note := detail.Note

	title := utils.SanitizeString(note.Title)
	if title == "" {
		title = utils.SanitizeString(note.Desc)
	}

	result := &models.ResolvedVideo{
		Source: models.SourceXiaoHongShu,
		Title:  title,
		Author: models.Author{
			Name:      utils.SanitizeString(note.User.Nickname),
			AvatarURL: note.User.Avatar,
		},
	}

	switch note.Type {
	case "video":
		if len(note.Video.Media.Stream.H264) == 0 {
			return nil, fmt.Errorf("video note %s has no h264 stream: %w", noteID, utils.ErrUpstreamFormat)
		}
		result.VideoURL = note.Video.Media.Stream.H264[0].MasterURL
		if len(note.ImageList) > 0 {
			result.CoverURL = note.ImageList[0].URLDefault
		}
	case "normal":
		for _, image := range note.ImageList {
			if image.URLDefault != "" {
				result.Images = append(result.Images, image.URLDefault)
			}
		}
		if len(result.Images) == 0 {
			return nil, fmt.Errorf("image note %s has no images: %w", noteID, utils.ErrNotFound)
		}
		result.CoverURL = result.Images[0]
	default:
		return nil, fmt.Errorf("unknown note type %q: %w", note.Type, utils.ErrUpstreamFormat)
	}

	return result, nil
}
