package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/DogTwoChen/parse-video/internal/fetch"
	"github.com/DogTwoChen/parse-video/internal/models"
	"github.com/DogTwoChen/parse-video/internal/utils"
)

var (
	kuaishouHostPattern    = regexp.MustCompile(`https?://([\w-]+\.)?(kuaishou\.com|gifshow\.com|chenzhongtech\.com)/`)
	kuaishouPhotoIDPattern = regexp.MustCompile(`/short-video/([\w-]+)`)
	kuaishouBareIDPattern  = regexp.MustCompile(`^[\w-]+$`)
)

// KuaiShou 快手适配器
//
// 详情页要求请求携带 did cookie,否则跳转到验证页;
// 每次解析使用独立会话,保证重定向链与页面抓取共享cookie。
type KuaiShou struct {
	client  *fetch.Client
	webBase string
}

// NewKuaiShou 创建快手适配器
func NewKuaiShou(client *fetch.Client) *KuaiShou {
	return &KuaiShou{
		client:  client,
		webBase: "https://www.kuaishou.com",
	}
}

func (a *KuaiShou) Source() models.VideoSource {
	return models.SourceKuaiShou
}

func (a *KuaiShou) Matches(rawText string) bool {
	return kuaishouHostPattern.MatchString(rawText)
}

// kuaishouApolloState 详情页 __APOLLO_STATE__ 载荷
// defaultClient 是 "类型:ID" 到实体的扁平映射
type kuaishouApolloState struct {
	DefaultClient map[string]json.RawMessage `json:"defaultClient"`
}

type kuaishouPhoto struct {
	Caption  string `json:"caption"`
	CoverURL string `json:"coverUrl"`
	PhotoURL string `json:"photoUrl"`
}

type kuaishouAuthor struct {
	Name    string `json:"name"`
	HeadURL string `json:"headerUrl"`
}

// Resolve 解析快手视频
func (a *KuaiShou) Resolve(ctx context.Context, identifier string) (*models.ResolvedVideo, error) {
	session := a.client.Session()
	headers := map[string]string{
		"User-Agent": fetch.MobileUserAgent,
		"Cookie":     "did=web_" + strings.ReplaceAll(uuid.NewString(), "-", ""),
	}

	pageURL := identifier
	if kuaishouBareIDPattern.MatchString(identifier) {
		pageURL = a.webBase + "/short-video/" + identifier
	}

	html, finalURL, err := session.Text(ctx, pageURL, headers)
	if err != nil {
		return nil, err
	}

	photoID := ""
	if m := kuaishouPhotoIDPattern.FindStringSubmatch(finalURL); len(m) == 2 {
		photoID = m[1]
	} else if kuaishouBareIDPattern.MatchString(identifier) {
		photoID = identifier
	}
	if photoID == "" {
		return nil, fmt.Errorf("no photo id in redirect target: %w", utils.ErrUpstreamFormat)
	}

	payload, err := extractScriptJSON(html, "window.__APOLLO_STATE__")
	if err != nil {
		return nil, err
	}

	var state kuaishouApolloState
	if err := decodeScriptJSON(payload, &state); err != nil {
		return nil, err
	}
	if len(state.DefaultClient) == 0 {
		return nil, fmt.Errorf("empty apollo state for photo %s: %w", photoID, utils.ErrUpstreamFormat)
	}

	raw, ok := state.DefaultClient["VisionVideoDetailPhoto:"+photoID]
	if !ok {
		// 状态树正常但没有该photo实体,视频已删除或不可见
		return nil, fmt.Errorf("photo %s not in page state: %w", photoID, utils.ErrNotFound)
	}

	var photo kuaishouPhoto
	if err := json.Unmarshal(raw, &photo); err != nil {
		return nil, fmt.Errorf("decode photo entity failed: %w: %v", utils.ErrUpstreamFormat, err)
	}
	if photo.PhotoURL == "" {
		return nil, fmt.Errorf("photo %s has no play url: %w", photoID, utils.ErrNotFound)
	}

	result := &models.ResolvedVideo{
		Source:   models.SourceKuaiShou,
		Title:    utils.SanitizeString(photo.Caption),
		CoverURL: photo.CoverURL,
		VideoURL: photo.PhotoURL,
	}

	// 作者实体的key带作者ID,按前缀扫描
	for key, value := range state.DefaultClient {
		if !strings.HasPrefix(key, "VisionVideoDetailAuthor:") {
			continue
		}
		var author kuaishouAuthor
		if err := json.Unmarshal(value, &author); err == nil {
			result.Author = models.Author{
				Name:      utils.SanitizeString(author.Name),
				AvatarURL: author.HeadURL,
			}
		}
		break
	}

	return result, nil
}
