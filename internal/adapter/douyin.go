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
	douyinHostPattern    = regexp.MustCompile(`https?://([\w-]+\.)?(douyin\.com|iesdouyin\.com)/`)
	douyinItemIDPattern  = regexp.MustCompile(`/(?:video|note)/(\d+)`)
	douyinAwemeIDPattern = regexp.MustCompile(`(?i)(?:aweme_id=|item_id=)(\d+)`)
	douyinBareIDPattern  = regexp.MustCompile(`^\d+$`)
)

// DouYin 抖音适配器
//
// 短链 v.douyin.com 先展开拿到 item id,再抓分享页,
// 载荷内嵌在 window._ROUTER_DATA 中。
type DouYin struct {
	client    *fetch.Client
	shareBase string
}

// NewDouYin 创建抖音适配器
func NewDouYin(client *fetch.Client) *DouYin {
	return &DouYin{
		client:    client,
		shareBase: "https://www.iesdouyin.com",
	}
}

func (a *DouYin) Source() models.VideoSource {
	return models.SourceDouYin
}

func (a *DouYin) Matches(rawText string) bool {
	return douyinHostPattern.MatchString(rawText)
}

// douyinRouterData 分享页 _ROUTER_DATA 载荷,只取需要的字段
// loaderData 的key形如 "video_(id)/page" 或 "note_(id)/page"
type douyinRouterData struct {
	LoaderData map[string]struct {
		VideoInfoRes struct {
			ItemList []douyinItem `json:"item_list"`
		} `json:"videoInfoRes"`
	} `json:"loaderData"`
}

type douyinItem struct {
	Desc   string `json:"desc"`
	Author struct {
		Nickname    string        `json:"nickname"`
		AvatarThumb douyinURLList `json:"avatar_thumb"`
	} `json:"author"`
	Music struct {
		PlayURL douyinURLList `json:"play_url"`
	} `json:"music"`
	Video struct {
		PlayAddr douyinURLList `json:"play_addr"`
		Cover    douyinURLList `json:"cover"`
	} `json:"video"`
	Images []douyinURLList `json:"images"`
}

type douyinURLList struct {
	URLList []string `json:"url_list"`
}

// Resolve 解析抖音视频或图集
func (a *DouYin) Resolve(ctx context.Context, identifier string) (*models.ResolvedVideo, error) {
	itemID, err := a.itemID(ctx, identifier)
	if err != nil {
		return nil, err
	}

	shareURL := fmt.Sprintf("%s/share/video/%s/", a.shareBase, itemID)
	html, _, err := a.client.Text(ctx, shareURL, nil)
	if err != nil {
		return nil, err
	}

	payload, err := extractScriptJSON(html, "window._ROUTER_DATA")
	if err != nil {
		return nil, err
	}

	var data douyinRouterData
	if err := decodeScriptJSON(payload, &data); err != nil {
		return nil, err
	}
	if len(data.LoaderData) == 0 {
		return nil, fmt.Errorf("empty loaderData for item %s: %w", itemID, utils.ErrUpstreamFormat)
	}

	var item *douyinItem
	for _, page := range data.LoaderData {
		if len(page.VideoInfoRes.ItemList) > 0 {
			item = &page.VideoInfoRes.ItemList[0]
			break
		}
	}
	if item == nil {
		// 页面结构正常但条目为空,帖子已删除或仅作者可见
		return nil, fmt.Errorf("item %s has no content: %w", itemID, utils.ErrNotFound)
	}

	result := &models.ResolvedVideo{
		Source: models.SourceDouYin,
		Title:  utils.SanitizeString(item.Desc),
		Author: models.Author{
			Name:      utils.SanitizeString(item.Author.Nickname),
			AvatarURL: first(item.Author.AvatarThumb.URLList),
		},
		CoverURL: first(item.Video.Cover.URLList),
		MusicURL: first(item.Music.PlayURL.URLList),
	}

	for _, image := range item.Images {
		if u := first(image.URLList); u != "" {
			result.Images = append(result.Images, u)
		}
	}

	// 图集帖子的 play_addr 指向幻灯片视频,按原帖类型只保留图片
	if len(result.Images) == 0 {
		if playAddr := first(item.Video.PlayAddr.URLList); playAddr != "" {
			// 去水印: 分享页给出的是带水印的 playwm 地址
			result.VideoURL = strings.Replace(playAddr, "playwm", "play", 1)
		}
	}

	return result, nil
}

// itemID 从分享链接或裸ID中提取视频ID,短链需要展开一次
func (a *DouYin) itemID(ctx context.Context, identifier string) (string, error) {
	if douyinBareIDPattern.MatchString(identifier) {
		return identifier, nil
	}
	if m := douyinItemIDPattern.FindStringSubmatch(identifier); len(m) == 2 {
		return m[1], nil
	}

	location, err := a.client.Location(ctx, identifier, nil)
	if err != nil {
		return "", err
	}
	if m := douyinItemIDPattern.FindStringSubmatch(location); len(m) == 2 {
		return m[1], nil
	}
	if m := douyinAwemeIDPattern.FindStringSubmatch(location); len(m) == 2 {
		return m[1], nil
	}
	return "", fmt.Errorf("no item id in redirect target: %w", utils.ErrUpstreamFormat)
}

// first 返回url列表的首个元素,空列表返回空串
func first(list []string) string {
	if len(list) == 0 {
		return ""
	}
	return list[0]
}
