package adapter

import (
	"context"
	"fmt"
	"regexp"

	"github.com/DogTwoChen/parse-video/internal/fetch"
	"github.com/DogTwoChen/parse-video/internal/models"
	"github.com/DogTwoChen/parse-video/internal/utils"
)

var (
	pipixiaHostPattern   = regexp.MustCompile(`https?://([\w-]+\.)?pipix\.com/`)
	pipixiaItemIDPattern = regexp.MustCompile(`/item/(\d+)`)
	pipixiaBareIDPattern = regexp.MustCompile(`^\d+$`)
)

// PiPiXia 皮皮虾适配器
//
// 无需抓取HTML,拿到 item id 后直接调详情JSON接口。
type PiPiXia struct {
	client  *fetch.Client
	apiBase string
}

// NewPiPiXia 创建皮皮虾适配器
func NewPiPiXia(client *fetch.Client) *PiPiXia {
	return &PiPiXia{
		client:  client,
		apiBase: "https://is.snssdk.com",
	}
}

func (a *PiPiXia) Source() models.VideoSource {
	return models.SourcePiPiXia
}

func (a *PiPiXia) Matches(rawText string) bool {
	return pipixiaHostPattern.MatchString(rawText)
}

// pipixiaDetail 详情接口响应,只取需要的字段
type pipixiaDetail struct {
	Data struct {
		Data struct {
			Item *pipixiaItem `json:"item"`
		} `json:"data"`
	} `json:"data"`
}

type pipixiaItem struct {
	Share struct {
		Title string `json:"title"`
	} `json:"share"`
	Author struct {
		Name   string `json:"name"`
		Avatar struct {
			DownloadList []pipixiaURL `json:"download_list"`
		} `json:"avatar"`
	} `json:"author"`
	Video struct {
		VideoDownload struct {
			URLList []pipixiaURL `json:"url_list"`
		} `json:"video_download"`
		CoverImage struct {
			DownloadList []pipixiaURL `json:"download_list"`
		} `json:"cover_image"`
	} `json:"video"`
}

type pipixiaURL struct {
	URL string `json:"url"`
}

// Resolve 解析皮皮虾视频
func (a *PiPiXia) Resolve(ctx context.Context, identifier string) (*models.ResolvedVideo, error) {
	itemID, err := a.itemID(ctx, identifier)
	if err != nil {
		return nil, err
	}

	apiURL := fmt.Sprintf("%s/bds/cell/detail/?cell_type=1&aid=1319&app_name=super&cell_id=%s", a.apiBase, itemID)

	var detail pipixiaDetail
	if err := a.client.JSON(ctx, apiURL, nil, &detail); err != nil {
		return nil, err
	}

	item := detail.Data.Data.Item
	if item == nil || len(item.Video.VideoDownload.URLList) == 0 {
		// 接口响应正常但媒体列表为空,内容已下架
		return nil, fmt.Errorf("item %s has no media: %w", itemID, utils.ErrNotFound)
	}

	result := &models.ResolvedVideo{
		Source:   models.SourcePiPiXia,
		Title:    utils.SanitizeString(item.Share.Title),
		VideoURL: item.Video.VideoDownload.URLList[0].URL,
		Author: models.Author{
			Name: utils.SanitizeString(item.Author.Name),
		},
	}
	if len(item.Author.Avatar.DownloadList) > 0 {
		result.Author.AvatarURL = item.Author.Avatar.DownloadList[0].URL
	}
	if len(item.Video.CoverImage.DownloadList) > 0 {
		result.CoverURL = item.Video.CoverImage.DownloadList[0].URL
	}

	return result, nil
}

// itemID 从分享链接或裸ID中提取item id,短链需要展开一次
func (a *PiPiXia) itemID(ctx context.Context, identifier string) (string, error) {
	if pipixiaBareIDPattern.MatchString(identifier) {
		return identifier, nil
	}
	if m := pipixiaItemIDPattern.FindStringSubmatch(identifier); len(m) == 2 {
		return m[1], nil
	}

	location, err := a.client.Location(ctx, identifier, nil)
	if err != nil {
		return "", err
	}
	if m := pipixiaItemIDPattern.FindStringSubmatch(location); len(m) == 2 {
		return m[1], nil
	}
	return "", fmt.Errorf("no item id in redirect target: %w", utils.ErrUpstreamFormat)
}
