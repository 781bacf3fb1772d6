package adapter

import (
	"context"

	"github.com/DogTwoChen/parse-video/internal/models"
)

// Adapter 平台适配器接口
//
// Matches 必须是针对已知域名/路径形态的廉价文本判断;
// Resolve 负责短链展开、内嵌载荷提取与去水印改写。
// 提取失败必须返回明确错误,不允许返回字段全空的结果。
type Adapter interface {
	// Source 适配器对应的平台标签
	Source() models.VideoSource

	// Matches 判断原始分享文本是否属于该平台
	Matches(rawText string) bool

	// Resolve 将分享链接或平台ID解析为标准化结果
	Resolve(ctx context.Context, identifier string) (*models.ResolvedVideo, error)
}
