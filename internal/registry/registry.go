package registry

import (
	"fmt"

	"github.com/DogTwoChen/parse-video/internal/adapter"
	"github.com/DogTwoChen/parse-video/internal/fetch"
	"github.com/DogTwoChen/parse-video/internal/models"
	"github.com/DogTwoChen/parse-video/internal/utils"
)

// Registry 来源注册表
//
// 启动时构建一次,之后只读,可被并发查找。
// 文本匹配按注册顺序线性扫描,先注册者优先,
// 保证歧义链接在多次运行间落到同一个适配器。
type Registry struct {
	ordered  []adapter.Adapter
	bySource map[models.VideoSource]adapter.Adapter
}

// New 按给定顺序构建注册表,重复的来源标签视为装配错误
func New(adapters ...adapter.Adapter) (*Registry, error) {
	bySource := make(map[models.VideoSource]adapter.Adapter, len(adapters))
	for _, a := range adapters {
		if a == nil {
			return nil, fmt.Errorf("nil adapter")
		}
		source := a.Source()
		if source == models.SourceUnknown {
			return nil, fmt.Errorf("adapter with empty source tag")
		}
		if _, ok := bySource[source]; ok {
			return nil, fmt.Errorf("duplicate adapter for source %q", source)
		}
		bySource[source] = a
	}
	return &Registry{
		ordered:  adapters,
		bySource: bySource,
	}, nil
}

// Default 构建内置适配器的注册表,顺序固定
func Default(client *fetch.Client) (*Registry, error) {
	return New(
		adapter.NewDouYin(client),
		adapter.NewKuaiShou(client),
		adapter.NewXiaoHongShu(client),
		adapter.NewPiPiXia(client),
	)
}

// BySource 按来源标签直接查找适配器
func (r *Registry) BySource(source models.VideoSource) (adapter.Adapter, bool) {
	a, ok := r.bySource[source]
	return a, ok
}

// Match 按原始文本查找第一个匹配的适配器
func (r *Registry) Match(rawText string) (adapter.Adapter, error) {
	for _, a := range r.ordered {
		if a.Matches(rawText) {
			return a, nil
		}
	}
	return nil, fmt.Errorf("no adapter matches %q: %w", rawText, utils.ErrUnsupportedSource)
}

// Sources 返回已注册的来源标签,按注册顺序
func (r *Registry) Sources() []models.VideoSource {
	sources := make([]models.VideoSource, 0, len(r.ordered))
	for _, a := range r.ordered {
		sources = append(sources, a.Source())
	}
	return sources
}
