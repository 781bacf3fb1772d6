package utils

import (
	"errors"
)

var (
	// 输入相关错误
	ErrInvalidInput      = errors.New("invalid input: no url found")
	ErrUnsupportedSource = errors.New("unsupported video source")

	// 上游相关错误
	ErrNotFound       = errors.New("video not found")
	ErrUpstreamFormat = errors.New("unrecognized upstream payload")
	ErrNetwork        = errors.New("network error")

	// 缓存相关错误
	ErrCacheMiss = errors.New("cache miss")
)

// ErrorKind 错误分类标签,用于日志和响应映射
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrUnsupportedSource):
		return "unsupported_source"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrUpstreamFormat):
		return "upstream_format"
	case errors.Is(err, ErrNetwork):
		return "network"
	default:
		return "internal"
	}
}
