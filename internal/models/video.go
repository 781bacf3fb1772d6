package models

// VideoSource 视频来源平台标签
type VideoSource string

const (
	SourceDouYin      VideoSource = "douyin"
	SourceKuaiShou    VideoSource = "kuaishou"
	SourceXiaoHongShu VideoSource = "xiaohongshu"
	SourcePiPiXia     VideoSource = "pipixia"

	// SourceUnknown 未识别平台的哨兵值
	SourceUnknown VideoSource = ""
)

// ParseVideoSource 解析来源标签,未知标签返回false
func ParseVideoSource(s string) (VideoSource, bool) {
	switch VideoSource(s) {
	case SourceDouYin, SourceKuaiShou, SourceXiaoHongShu, SourcePiPiXia:
		return VideoSource(s), true
	default:
		return SourceUnknown, false
	}
}

// Author 视频作者信息
type Author struct {
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

// ResolvedVideo 标准化解析结果
//
// 约定: VideoURL 与 Images 正常情况下只会有一个非空;
// 两者都为空表示平台不支持的帖子类型。
type ResolvedVideo struct {
	Source   VideoSource `json:"source"`
	Title    string      `json:"title"`
	Author   Author      `json:"author"`
	CoverURL string      `json:"cover_url"`
	VideoURL string      `json:"video_url"`
	MusicURL string      `json:"music_url,omitempty"`
	Images   []string    `json:"images"`
}
