package adapter

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/DogTwoChen/parse-video/internal/utils"
)

// extractScriptJSON 从服务端渲染的HTML中取出内嵌在<script>里的JSON载荷
//
// marker 形如 "window._ROUTER_DATA",返回 marker 之后第一个 '=' 到脚本
// 结尾的文本。找不到视为上游页面结构变更。
func extractScriptJSON(html, marker string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parse html failed: %w: %v", utils.ErrUpstreamFormat, err)
	}

	var payload string
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := s.Text()
		idx := strings.Index(text, marker)
		if idx < 0 {
			return true
		}
		rest := text[idx+len(marker):]
		eq := strings.Index(rest, "=")
		if eq < 0 {
			return true
		}
		payload = strings.TrimSpace(rest[eq+1:])
		return false
	})

	if payload == "" {
		return "", fmt.Errorf("script payload %q not found: %w", marker, utils.ErrUpstreamFormat)
	}
	return payload, nil
}

// decodeScriptJSON 解码脚本载荷的第一个JSON值,容忍尾部的分号和内联代码
func decodeScriptJSON(payload string, v any) error {
	if err := json.NewDecoder(strings.NewReader(payload)).Decode(v); err != nil {
		return fmt.Errorf("decode script payload failed: %w: %v", utils.ErrUpstreamFormat, err)
	}
	return nil
}
