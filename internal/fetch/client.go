package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"

	"github.com/DogTwoChen/parse-video/internal/config"
	"github.com/DogTwoChen/parse-video/internal/utils"
)

const (
	// DefaultUserAgent 通用桌面浏览器UA,上游平台对无UA请求普遍拒绝
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36"

	// MobileUserAgent 移动端UA,部分平台只对移动端返回可解析的分享页
	MobileUserAgent = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1"

	// maxRedirects 重定向跟随上限,防止跳转环
	maxRedirects = 10
)

// Client 出站抓取客户端
//
// 所有适配器共用一个进程级连接池;重定向跟随有界;
// 不记录响应体(可能包含cookie等敏感内容)。
type Client struct {
	http       *http.Client
	noRedirect *http.Client
	userAgent  string
}

// NewClient 创建抓取客户端
func NewClient(cfg *config.FetchConfig) *Client {
	transport := &http.Transport{}

	ua := cfg.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}

	return &Client{
		http: &http.Client{
			Transport: transport,
			Timeout:   cfg.GetTimeout(),
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("stopped after %d redirects: %w", maxRedirects, utils.ErrNetwork)
				}
				return nil
			},
		},
		noRedirect: &http.Client{
			Transport: transport,
			Timeout:   cfg.GetTimeout(),
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		userAgent: ua,
	}
}

// Session 派生带独立cookie jar的客户端,共享连接池
//
// 个别平台要求同一次解析内的多个请求携带一致的会话cookie,
// 适配器按需使用,默认客户端无状态。
func (c *Client) Session() *Client {
	jar, _ := cookiejar.New(nil)

	httpCopy := *c.http
	httpCopy.Jar = jar
	noRedirectCopy := *c.noRedirect
	noRedirectCopy.Jar = jar

	return &Client{
		http:       &httpCopy,
		noRedirect: &noRedirectCopy,
		userAgent:  c.userAgent,
	}
}

// Do 发起请求,跟随重定向,调用方负责关闭响应体
//
// 非2xx状态码在本层不视为错误,代理转发依赖原样传递。
func (c *Client) Do(ctx context.Context, method, rawURL string, headers map[string]string, body io.Reader) (*http.Response, error) {
	if !utils.IsValidURL(rawURL) {
		return nil, fmt.Errorf("%w: %q", utils.ErrInvalidInput, rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrInvalidInput, err)
	}

	for key, value := range headers {
		req.Header.Set(key, value)
	}
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s failed: %w: %v", req.URL.Host, utils.ErrNetwork, err)
	}
	return resp, nil
}

// Get 发起GET请求
func (c *Client) Get(ctx context.Context, rawURL string, headers map[string]string) (*http.Response, error) {
	return c.Do(ctx, http.MethodGet, rawURL, headers, nil)
}

// Location 请求短链并返回30x的Location头,不跟随跳转
func (c *Client) Location(ctx context.Context, rawURL string, headers map[string]string) (string, error) {
	if !utils.IsValidURL(rawURL) {
		return "", fmt.Errorf("%w: %q", utils.ErrInvalidInput, rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", utils.ErrInvalidInput, err)
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.noRedirect.Do(req)
	if err != nil {
		return "", fmt.Errorf("request %s failed: %w: %v", req.URL.Host, utils.ErrNetwork, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	location := resp.Header.Get("Location")
	if location == "" {
		return "", fmt.Errorf("expected redirect from %s, got status %d: %w", req.URL.Host, resp.StatusCode, utils.ErrUpstreamFormat)
	}
	return location, nil
}

// Text 发起GET请求并完整读取响应体
func (c *Client) Text(ctx context.Context, rawURL string, headers map[string]string) (string, string, error) {
	resp, err := c.Get(ctx, rawURL, headers)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	finalURL := resp.Request.URL.String()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", finalURL, fmt.Errorf("upstream returned 404: %w", utils.ErrNotFound)
	case resp.StatusCode >= 400:
		return "", finalURL, fmt.Errorf("upstream returned status %d: %w", resp.StatusCode, utils.ErrNetwork)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", finalURL, fmt.Errorf("read body failed: %w: %v", utils.ErrNetwork, err)
	}
	return string(data), finalURL, nil
}

// JSON 发起GET请求并解码JSON响应
func (c *Client) JSON(ctx context.Context, rawURL string, headers map[string]string, v any) error {
	body, _, err := c.Text(ctx, rawURL, headers)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(body), v); err != nil {
		return fmt.Errorf("decode json failed: %w: %v", utils.ErrUpstreamFormat, err)
	}
	return nil
}
