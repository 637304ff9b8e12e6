// Package sub 处理订阅相关的外部请求：拉取订阅内容提取节点链接、生成订阅地址、抓取订阅页面。
package sub

import (
	"bufio"
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/Phechr2025/Bio-Shop-VPN-information/config"
	"github.com/Phechr2025/Bio-Shop-VPN-information/logger"
	"github.com/Phechr2025/Bio-Shop-VPN-information/util/common"
)

var configLinePattern = regexp.MustCompile(`(?i)^(vmess|vless|trojan|ss)://`)

// Fetcher 拉取订阅地址的内容
type Fetcher struct {
	http *http.Client
}

func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = config.DefaultHTTPTimeout
	}
	return &Fetcher{
		http: &http.Client{Timeout: timeout},
	}
}

// Fetch 请求订阅地址，返回原始内容和其中的节点链接。
// 请求失败或状态码非 2xx 时返回 (subURL, nil)，不视为错误。
func (f *Fetcher) Fetch(ctx context.Context, subURL string) (string, []string) {
	body, err := f.get(ctx, subURL)
	if err != nil {
		logger.Warningf("fetch subscription %s failed: %v", subURL, err)
		return subURL, nil
	}

	links := ExtractConfigLinks(body)
	if len(links) == 0 {
		// 3x-ui 的订阅默认整体 base64 编码
		if decoded, ok := decodeBase64Body(body); ok {
			links = ExtractConfigLinks(decoded)
		}
	}
	return body, links
}

func (f *Fetcher) get(ctx context.Context, target string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", err
	}
	resp, err := f.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &common.HTTPStatusError{URL: target, StatusCode: resp.StatusCode}
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, config.MaxResponseBodySize))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ExtractConfigLinks 逐行过滤出 vmess/vless/trojan/ss 链接，保持原顺序
func ExtractConfigLinks(text string) []string {
	var links []string
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), config.MaxResponseBodySize)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if configLinePattern.MatchString(line) {
			links = append(links, line)
		}
	}
	return links
}

// decodeBase64Body 订阅内容整体是 base64 时返回解码后的文本
func decodeBase64Body(body string) (string, bool) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\r', '\t', ' ':
			return -1
		default:
			return r
		}
	}, strings.TrimSpace(body))
	if cleaned == "" {
		return "", false
	}
	for _, enc := range []*base64.Encoding{base64.StdEncoding, base64.RawStdEncoding, base64.URLEncoding, base64.RawURLEncoding} {
		if b, err := enc.DecodeString(cleaned); err == nil {
			return string(b), true
		}
	}
	return "", false
}
