package panel

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/Phechr2025/Bio-Shop-VPN-information/config"
	"github.com/Phechr2025/Bio-Shop-VPN-information/logger"
	"github.com/Phechr2025/Bio-Shop-VPN-information/util/common"
	"github.com/Phechr2025/Bio-Shop-VPN-information/util/json_util"
)

// InboundPaths 依次尝试的 inbounds 列表接口，新旧版本面板路径不同
var InboundPaths = []string{
	"/panel/api/inbounds",
	"/xui/inbound/list",
	"/panel/api/inbounds/list",
}

// APIClient 封装带 Cookie 的面板会话，每次查询新建一个
type APIClient struct {
	http     *http.Client
	baseURL  string
	username string
	password string
}

// NewClient 创建新的面板客户端
func NewClient(baseURL, username, password string, timeout time.Duration) (*APIClient, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = config.DefaultHTTPTimeout
	}
	return &APIClient{
		http: &http.Client{
			Jar:     jar,
			Timeout: timeout,
		},
		baseURL:  strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		username: username,
		password: password,
	}, nil
}

// BaseURL 返回去掉末尾 / 之后的面板地址
func (c *APIClient) BaseURL() string {
	return c.baseURL
}

// Login 执行登录，成功后 Cookie 保存在会话中
func (c *APIClient) Login(ctx context.Context) error {
	data := url.Values{}
	data.Set("username", c.username)
	data.Set("password", c.password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/login", strings.NewReader(data.Encode()))
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrAuthFailure, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrAuthFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("%w: %w", common.ErrAuthFailure, &common.HTTPStatusError{URL: c.baseURL + "/login", StatusCode: resp.StatusCode})
	}

	return c.checkLoginResponse(resp)
}

// checkLoginResponse 3x-ui 登录失败时仍返回 200，需要看 success 字段
func (c *APIClient) checkLoginResponse(resp *http.Response) error {
	body, err := io.ReadAll(io.LimitReader(resp.Body, config.MaxResponseBodySize))
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrAuthFailure, err)
	}
	v, err := json_util.Decode(body)
	if err != nil {
		// 非 JSON 的登录页（旧版本面板直接重定向），按状态码判断
		return nil
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	raw, present := obj["success"]
	if !present {
		return nil
	}
	if success, ok := json_util.Bool(raw); ok && !success {
		msg := json_util.Stringify(obj["msg"])
		if msg == "" {
			msg = "rejected by panel"
		}
		return fmt.Errorf("%w: %s", common.ErrAuthFailure, msg)
	}
	return nil
}

// FetchInbounds 按 InboundPaths 顺序获取 inbounds，第一个返回 200 且能解析的接口胜出
func (c *APIClient) FetchInbounds(ctx context.Context) ([]Inbound, error) {
	var lastErr error
	for _, path := range InboundPaths {
		inbounds, ok, err := c.tryInbounds(ctx, c.baseURL+path)
		if err != nil {
			logger.Debugf("inbounds candidate %s failed: %v", path, err)
			lastErr = err
			continue
		}
		if ok {
			return inbounds, nil
		}
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, common.ErrNoUsableAPI
}

// tryInbounds 非 200 返回 ok=false 且不记为错误
func (c *APIClient) tryInbounds(ctx context.Context, target string) ([]Inbound, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %w", common.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, config.MaxResponseBodySize))
		return nil, false, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, config.MaxResponseBodySize))
	if err != nil {
		return nil, false, fmt.Errorf("%w: %w", common.ErrTransport, err)
	}
	data, err := json_util.Decode(body)
	if err != nil {
		return nil, false, fmt.Errorf("decode %s: %w", target, err)
	}
	if obj, ok := data.(map[string]any); ok {
		if inner, ok := obj["obj"]; ok {
			data = inner
		}
	}
	inbounds, err := toInbounds(data)
	if err != nil {
		return nil, false, fmt.Errorf("decode %s: %w", target, err)
	}
	return inbounds, true, nil
}

func toInbounds(data any) ([]Inbound, error) {
	if data == nil {
		return []Inbound{}, nil
	}
	arr, ok := data.([]any)
	if !ok {
		return nil, fmt.Errorf("inbounds is %T, not a list", data)
	}
	inbounds := make([]Inbound, 0, len(arr))
	for _, item := range arr {
		if obj, ok := item.(map[string]any); ok {
			inbounds = append(inbounds, Inbound(obj))
		}
	}
	return inbounds, nil
}
