package sub

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/Phechr2025/Bio-Shop-VPN-information/config"
	"github.com/Phechr2025/Bio-Shop-VPN-information/util/common"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// 订阅页面上的字段标签，按页面展示顺序
const (
	LabelSubscriptionID = "Subscription ID"
	LabelStatus         = "Status"
	LabelDownloaded     = "Downloaded"
	LabelUploaded       = "Uploaded"
	LabelUsage          = "Usage"
	LabelTotalQuota     = "Total quota"
	LabelLastOnline     = "Last Online"
	LabelExpiry         = "Expiry"
)

var Labels = []string{
	LabelSubscriptionID,
	LabelStatus,
	LabelDownloaded,
	LabelUploaded,
	LabelUsage,
	LabelTotalQuota,
	LabelLastOnline,
	LabelExpiry,
}

var configURIPattern = regexp.MustCompile(`(vmess|vless|trojan|ss)://[^\s"'<>]+`)

type Field struct {
	Label string
	Value string
}

// ParsedSubscription 从订阅页面中提取出的信息。
// QRCodeSrc 是第一个 <img> 的 src 原文，QRCode 是可直接展示的地址（相对地址按页面地址补全）。
type ParsedSubscription struct {
	URL       string
	QRCodeSrc string
	QRCode    string
	Fields    []Field
	Configs   []string
}

// Get 返回指定标签的值，没有时返回空字符串
func (p *ParsedSubscription) Get(label string) string {
	for _, f := range p.Fields {
		if f.Label == label {
			return f.Value
		}
	}
	return ""
}

// Scraper 抓取并解析 3x-ui 的订阅信息页面
type Scraper struct {
	http *http.Client
}

func NewScraper(timeout time.Duration) *Scraper {
	if timeout <= 0 {
		timeout = config.DefaultHTTPTimeout
	}
	return &Scraper{
		http: &http.Client{Timeout: timeout},
	}
}

// PageURL 拼接 <base>/<subID>
func PageURL(baseURL, subID string) string {
	return strings.TrimRight(strings.TrimSpace(baseURL), "/") + "/" + url.PathEscape(subID)
}

// FetchAndParse 请求订阅页面并解析
func (s *Scraper) FetchAndParse(ctx context.Context, baseURL, subID string) (*ParsedSubscription, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, common.ErrConfigMissing
	}
	target := PageURL(baseURL, subID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrTransport, err)
	}
	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &common.HTTPStatusError{URL: target, StatusCode: resp.StatusCode}
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, config.MaxResponseBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrTransport, err)
	}

	parsed, err := ParseSubscriptionPage(string(body))
	if err != nil {
		return nil, err
	}
	parsed.URL = target
	parsed.QRCode = resolveReference(target, parsed.QRCodeSrc)
	return parsed, nil
}

// ParseSubscriptionPage 解析订阅页面。
// 字段值的定位是尽力而为：标签在表格单元格中时取下一个单元格，否则取其后第一个非空文本。
func ParseSubscriptionPage(page string) (*ParsedSubscription, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return nil, err
	}

	src := doc.Find("img").First().AttrOr("src", "")
	parsed := &ParsedSubscription{
		QRCodeSrc: src,
		QRCode:    src,
		Fields:    make([]Field, 0, len(Labels)),
		Configs:   configURIPattern.FindAllString(page, -1),
	}

	var texts []*html.Node
	for _, root := range doc.Nodes {
		texts = collectTextNodes(root, texts)
	}
	for _, label := range Labels {
		parsed.Fields = append(parsed.Fields, Field{Label: label, Value: findLabelValue(texts, label)})
	}
	return parsed, nil
}

// resolveReference 把页面中的相对图片地址转换为绝对地址
func resolveReference(pageURL, ref string) string {
	if ref == "" || strings.HasPrefix(ref, "data:") {
		return ref
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return ref
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(u).String()
}

func collectTextNodes(n *html.Node, out []*html.Node) []*html.Node {
	if n.Type == html.TextNode {
		out = append(out, n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = collectTextNodes(c, out)
	}
	return out
}

func findLabelValue(texts []*html.Node, label string) string {
	for i, node := range texts {
		if !strings.Contains(node.Data, label) {
			continue
		}
		if isCell(node.Parent) {
			for sib := node.Parent.NextSibling; sib != nil; sib = sib.NextSibling {
				if isCell(sib) {
					return nodeText(sib)
				}
			}
			return ""
		}
		for _, next := range texts[i+1:] {
			if v := strings.TrimSpace(next.Data); v != "" {
				return v
			}
		}
		return ""
	}
	return ""
}

func isCell(n *html.Node) bool {
	return n != nil && n.Type == html.ElementNode && (n.DataAtom == atom.Td || n.DataAtom == atom.Th)
}

// nodeText 拼接节点下所有非空文本，去掉首尾空白后以空格连接
func nodeText(n *html.Node) string {
	var parts []string
	for _, t := range collectTextNodes(n, nil) {
		if v := strings.TrimSpace(t.Data); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, " ")
}
