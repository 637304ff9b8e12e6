// Package panel 访问 3x-ui 风格面板的 JSON API 并在 inbounds 中查找客户端。
//
// 面板不同版本的字段名不一致，所以 Inbound / Client / TrafficStat 都保留为原始的
// map[string]any，通过访问器按顺序尝试多个 key。
package panel

import (
	"github.com/Phechr2025/Bio-Shop-VPN-information/util/json_util"
)

var (
	totalKeys   = []string{"totalGB", "total", "total_gb"}
	expiryKeys  = []string{"expiryTime", "expiry", "expiry_time"}
	limitIPKeys = []string{"limitIp", "ipLimit", "limit_ip"}
	statsKeys   = []string{"clientStats", "clientstats"}
)

// Inbound 面板返回的一个入站对象
type Inbound map[string]any

func (in Inbound) Protocol() string {
	return json_util.Stringify(in["protocol"])
}

func (in Inbound) Remark() string {
	return json_util.Stringify(in["remark"])
}

func (in Inbound) Listen() string {
	return json_util.Stringify(in["listen"])
}

func (in Inbound) Port() string {
	return json_util.Stringify(in["port"])
}

// Clients 先读直接的 clients 字段，没有时再解析 settings（JSON 字符串或已解码的对象）
func (in Inbound) Clients() []Client {
	if raw, ok := in["clients"]; ok && raw != nil {
		return toClients(raw)
	}

	var settings map[string]any
	switch s := in["settings"].(type) {
	case string:
		if s == "" {
			return nil
		}
		v, err := json_util.Decode([]byte(s))
		if err != nil {
			return nil
		}
		settings, _ = v.(map[string]any)
	case map[string]any:
		settings = s
	}
	if settings == nil {
		return nil
	}
	return toClients(settings["clients"])
}

// Stats 返回 clientStats（或 clientstats）中的流量统计，空列表视为缺失，继续看下一个 key
func (in Inbound) Stats() []TrafficStat {
	for _, key := range statsKeys {
		objs, _ := json_util.Objects(in[key])
		if len(objs) == 0 {
			continue
		}
		stats := make([]TrafficStat, 0, len(objs))
		for _, obj := range objs {
			stats = append(stats, TrafficStat(obj))
		}
		return stats
	}
	return nil
}

func toClients(raw any) []Client {
	objs, _ := json_util.Objects(raw)
	if len(objs) == 0 {
		return nil
	}
	clients := make([]Client, 0, len(objs))
	for _, obj := range objs {
		clients = append(clients, Client(obj))
	}
	return clients
}

// Client 入站中的一个客户端
type Client map[string]any

func (c Client) ID() string {
	return json_util.Stringify(c["id"])
}

func (c Client) Email() string {
	return json_util.Stringify(c["email"])
}

func (c Client) Flow() string {
	return json_util.Stringify(c["flow"])
}

// Enable 字段缺失时返回 ok=false
func (c Client) Enable() (enable bool, ok bool) {
	return json_util.Bool(c["enable"])
}

// TotalGB 总流量配额，原样返回以便展示
func (c Client) TotalGB() any {
	v, _ := json_util.FirstOf(c, totalKeys...)
	return v
}

// ExpiryTime 到期时间，3x-ui 中是毫秒时间戳
func (c Client) ExpiryTime() any {
	v, _ := json_util.FirstOf(c, expiryKeys...)
	return v
}

func (c Client) LimitIP() any {
	v, _ := json_util.FirstOf(c, limitIPKeys...)
	return v
}

// TrafficStat 单个客户端的流量统计
type TrafficStat map[string]any

func (s TrafficStat) ID() string {
	return json_util.Stringify(s["id"])
}

func (s TrafficStat) Up() int64 {
	n, _ := json_util.Int64(s["up"])
	return n
}

func (s TrafficStat) Down() int64 {
	n, _ := json_util.Int64(s["down"])
	return n
}

func (s TrafficStat) Total() int64 {
	n, _ := json_util.Int64(s["total"])
	return n
}
