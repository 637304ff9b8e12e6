package panel

import "github.com/Phechr2025/Bio-Shop-VPN-information/util/json_util"

// FindClient 按顺序在 inbounds 中查找 id 等于 clientID 的客户端。
// 返回第一个匹配的客户端、所在的 inbound，以及该 inbound 统计列表中 id 相同的条目（可能为 nil）。
func FindClient(inbounds []Inbound, clientID any) (Client, Inbound, TrafficStat, bool) {
	target := json_util.Stringify(clientID)
	for _, inbound := range inbounds {
		clients := inbound.Clients()
		if len(clients) == 0 {
			continue
		}
		for _, client := range clients {
			if client.ID() != target {
				continue
			}
			var stat TrafficStat
			for _, s := range inbound.Stats() {
				if s.ID() == target {
					stat = s
					break
				}
			}
			return client, inbound, stat, true
		}
	}
	return nil, nil, nil, false
}
