// Package report 营收周报聚合引擎
package report

import "strings"

// channelAliases 渠道别名到标准渠道的映射
var channelAliases = map[string]string{
	"携程":    "携程",
	"携程EBK": "携程",
	"美团":    "美团",
	"美团EBK": "美团",
	"飞猪":    "飞猪",
	"飞猪信用住": "飞猪",
	"抖音来客":  "抖音来客",
	"抖音":    "抖音来客",
	"其他":    "抖音来客",
	"散客":    "散客",
	"门店":    "散客",
}

// NormalizeChannel 标准化渠道名称，未知渠道原样返回（去除首尾空白）
func NormalizeChannel(raw string) string {
	name := strings.TrimSpace(raw)
	if canonical, ok := channelAliases[name]; ok {
		return canonical
	}
	return name
}

// NormalizeChannels 标准化并去重，保持首次出现的顺序
func NormalizeChannels(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		name := NormalizeChannel(r)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}
