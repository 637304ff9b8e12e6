// Package json_util 提供面板返回的无固定 schema JSON 的读取辅助函数。
//
// 不同版本的面板对同一字段使用不同的 key，这里统一使用 "按顺序取第一个存在的 key" 的策略。
package json_util

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Decode 解码任意 JSON，数字保留为 json.Number，避免 id 被转成浮点数
func Decode(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("unexpected data after top-level JSON value")
	}
	return v, nil
}

// FirstOf 按 keys 顺序返回第一个存在且不为 null 的值
func FirstOf(m map[string]any, keys ...string) (any, bool) {
	for _, key := range keys {
		if v, ok := m[key]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// Stringify 把 JSON 值转为字符串，用于 id 等字段的比较和展示
func Stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(b)
	}
}

// Int64 尝试把 JSON 值转为整数
func Int64(v any) (int64, bool) {
	switch val := v.(type) {
	case json.Number:
		if n, err := val.Int64(); err == nil {
			return n, true
		}
		if f, err := val.Float64(); err == nil {
			return int64(f), true
		}
	case float64:
		return int64(val), true
	case int:
		return int64(val), true
	case int64:
		return val, true
	case string:
		if n, err := strconv.ParseInt(val, 10, 64); err == nil {
			return n, true
		}
	}
	return 0, false
}

// Bool 尝试把 JSON 值转为布尔
func Bool(v any) (bool, bool) {
	switch val := v.(type) {
	case bool:
		return val, true
	case string:
		if b, err := strconv.ParseBool(val); err == nil {
			return b, true
		}
	case json.Number:
		if n, err := val.Int64(); err == nil {
			return n != 0, true
		}
	}
	return false, false
}

// Objects 把 JSON 数组中的对象元素取出，非对象元素被忽略
func Objects(v any) ([]map[string]any, bool) {
	arr, ok := v.([]any)
	if !ok {
		return nil, false
	}
	out := make([]map[string]any, 0, len(arr))
	for _, item := range arr {
		if obj, ok := item.(map[string]any); ok {
			out = append(out, obj)
		}
	}
	return out, true
}
