package service

import (
	"strconv"
)

// 管理端的创建/更新入参是字段表: 只动出现的字段，没出现的保持原值。
// JSON 过来数字是 float64，表单过来全是字符串，这里统一收敛。

func strField(data map[string]interface{}, key string) (string, bool) {
	v, ok := data[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func intField(data map[string]interface{}, key string) (int64, bool, error) {
	v, ok := data[key]
	if !ok {
		return 0, false, nil
	}
	switch n := v.(type) {
	case float64:
		return int64(n), true, nil
	case int:
		return int64(n), true, nil
	case int64:
		return n, true, nil
	case string:
		if n == "" {
			return 0, false, nil
		}
		parsed, err := strconv.ParseInt(n, 10, 64)
		if err != nil {
			return 0, true, Invalidf("field %s must be a number", key)
		}
		return parsed, true, nil
	default:
		return 0, true, Invalidf("field %s must be a number", key)
	}
}

func boolField(data map[string]interface{}, key string) (bool, bool, error) {
	v, ok := data[key]
	if !ok {
		return false, false, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, true, Invalidf("field %s must be a boolean", key)
	}
	return b, true, nil
}

func requireFields(data map[string]interface{}, fields ...string) error {
	for _, f := range fields {
		if _, ok := data[f]; !ok {
			return Invalidf("field %s is required", f)
		}
	}
	return nil
}
