package layout

import (
	"encoding/json"
	"os"
)

// MarshalResult 将布局结果编码为 JSON。相同输入的 Build 结果编码后逐字节相同。
func MarshalResult(res *Result, indent bool) ([]byte, error) {
	if indent {
		return json.MarshalIndent(res, "", "  ")
	}
	return json.Marshal(res)
}

// WriteDebugJSON 将布局结果输出为 JSON，便于调试或可视化。
func WriteDebugJSON(res *Result, path string, indent bool) error {
	if res == nil {
		return nil
	}
	data, err := MarshalResult(res, indent)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
