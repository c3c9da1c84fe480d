package renderer

import "github.com/ByLCY/quire/layout"

// Renderer 将布局结果输出为最终文件，例如 PDF。
// 页面的绘制指令已经过两遍排版，实现只需按顺序执行，不得再做折行或分页。
type Renderer interface {
	Render(result *layout.Result) ([]byte, error)
}

// Backend 同时提供文本测量与输出：布局阶段用它测量，渲染阶段用同一套字体度量绘制。
type Backend interface {
	Renderer
	layout.Measurer
}
