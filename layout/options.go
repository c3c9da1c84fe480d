package layout

// BuildOptions 配置布局阶段所需的依赖。Config、Styles、Chrome 为 nil 时使用默认值。
type BuildOptions struct {
	Measurer Measurer
	Config   *Config
	Styles   *StyleRegistry
	Chrome   *Chrome
	Debug    DebugOptions
}

// DebugOptions 控制调试相关输出。
type DebugOptions struct {
	Path   string // 非空时将布局结果写入该 JSON 文件
	Indent bool   // 输出带缩进的 JSON
}
