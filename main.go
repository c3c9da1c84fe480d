package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/ByLCY/quire/content"
	"github.com/ByLCY/quire/layout"
	"github.com/ByLCY/quire/money"
	"github.com/ByLCY/quire/pricing"
	"github.com/ByLCY/quire/proposal"
	"github.com/ByLCY/quire/renderer"
	canvasrenderer "github.com/ByLCY/quire/renderer/canvas"
	fpdfrenderer "github.com/ByLCY/quire/renderer/fpdf"
	"github.com/ByLCY/quire/renderer/preview"
)

const defaultPreviewWidth = 80

// request 是 CLI 读取的方案 JSON。
type request struct {
	proposal.Input
	Benefit float64        `json:"benefit"`
	Margin  float64        `json:"margin"`
	Regime  string         `json:"regime"`
	Roles   []pricing.Role `json:"roles"`
}

type options struct {
	input   string
	profile string
	outDir  string
	backend string
	kind    string
	debug   bool
	indent  bool
	preview bool
	width   int
	verbose bool
	logger  *zap.Logger
	baseDir string
	stdout  *os.File
}

func main() {
	opts := options{stdout: os.Stdout}
	flags := pflag.NewFlagSet("quire", pflag.ExitOnError)
	flags.StringVarP(&opts.input, "in", "i", "", "方案 JSON 文件路径")
	flags.StringVarP(&opts.profile, "profile", "p", "", "版式配置文件路径（可选）")
	flags.StringVarP(&opts.outDir, "out-dir", "o", "output", "PDF 输出目录")
	flags.StringVarP(&opts.backend, "renderer", "r", "canvas", "渲染后端: canvas|fpdf")
	flags.StringVarP(&opts.kind, "kind", "k", "all", "生成的方案: commercial|technical|all")
	flags.BoolVar(&opts.debug, "debug", false, "同时输出布局调试 JSON")
	flags.BoolVar(&opts.indent, "debug-indent", false, "调试 JSON 使用缩进")
	flags.BoolVar(&opts.preview, "preview", false, "在终端输出预览")
	flags.IntVarP(&opts.width, "width", "w", 0, "预览宽度（0 表示使用终端宽度）")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "输出各阶段的调试日志")
	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: quire --in proposal.json [flags]\n\nFlags:\n")
		flags.PrintDefaults()
	}
	if err := flags.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}
	if opts.input == "" {
		flags.Usage()
		os.Exit(2)
	}
	opts.baseDir = filepath.Dir(opts.input)

	logger, err := newLogger(opts.verbose)
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer logger.Sync()
	opts.logger = logger

	if err := run(opts); err != nil {
		log.Fatalf("生成 PDF 失败: %v", err)
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	return cfg.Build()
}

// job 是一份待生成的方案。
type job struct {
	name string
	doc  content.Document
}

// run 串联读取、定价、布局与渲染。
func run(opts options) error {
	req, err := loadRequest(opts.input)
	if err != nil {
		return err
	}
	profile := layout.DefaultProfile()
	if opts.profile != "" {
		if profile, err = loadProfile(opts.profile); err != nil {
			return err
		}
	}
	jobs, err := plan(req, opts.kind)
	if err != nil {
		return err
	}
	if opts.logger == nil {
		opts.logger = zap.NewNop()
	}
	opts.logger.Debug("方案已就绪",
		zap.String("input", opts.input),
		zap.String("profile", profile.Name),
		zap.Int("jobs", len(jobs)),
	)

	if opts.preview {
		width := resolveWidth(opts.width)
		plain := !term.IsTerminal(int(opts.stdout.Fd()))
		for _, j := range jobs {
			if err := preview.WriteOptions(opts.stdout, j.doc, preview.Options{Width: width, Plain: plain}); err != nil {
				return fmt.Errorf("输出预览失败: %w", err)
			}
		}
	}

	backend, err := newBackend(opts.backend, opts.baseDir, req.Logo)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}

	var g errgroup.Group
	for _, j := range jobs {
		g.Go(func() error { return generate(opts, profile, backend, j) })
	}
	return g.Wait()
}

func generate(opts options, profile layout.Profile, backend renderer.Backend, j job) error {
	start := time.Now()
	chrome := profile.Chrome
	cfg := profile.Config
	build := layout.BuildOptions{Measurer: backend, Config: &cfg, Styles: profile.Styles, Chrome: &chrome}
	if opts.debug {
		build.Debug = layout.DebugOptions{Path: filepath.Join(opts.outDir, j.name+".layout.json"), Indent: opts.indent}
	}

	result, err := layout.Build(j.doc, build)
	if err != nil {
		return fmt.Errorf("%s: 布局计算失败: %w", j.name, err)
	}
	opts.logger.Debug("布局完成",
		zap.String("name", j.name),
		zap.Int("pages", result.TotalPages()),
		zap.Duration("duration", time.Since(start)),
	)
	pdfBytes, err := backend.Render(result)
	if err != nil {
		return fmt.Errorf("%s: 渲染 PDF 失败: %w", j.name, err)
	}
	out := filepath.Join(opts.outDir, j.name+".pdf")
	if err := os.WriteFile(out, pdfBytes, 0o644); err != nil {
		return fmt.Errorf("写入 PDF 文件失败: %w", err)
	}
	opts.logger.Info("已生成 PDF",
		zap.String("path", out),
		zap.String("renderer", opts.backend),
		zap.Int("pages", result.TotalPages()),
		zap.Int("size", len(pdfBytes)),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}

func loadRequest(path string) (request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return request{}, fmt.Errorf("无法打开方案文件 %s: %w", path, err)
	}
	var req request
	if err := json.Unmarshal(data, &req); err != nil {
		return request{}, fmt.Errorf("解析方案 JSON 失败: %w", err)
	}
	return req, nil
}

func loadProfile(path string) (layout.Profile, error) {
	file, err := os.Open(path)
	if err != nil {
		return layout.Profile{}, fmt.Errorf("无法打开版式配置 %s: %w", path, err)
	}
	defer file.Close()
	p, err := layout.LoadProfile(file)
	if err != nil {
		return layout.Profile{}, fmt.Errorf("解析版式配置失败: %w", err)
	}
	return p, nil
}

// plan 按 kind 生成方案内容。有岗位时先定价；商务方案未给出月度金额时使用报价总价。
func plan(req request, kind string) ([]job, error) {
	commercial, technical := false, false
	switch strings.ToLower(kind) {
	case "commercial":
		commercial = true
	case "technical":
		technical = true
	case "all", "":
		commercial, technical = true, len(req.Roles) > 0
	default:
		return nil, fmt.Errorf("未知的方案类型 %q", kind)
	}

	var (
		quote  pricing.Quote
		priced bool
	)
	if len(req.Roles) > 0 {
		regime, ok := pricing.RegimeByName(req.Regime)
		if !ok {
			if req.Regime != "" {
				return nil, fmt.Errorf("未知的税制 %q", req.Regime)
			}
			regime = pricing.SimplesAnexoIII
		}
		q, err := pricing.Compute(req.Roles, pricing.Params{Benefit: req.Benefit, Margin: req.Margin, Regime: regime})
		if err != nil {
			return nil, fmt.Errorf("定价失败: %w", err)
		}
		quote, priced = q, true
	}
	if technical && !priced {
		return nil, fmt.Errorf("技术方案需要岗位信息: %w", pricing.ErrNoRoles)
	}

	var jobs []job
	if commercial {
		in := req.Input
		if in.MonthlyAmount == "" && priced {
			in.MonthlyAmount = money.FormatBRL(quote.Totals.FinalPrice)
		}
		doc, err := proposal.Commercial(in)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job{name: "proposta_comercial", doc: doc})
	}
	if technical {
		doc := proposal.Technical(quote, req.Input.Meta())
		jobs = append(jobs, job{name: "proposta_tecnica", doc: doc})
	}
	return jobs, nil
}

// newBackend 创建渲染后端；logo 为相对 baseDir 的图片路径，同时作为图片引用名。
func newBackend(name, baseDir, logo string) (renderer.Backend, error) {
	switch name {
	case "canvas", "":
		opts := canvasrenderer.Options{BaseDir: baseDir}
		if logo != "" {
			opts.Images = map[string]canvasrenderer.Resource{logo: {Path: logo}}
		}
		return canvasrenderer.NewRendererWithOptions(opts), nil
	case "fpdf":
		opts := fpdfrenderer.Options{}
		if logo != "" {
			path := logo
			if !filepath.IsAbs(path) {
				path = filepath.Join(baseDir, path)
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("读取 logo 失败: %w", err)
			}
			opts.Images = map[string][]byte{logo: data}
		}
		return fpdfrenderer.NewRenderer(opts), nil
	}
	return nil, fmt.Errorf("未知的渲染后端 %q", name)
}

func resolveWidth(width int) int {
	if width > 0 {
		return width
	}
	fd := int(os.Stdout.Fd())
	if term.IsTerminal(fd) {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			return w
		}
	}
	return defaultPreviewWidth
}
