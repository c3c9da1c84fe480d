package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ByLCY/quire/money"
	"github.com/ByLCY/quire/pricing"
	"github.com/ByLCY/quire/proposal"
)

const sampleRequest = `{
  "client": "Laboratório Alfa",
  "title": "Proposta Comercial: Fornecimento de Mão de Obra Especializada",
  "validity": "30 dias",
  "executiveSummary": "**Objetivo**\nAtender a operação com equipe dedicada.",
  "commercialText": "- Alocação imediata\n- Substituição em até 48h",
  "benefit": 600,
  "margin": 0.2,
  "regime": "simples",
  "roles": [{"name": "Analista", "salary": 3500, "quantity": 3}]
}`

func TestPlan(t *testing.T) {
	req := request{Roles: []pricing.Role{{Name: "Analista", Salary: 1000, Quantity: 1}}, Margin: 0.2}
	jobs, err := plan(req, "all")
	if err != nil || len(jobs) != 2 {
		t.Fatalf("all 应生成两份方案: %d, %v", len(jobs), err)
	}
	if jobs[0].name != "proposta_comercial" || jobs[1].doc.Meta.Title != proposal.TechnicalHeading {
		t.Fatalf("方案列表异常: %+v", jobs)
	}
	if _, err := money.ParseBRL(jobs[0].doc.Meta.Amount); err != nil {
		t.Fatalf("未提供金额时应使用报价总价: %q", jobs[0].doc.Meta.Amount)
	}

	if _, err := plan(request{}, "technical"); !errors.Is(err, pricing.ErrNoRoles) {
		t.Fatalf("无岗位的技术方案应返回 ErrNoRoles，实际 %v", err)
	}
	if _, err := plan(req, "budget"); err == nil {
		t.Fatalf("未知方案类型应返回错误")
	}
	req.Regime = "presumido"
	if _, err := plan(req, "all"); err == nil {
		t.Fatalf("未知税制应返回错误")
	}
}

func TestRunWritesPDFs(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "proposta.json")
	if err := os.WriteFile(in, []byte(sampleRequest), 0o644); err != nil {
		t.Fatalf("写入输入失败: %v", err)
	}
	for _, backend := range []string{"fpdf", "canvas"} {
		core, logs := observer.New(zap.InfoLevel)
		out := filepath.Join(dir, backend)
		opts := options{
			input:   in,
			outDir:  out,
			backend: backend,
			kind:    "all",
			debug:   true,
			logger:  zap.New(core),
			baseDir: dir,
			stdout:  os.Stdout,
		}
		if err := run(opts); err != nil {
			t.Fatalf("%s: 生成失败: %v", backend, err)
		}
		for _, name := range []string{"proposta_comercial.pdf", "proposta_tecnica.pdf", "proposta_tecnica.layout.json"} {
			data, err := os.ReadFile(filepath.Join(out, name))
			if err != nil || len(data) == 0 {
				t.Fatalf("%s: 缺少输出 %s: %v", backend, name, err)
			}
			if filepath.Ext(name) == ".pdf" && !bytes.HasPrefix(data, []byte("%PDF")) {
				t.Fatalf("%s: %s 不是 PDF", backend, name)
			}
		}
		done := logs.FilterMessage("已生成 PDF").All()
		if len(done) != 2 {
			t.Fatalf("%s: 每份方案应记录一条生成日志，实际 %d", backend, len(done))
		}
		if fields := done[0].ContextMap(); fields["renderer"] != backend || fields["pages"] == nil {
			t.Fatalf("%s: 生成日志字段异常: %v", backend, fields)
		}
	}

	if err := run(options{input: in, outDir: dir, backend: "svg", kind: "all"}); err == nil {
		t.Fatalf("未知渲染后端应返回错误")
	}
}
