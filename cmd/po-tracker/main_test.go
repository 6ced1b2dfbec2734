package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/po-tracker/internal/export"
)

const orderText = "Nomenclature\nABC-123 USA NOS 10 25.50 Bracket Assembly\nDEF-456\nTotal:-\nAmount"

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--db", "sqlite::memory:", "--log-level", "error"}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeScan(t *testing.T, dir, name, text string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestExtractCommand(t *testing.T) {
	path := writeScan(t, t.TempDir(), "PO-5.txt", orderText)

	out, err := run(t, "extract", path)
	if err != nil {
		t.Fatalf("extract error = %v", err)
	}
	var doc export.Document
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if doc.PONumber != "PO-5" || len(doc.Items) != 2 {
		t.Errorf("doc = %+v", doc)
	}

	out, err = run(t, "extract", path, "--po", "4471/2024")
	if err != nil || !strings.Contains(out, `"po_number": "4471/2024"`) {
		t.Errorf("extract --po = %q, %v", out, err)
	}

	out, err = run(t, "extract", path, "--text")
	if err != nil || !strings.Contains(out, "Bracket Assembly") {
		t.Errorf("extract --text = %q, %v", out, err)
	}
}

func TestExtractCommandRules(t *testing.T) {
	dir := t.TempDir()
	path := writeScan(t, dir, "PO-5.txt", orderText)
	rules := writeScan(t, dir, "rules.yaml", "drop_bare_records: true\n")

	out, err := run(t, "--rules", rules, "extract", path)
	if err != nil {
		t.Fatalf("extract error = %v", err)
	}
	var doc export.Document
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatal(err)
	}
	if len(doc.Items) != 1 || doc.Items[0].CartPartNo != "ABC-123" {
		t.Errorf("items = %+v", doc.Items)
	}

	bad := writeScan(t, dir, "bad.yaml", "start_anchor: \"(\"\n")
	if _, err := run(t, "--rules", bad, "extract", path); err == nil {
		t.Error("invalid rules: want error")
	}
}

func TestBatchCommand(t *testing.T) {
	dir := t.TempDir()
	scans := filepath.Join(dir, "scans")
	if err := os.Mkdir(scans, 0o755); err != nil {
		t.Fatal(err)
	}
	writeScan(t, scans, "PO-1.txt", orderText)
	writeScan(t, scans, "PO-2.txt", strings.Replace(orderText, "ABC-123", "XYZ-999", 1))
	writeScan(t, scans, "readme.md", "ignored")
	out := filepath.Join(dir, "orders.xlsx")

	stdout, err := run(t, "batch", "--dir", scans, "--out", out, "--workers", "2")
	if err != nil {
		t.Fatalf("batch error = %v", err)
	}
	if !strings.Contains(stdout, "wrote 2 purchase orders") {
		t.Errorf("stdout = %q", stdout)
	}

	f, err := excelize.OpenFile(out)
	if err != nil {
		t.Fatalf("OpenFile() error = %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows("Orders")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 || rows[1][0] != "PO-1" || rows[2][0] != "PO-2" {
		t.Errorf("orders sheet = %v", rows)
	}

	if _, err := run(t, "batch"); err == nil {
		t.Error("batch without --dir: want error")
	}
}

func TestDBHealthAndVersion(t *testing.T) {
	out, err := run(t, "dbhealth")
	if err != nil || !strings.Contains(out, "DB health: OK") || !strings.Contains(out, "purchase orders: 0") {
		t.Errorf("dbhealth = %q, %v", out, err)
	}
	out, err = run(t, "version")
	if err != nil || !strings.Contains(out, "po-tracker") {
		t.Errorf("version = %q, %v", out, err)
	}
}

func TestExportCommandValidation(t *testing.T) {
	if _, err := run(t, "export", "--format", "csv"); err == nil {
		t.Error("csv: want error")
	}
	if _, err := run(t, "export", "--format", "json"); err == nil {
		t.Error("json without --po: want error")
	}
	if _, err := run(t, "export", "--format", "json", "--po", "missing"); err == nil {
		t.Error("json for unknown order: want error")
	}
}
