package output

import (
	"io"
	"os"
	"strings"
	"testing"

	"github.com/rickyyue315/Kilo-ShoptoShop-Transfer/internal/engine"
	"github.com/rickyyue315/Kilo-ShoptoShop-Transfer/internal/stats"
)

func sampleLine() engine.TransferLine {
	return engine.TransferLine{
		Article:            "A001",
		Description:        "Lip Balm",
		Group:              "OM1",
		TransferSite:       "S1",
		TransferQty:        10,
		OriginalStock:      16,
		AfterTransferStock: 6,
		SafetyStock:        2,
		MOQ:                1,
		ReceiveSite:        "S2",
		ReceiveTargetQty:   10,
		TransferType:       engine.TransferND,
		Notes:              "ND clearance",
	}
}

func TestLineValues(t *testing.T) {
	values := LineValues(sampleLine())
	if len(values) != len(CsvHeader) {
		t.Fatalf("LineValues() has %d cells, header has %d", len(values), len(CsvHeader))
	}

	want := []string{"A001", "Lip Balm", "OM1", "S1", "10", "16", "6", "2", "1", "S2", "10", "ND clearance"}
	for i, v := range want {
		if values[i] != v {
			t.Errorf("values[%d] = %q, expected %q (column %s)", i, values[i], v, CsvHeader[i])
		}
	}
}

func TestCsvString(t *testing.T) {
	doc := CsvString([]engine.TransferLine{sampleLine()})

	lines := strings.Split(strings.TrimRight(doc, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("CsvString() produced %d lines, expected header plus one row:\n%s", len(lines), doc)
	}
	if !strings.HasPrefix(lines[0], "Article,Product Description,OM,") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.Contains(lines[0], "Transfer Site After-Transfer Stock") {
		t.Errorf("header missing after-transfer column: %q", lines[0])
	}
	if lines[1] != "A001,Lip Balm,OM1,S1,10,16,6,2,1,S2,10,ND clearance" {
		t.Errorf("row = %q", lines[1])
	}
}

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to open pipe: %v", err)
	}
	os.Stdout = w
	fn()
	_ = w.Close()
	os.Stdout = old

	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("failed to read captured output: %v", err)
	}
	return string(data)
}

// separatorColumns returns the byte offsets of every column separator.
func separatorColumns(row string) []int {
	var cols []int
	for i, r := range row {
		if r == '|' {
			cols = append(cols, i)
		}
	}
	return cols
}

func TestPrettyFormatTableAlignment(t *testing.T) {
	result := &engine.Result{
		Mode:  engine.ModeConservative,
		Lines: []engine.TransferLine{sampleLine()},
	}
	summary := stats.Calculate(nil, result.Lines)

	out := captureStdout(t, func() {
		PrettyFormat(result, summary)
	})

	lines := strings.Split(out, "\n")
	headerIdx := -1
	for i, line := range lines {
		if strings.HasPrefix(line, "Article") {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 || headerIdx+2 >= len(lines) {
		t.Fatalf("table header not found in output:\n%s", out)
	}

	header := separatorColumns(lines[headerIdx])
	rule := separatorColumns(lines[headerIdx+1])
	data := separatorColumns(lines[headerIdx+2])
	if len(header) != 3 || len(rule) != 3 || len(data) != 3 {
		t.Fatalf("separator counts header/rule/data = %d/%d/%d, expected 3 each:\n%s",
			len(header), len(rule), len(data), out)
	}
	for i := range header {
		if rule[i] != header[i] {
			t.Errorf("rule separator %d at column %d, header at %d:\n%q\n%q",
				i, rule[i], header[i], lines[headerIdx+1], lines[headerIdx])
		}
		if data[i] != header[i] {
			t.Errorf("data separator %d at column %d, header at %d:\n%q\n%q",
				i, data[i], header[i], lines[headerIdx+2], lines[headerIdx])
		}
	}
}

func TestCsvStringEmpty(t *testing.T) {
	doc := CsvString(nil)
	if !strings.HasPrefix(doc, "Article,") || strings.Count(doc, "\n") != 1 {
		t.Errorf("CsvString(nil) = %q, expected header only", doc)
	}
}
