// Package report turns pipeline datasets into the CSV and JSON files
// under the output directory.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/crowdwisdom/marketscan/internal/model"
)

// Output file names, fixed so downstream consumers can rely on them.
const (
	RawDataFile       = "raw_data.json"
	UnifiedDataFile   = "unified_data.json"
	ProductsFile      = "final_products.csv"
	ComprehensiveFile = "final_products_comprehensive.csv"
	SimpleFile        = "final_products_simple.csv"
	AnalysisFile      = "analysis_reports.json"
	SummaryFile       = "summary_statistics.csv"
)

// Writer emits all report files into a single output directory.
type Writer struct {
	dir    string
	logger *slog.Logger
}

// NewWriter creates a Writer rooted at dir.
func NewWriter(dir string, logger *slog.Logger) *Writer {
	if dir == "" {
		dir = "outputs"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{dir: dir, logger: logger}
}

// Dir returns the output directory.
func (w *Writer) Dir() string { return w.dir }

// WriteRaw writes the collection-stage snapshot to raw_data.json.
func (w *Writer) WriteRaw(ds *model.RawDataset) error {
	return w.writeJSON(RawDataFile, ds)
}

// WriteUnified writes the matching-stage output to unified_data.json.
func (w *Writer) WriteUnified(ds *model.UnifiedDataset) error {
	return w.writeJSON(UnifiedDataFile, ds)
}

// WriteProducts writes every product report: both CSV shapes, the
// final_products.csv alias of the simple shape, the analysis JSON, and
// the flattened summary statistics.
func (w *Writer) WriteProducts(ds *model.UnifiedDataset) (AnalysisReports, error) {
	rows := BuildComprehensiveRows(ds)
	simple := BuildSimpleRows(rows)
	reports := BuildAnalysisReports(rows)

	records := [][]string{comprehensiveHeader}
	for _, r := range rows {
		records = append(records, r.record())
	}
	if err := w.writeCSV(ComprehensiveFile, records); err != nil {
		return reports, err
	}

	simpleRecords := [][]string{simpleHeader}
	for _, s := range simple {
		simpleRecords = append(simpleRecords, s.record())
	}
	if err := w.writeCSV(SimpleFile, simpleRecords); err != nil {
		return reports, err
	}
	if err := w.writeCSV(ProductsFile, simpleRecords); err != nil {
		return reports, err
	}

	if err := w.writeJSON(AnalysisFile, reports); err != nil {
		return reports, err
	}
	if err := w.writeCSV(SummaryFile, SummaryRows(reports)); err != nil {
		return reports, err
	}

	w.logger.Info("reports written",
		"dir", w.dir,
		"products", reports.TotalProducts,
		"arbitrage", reports.ArbitrageOpportunities)
	return reports, nil
}

func (w *Writer) writeJSON(name string, v any) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	path := filepath.Join(w.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}

	w.logger.Debug("wrote report file", "path", path, "bytes", len(data))
	return nil
}

func (w *Writer) writeCSV(name string, records [][]string) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	path := filepath.Join(w.dir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", name, err)
	}

	w.logger.Debug("wrote report file", "path", path, "rows", len(records)-1)
	return nil
}
