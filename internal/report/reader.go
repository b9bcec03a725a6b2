package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/crowdwisdom/marketscan/internal/model"
)

// ReadUnified loads a previously written unified_data.json, letting the
// chat knowledge base rebuild without re-running the pipeline.
func ReadUnified(dir string) (*model.UnifiedDataset, error) {
	path := filepath.Join(dir, UnifiedDataFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var ds model.UnifiedDataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return &ds, nil
}
