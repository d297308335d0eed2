// Package publisher writes the per-symbol documents served to the charting front end.
package publisher

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"PeriodStats/internal/model"
)

// JSONPublisher writes one <SYMBOL>.json document per instrument into Dir.
type JSONPublisher struct {
	Dir string
}

// NewJSONPublisher creates a publisher writing into dir.
func NewJSONPublisher(dir string) *JSONPublisher {
	return &JSONPublisher{Dir: dir}
}

// Path returns the document path of symbol.
func (p *JSONPublisher) Path(symbol string) string {
	return filepath.Join(p.Dir, strings.ToUpper(symbol)+".json")
}

// Publish writes the document of symbol. The file is replaced atomically so
// readers never observe a partial document.
func (p *JSONPublisher) Publish(symbol string, data *model.SymbolData) error {
	if err := os.MkdirAll(p.Dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	body, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", symbol, err)
	}

	tmp, err := os.CreateTemp(p.Dir, "."+symbol+"-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(body); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", symbol, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", symbol, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", symbol, err)
	}
	return os.Rename(tmp.Name(), p.Path(symbol))
}

// Load reads a previously published document.
func (p *JSONPublisher) Load(symbol string) (*model.SymbolData, error) {
	body, err := os.ReadFile(p.Path(symbol))
	if err != nil {
		return nil, err
	}
	var data model.SymbolData
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("decode %s: %w", symbol, err)
	}
	return &data, nil
}
