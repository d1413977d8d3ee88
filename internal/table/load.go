package table

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
)

// LoadOptions controls how a file is read into a Table.
type LoadOptions struct {
	// Delimiter for CSV. If 0, '\t' for .tsv files and ',' otherwise.
	Delimiter rune
	// Encoding of CSV input, e.g. "gbk" or "latin1". Empty means UTF-8.
	Encoding string
	// Sheet selects an XLSX sheet by name. Empty means the first sheet.
	Sheet  string
	Logger log.Logger
}

func (o LoadOptions) logger() log.Logger {
	if o.Logger == nil {
		return log.NewNopLogger()
	}
	return o.Logger
}

// Loader reads one file format into a Table.
type Loader interface {
	CanLoad(path string) bool
	Load(path string, opt LoadOptions) (*Table, error)
}

var registry []Loader

// Register adds a loader implementation to the registry.
func Register(l Loader) {
	registry = append(registry, l)
}

// LoadFile selects a loader by file name and reads the file.
// Files no loader claims are read as CSV.
func LoadFile(path string, opt LoadOptions) (*Table, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("stat input: %w", err)
	}
	var l Loader = csvLoader{}
	for _, cand := range registry {
		if cand.CanLoad(path) {
			l = cand
			break
		}
	}
	t, err := l.Load(path, opt)
	if err != nil {
		return nil, err
	}
	level.Debug(opt.logger()).Log("msg", "loaded table", "file", filepath.Base(path), "rows", t.Rows(), "cols", t.Cols())
	return t, nil
}

func init() {
	Register(xlsxLoader{})
	Register(csvLoader{})
}
