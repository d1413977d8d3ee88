package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-kit/kit/log/level"
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/edaloom-cli/internal/project"
	"github.com/KaramelBytes/edaloom-cli/internal/table"
	"github.com/KaramelBytes/edaloom-cli/internal/utils"
)

// loadFlags are the input flags shared by every command that reads a dataset.
type loadFlags struct {
	sheet     string
	delimiter string
	encoding  string
}

func (l *loadFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&l.sheet, "sheet", "", "XLSX: sheet name (default first sheet)")
	cmd.Flags().StringVar(&l.delimiter, "delimiter", "", "CSV delimiter: ',' | ';' | '|' | 'tab' (default by extension)")
	cmd.Flags().StringVar(&l.encoding, "encoding", "", "input text encoding: utf-8 | gbk | gb18030 | latin1 | windows-1252 (default from config)")
}

func (l *loadFlags) options() (table.LoadOptions, error) {
	opt := table.LoadOptions{Sheet: l.sheet, Encoding: l.encoding, Logger: logger}
	if opt.Encoding == "" {
		opt.Encoding = settings().InputEncoding
	}
	switch l.delimiter {
	case "":
	case ",":
		opt.Delimiter = ','
	case ";":
		opt.Delimiter = ';'
	case "|":
		opt.Delimiter = '|'
	case "\t", "tab":
		opt.Delimiter = '\t'
	default:
		return opt, fmt.Errorf("unsupported --delimiter: %s", l.delimiter)
	}
	return opt, nil
}

func (l *loadFlags) load(path string) (*table.Table, error) {
	opt, err := l.options()
	if err != nil {
		return nil, err
	}
	return table.LoadFile(path, opt)
}

// subjectColumns narrows t to the requested columns, in order. Without a
// request it returns t with the columns picked by fallback.
func subjectColumns(t *table.Table, requested []string, fallback func(*table.Table) []string) (*table.Table, []string, error) {
	if len(requested) == 0 {
		return t, fallback(t), nil
	}
	sub, err := t.Select(requested)
	if err != nil {
		return nil, nil, err
	}
	return sub, sub.Names(), nil
}

// expandInputs resolves globs and literal paths into a sorted, de-duplicated list.
func expandInputs(args []string) ([]string, error) {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			// treat as literal path if exists
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no input files matched")
	}
	sort.Strings(files)
	return files, nil
}

// datasetBase is a file-name-safe stem for outputs derived from a dataset,
// including the sheet name when one was selected.
func datasetBase(path, sheet string) string {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if sheet == "" {
		return stem
	}
	s := strings.ToLower(strings.TrimSpace(sheet))
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else if r == ' ' || r == '-' || r == '_' {
			b.WriteRune('-')
		}
	}
	ss := strings.Trim(b.String(), "-")
	if ss == "" {
		ss = "sheet"
	}
	return stem + "__sheet-" + ss
}

// uniquePath returns dir/base+ext, or the first free dir/base__N+ext.
func uniquePath(dir, base, ext string) string {
	out := filepath.Join(dir, base+ext)
	if _, err := os.Stat(out); err != nil {
		return out
	}
	for idx := 2; ; idx++ {
		cand := filepath.Join(dir, fmt.Sprintf("%s__%d%s", base, idx, ext))
		if _, err := os.Stat(cand); os.IsNotExist(err) {
			return cand
		}
	}
}

// attachArtifact records an already written output in the project and saves it.
func attachArtifact(p *project.Project, kind project.ArtifactKind, path, dataset, desc string) error {
	a, err := p.AddArtifact(kind, path, dataset, desc)
	if err != nil {
		return err
	}
	if err := p.Save(); err != nil {
		return err
	}
	level.Debug(logger).Log("msg", "attached artifact", "project", p.Name, "id", a.ID, "path", path)
	return nil
}

// projectOutputDir creates and returns the project's artifacts directory.
func projectOutputDir(p *project.Project) (string, error) {
	dir := p.ArtifactsDir()
	if err := utils.EnsureDir(dir); err != nil {
		return "", err
	}
	return dir, nil
}
