package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

type csvLoader struct{}

func (csvLoader) CanLoad(path string) bool {
	name := strings.ToLower(path)
	return strings.HasSuffix(name, ".csv") || strings.HasSuffix(name, ".tsv") || strings.HasSuffix(name, ".txt")
}

func (csvLoader) Load(path string, opt LoadOptions) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	if opt.Delimiter == 0 && strings.HasSuffix(strings.ToLower(path), ".tsv") {
		opt.Delimiter = '\t'
	}
	return ReadCSV(f, filepath.Base(path), opt)
}

// ReadCSV reads delimited text with a header row into a Table.
// Ragged rows are padded with missing cells up to the header width.
func ReadCSV(r io.Reader, name string, opt LoadOptions) (*Table, error) {
	dec, err := decoderFor(opt.Encoding)
	if err != nil {
		return nil, err
	}
	cr := csv.NewReader(transform.NewReader(r, dec))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true
	cr.Comma = ','
	if opt.Delimiter != 0 {
		cr.Comma = opt.Delimiter
	}

	var records [][]string
	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", len(records), err)
		}
		records = append(records, rec)
	}
	if len(records) == 0 {
		return Empty(name), nil
	}
	ncol := len(records[0])
	for i := range records[0] {
		records[0][i] = strings.TrimSpace(records[0][i])
	}
	for i := 1; i < len(records); i++ {
		records[i] = padRecord(records[i], ncol)
	}
	return FromRecords(name, records)
}

// padRecord fits a row to n fields, padding with empty (missing) cells.
func padRecord(rec []string, n int) []string {
	if len(rec) == n {
		return rec
	}
	if len(rec) > n {
		return rec[:n]
	}
	tmp := make([]string, n)
	copy(tmp, rec)
	return tmp
}

func decoderFor(name string) (transform.Transformer, error) {
	var enc encoding.Encoding
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		// Strip a UTF-8 byte order mark as written by spreadsheet exports.
		return unicode.BOMOverride(unicode.UTF8.NewDecoder()), nil
	case "gbk":
		enc = simplifiedchinese.GBK
	case "gb18030":
		enc = simplifiedchinese.GB18030
	case "latin1", "iso-8859-1":
		enc = charmap.ISO8859_1
	case "windows-1252", "cp1252":
		enc = charmap.Windows1252
	default:
		return nil, fmt.Errorf("unsupported encoding: %s (use utf-8|gbk|gb18030|latin1|windows-1252)", name)
	}
	return enc.NewDecoder(), nil
}
