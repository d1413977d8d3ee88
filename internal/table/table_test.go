package table

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/simplifiedchinese"
)

var churnRows = [][]string{
	{"state", "account length", "area code", "total day minutes", "voice mail plan", "churn"},
	{"KS", "128", "415", "265.1", "yes", "False"},
	{"OH", "107", "415", "161.6", "yes", "False"},
	{"NJ", "137", "408", "243.4", "no", "False"},
	{"OH", "84", "408", "", "no", "True"},
	{"OK", "75", "510", "166.7", "NA", "True"},
}

func TestFromRecordsDetectsKinds(t *testing.T) {
	tb, err := FromRecords("churn.csv", churnRows)
	require.NoError(t, err)
	require.Equal(t, 5, tb.Rows())
	require.Equal(t, 6, tb.Cols())
	require.Equal(t, churnRows[0], tb.Names())
	require.Equal(t, []Kind{KindString, KindInt, KindInt, KindFloat, KindString, KindString}, tb.Kinds())
	require.Equal(t, []string{"account length", "area code", "total day minutes"}, tb.NumericColumns())
	require.Equal(t, []string{"state", "voice mail plan", "churn"}, tb.CategoricalColumns())

	miss, err := tb.Missing("total day minutes")
	require.NoError(t, err)
	require.Equal(t, []bool{false, false, false, true, false}, miss)

	miss, err = tb.Missing("voice mail plan")
	require.NoError(t, err)
	require.Equal(t, []bool{false, false, false, false, true}, miss)

	vals, err := tb.Floats("total day minutes")
	require.NoError(t, err)
	require.Equal(t, []float64{265.1, 161.6, 243.4, 166.7}, vals)

	require.Equal(t, []string{"KS", "128", "415", "265.1", "yes", "False"}, tb.Row(0))
}

func TestRequireReportsMissingColumn(t *testing.T) {
	tb, err := FromRecords("churn.csv", churnRows)
	require.NoError(t, err)

	err = tb.Require("state", "customer service calls")
	var mce *MissingColumnError
	require.True(t, errors.As(err, &mce))
	require.Equal(t, "customer service calls", mce.Column)
	require.Contains(t, err.Error(), "available: state")

	_, err = tb.Select([]string{"churn", "nope"})
	require.True(t, errors.As(err, &mce))

	sub, err := tb.Select([]string{"churn", "state"})
	require.NoError(t, err)
	require.Equal(t, []string{"churn", "state"}, sub.Names())
	require.Equal(t, 6, tb.Cols(), "select must not mutate the source table")
}

func TestFloatCellsKeepFullPrecision(t *testing.T) {
	tb, err := ReadCSV(strings.NewReader("x,y\n1.0000001,a\n1.0000002,a\n0.5,\n"), "fine.csv", LoadOptions{})
	require.NoError(t, err)
	require.Equal(t, KindFloat, tb.Kinds()[0])

	vals, err := tb.Values("x")
	require.NoError(t, err)
	require.Equal(t, []string{"1.0000001", "1.0000002", "0.5"}, vals)
	require.Equal(t, [][]string{{"1.0000001", "a"}, {"1.0000002", "a"}, {"0.5", "NaN"}}, tb.Records())
	require.Equal(t, tb.Records()[2], tb.Row(2))
}

func TestFloatsRejectsTextColumn(t *testing.T) {
	tb, err := FromRecords("mixed", [][]string{{"mixed"}, {"1"}, {"x"}, {""}})
	require.NoError(t, err)

	_, err = tb.Floats("mixed")
	var mde *MalformedDataError
	require.True(t, errors.As(err, &mde))
	require.Equal(t, 1, mde.Row)
	require.Equal(t, "x", mde.Value)
	require.Contains(t, err.Error(), "row 2")
}

func TestEmptyAndHeaderOnly(t *testing.T) {
	tb, err := FromRecords("empty", nil)
	require.NoError(t, err)
	require.Equal(t, 0, tb.Rows())
	require.Equal(t, 0, tb.Cols())
	require.Empty(t, tb.Names())
	require.Empty(t, tb.Records())

	tb, err = FromRecords("header", [][]string{{"a", "b"}})
	require.NoError(t, err)
	require.Equal(t, 0, tb.Rows())
	require.Equal(t, []string{"a", "b"}, tb.Names())
}

func TestReadCSVPadsRaggedRowsAndStripsBOM(t *testing.T) {
	in := "\ufeffa;b;c\n1;x;2.5\n2;y\n"
	tb, err := ReadCSV(strings.NewReader(in), "ragged.csv", LoadOptions{Delimiter: ';'})
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b", "c"}, tb.Names())
	require.Equal(t, 2, tb.Rows())
	miss, err := tb.Missing("c")
	require.NoError(t, err)
	require.Equal(t, []bool{false, true}, miss)
}

func TestReadCSVDecodesGBK(t *testing.T) {
	src, err := simplifiedchinese.GBK.NewEncoder().String("名字,值\n张三,1\n李四,2\n")
	require.NoError(t, err)

	tb, err := ReadCSV(strings.NewReader(src), "gbk.csv", LoadOptions{Encoding: "gbk"})
	require.NoError(t, err)
	require.Equal(t, []string{"名字", "值"}, tb.Names())
	vals, err := tb.Values("名字")
	require.NoError(t, err)
	require.Equal(t, []string{"张三", "李四"}, vals)

	_, err = ReadCSV(strings.NewReader(src), "gbk.csv", LoadOptions{Encoding: "ebcdic"})
	require.Error(t, err)
}

func TestLoadFileDispatchesByExtension(t *testing.T) {
	dir := t.TempDir()

	tsv := filepath.Join(dir, "data.tsv")
	require.NoError(t, os.WriteFile(tsv, []byte("x\ty\n1\ta\n2\tb\n"), 0o644))
	tb, err := LoadFile(tsv, LoadOptions{})
	require.NoError(t, err)
	require.Equal(t, []string{"x", "y"}, tb.Names())
	require.Equal(t, "data.tsv", tb.Name)

	_, err = LoadFile(filepath.Join(dir, "missing.csv"), LoadOptions{})
	require.Error(t, err)
}

func TestLoadXLSXSelectsSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.xlsx")
	f := excelize.NewFile()
	_, err := f.NewSheet("Data")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Data", "A1", &[]interface{}{"area code", "churn"}))
	require.NoError(t, f.SetSheetRow("Data", "A2", &[]interface{}{415, "False"}))
	require.NoError(t, f.SetSheetRow("Data", "A3", &[]interface{}{408, "True"}))
	require.NoError(t, f.SetSheetRow("Data", "A4", &[]interface{}{510}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	tb, err := LoadFile(path, LoadOptions{Sheet: "data"})
	require.NoError(t, err)
	require.Equal(t, []string{"area code", "churn"}, tb.Names())
	require.Equal(t, 3, tb.Rows())
	k, err := tb.Kind("area code")
	require.NoError(t, err)
	require.Equal(t, KindInt, k)
	miss, err := tb.Missing("churn")
	require.NoError(t, err)
	require.Equal(t, []bool{false, false, true}, miss)

	// Sheet1 exists but is empty.
	tb, err = LoadFile(path, LoadOptions{})
	require.NoError(t, err)
	require.Equal(t, 0, tb.Cols())

	_, err = LoadFile(path, LoadOptions{Sheet: "nope"})
	require.ErrorContains(t, err, "Available sheets")
}
