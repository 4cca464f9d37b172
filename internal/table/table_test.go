package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInfersKinds(t *testing.T) {
	header := []string{"id", "category", "value", "flag", "empty", "mixed"}
	records := [][]string{
		{"1", "a", "10.5", "True", "", "1"},
		{"2", "b", "NA", "False", "", "x"},
		{"3", "a", "30", "true", "NaN", "2"},
	}
	tbl := New("t.csv", header, records, ParseOptions{})

	require.Equal(t, 3, tbl.Rows())
	require.Len(t, tbl.Columns, 6)
	assert.Equal(t, KindInt, tbl.Column("id").Kind)
	assert.Equal(t, KindText, tbl.Column("category").Kind)
	assert.Equal(t, KindFloat, tbl.Column("value").Kind)
	assert.Equal(t, KindBool, tbl.Column("flag").Kind)
	assert.Equal(t, KindFloat, tbl.Column("empty").Kind)
	assert.Equal(t, KindText, tbl.Column("mixed").Kind)

	assert.Equal(t, 1, tbl.Column("value").MissingCount())
	assert.Equal(t, []float64{10.5, 30}, tbl.Column("value").Floats())
	assert.Equal(t, 3, tbl.Column("empty").MissingCount())
	assert.Empty(t, tbl.Column("empty").Floats())
}

func TestNewPadsShortRecords(t *testing.T) {
	tbl := New("", []string{"a", "b"}, [][]string{{"1"}, {"2", "3", "extra"}}, ParseOptions{})
	require.Equal(t, 2, tbl.Rows())
	b := tbl.Column("b")
	require.NotNil(t, b)
	assert.True(t, b.Cells[0].Missing)
	assert.Equal(t, 3.0, b.Cells[1].Num)
}

func TestZeroRowColumnsAreText(t *testing.T) {
	tbl := New("", []string{"a", "b"}, nil, ParseOptions{})
	assert.Equal(t, 0, tbl.Rows())
	for _, c := range tbl.Columns {
		assert.Equal(t, KindText, c.Kind)
	}
	assert.Empty(t, tbl.NumericColumns())
}

func TestNormalizeNames(t *testing.T) {
	got := NormalizeNames([]string{" price ", "", "price", "price", "a.1", "a", "a"})
	assert.Equal(t, []string{"price", "Unnamed: 1", "price.1", "price.2", "a.1", "a", "a.2"}, got)
}

func TestParseNumberSeparators(t *testing.T) {
	v, ok := ParseNumber("1.234,5", ParseOptions{DecimalSeparator: ',', ThousandsSeparator: '.'})
	require.True(t, ok)
	assert.InDelta(t, 1234.5, v, 1e-9)

	_, ok = ParseNumber("1,000", ParseOptions{})
	assert.False(t, ok)

	v, ok = ParseNumber("1,000", ParseOptions{ThousandsSeparator: ','})
	require.True(t, ok)
	assert.Equal(t, 1000.0, v)
}

func TestRowKeyComparesNumbersByValue(t *testing.T) {
	tbl := New("", []string{"x", "y"}, [][]string{{"1", "a"}, {"1.0", "a"}, {"", "a"}, {"NA", "a"}}, ParseOptions{})
	assert.Equal(t, tbl.RowKey(0), tbl.RowKey(1))
	assert.Equal(t, tbl.RowKey(2), tbl.RowKey(3))
	assert.NotEqual(t, tbl.RowKey(0), tbl.RowKey(2))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "object", KindText.String())
	assert.Equal(t, "int64", KindInt.String())
	assert.Equal(t, "float64", KindFloat.String())
	assert.Equal(t, "bool", KindBool.String())
	assert.True(t, KindInt.IsNumeric())
	assert.False(t, KindBool.IsNumeric())
}
