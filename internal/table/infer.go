package table

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseOptions controls how raw strings become typed cells.
type ParseOptions struct {
	// DecimalSeparator defaults to '.'.
	DecimalSeparator rune
	// ThousandsSeparator is stripped before parsing when non-zero.
	ThousandsSeparator rune
	// ExtraMissing adds tokens treated as missing on top of the defaults.
	ExtraMissing []string
}

// DefaultMissing lists the tokens read as missing values.
var DefaultMissing = []string{
	"", "#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan",
	"1.#IND", "1.#QNAN", "<NA>", "N/A", "NA", "NULL", "NaN", "None", "n/a", "nan", "null",
}

func (o ParseOptions) missingSet() map[string]struct{} {
	set := make(map[string]struct{}, len(DefaultMissing)+len(o.ExtraMissing))
	for _, m := range DefaultMissing {
		set[m] = struct{}{}
	}
	for _, m := range o.ExtraMissing {
		set[m] = struct{}{}
	}
	return set
}

// buildColumn infers the column kind and parses every cell. A column is
// numeric when every non-missing value parses as a number; integer when
// additionally nothing is missing and every value is integral text. A column
// with no values at all is float64, and a zero-row column is text.
func buildColumn(name string, raw []string, opt ParseOptions) *Column {
	missing := opt.missingSet()
	cells := make([]Cell, len(raw))
	nonMissing, nMissing := 0, 0
	allNum, allInt, allBool := true, true, true
	for i, r := range raw {
		cells[i].Raw = r
		if _, ok := missing[strings.TrimSpace(r)]; ok {
			cells[i].Missing = true
			nMissing++
			continue
		}
		nonMissing++
		v := strings.TrimSpace(r)
		if allNum {
			if x, ok := ParseNumber(v, opt); ok {
				cells[i].Num = x
				if _, err := strconv.ParseInt(v, 10, 64); err != nil {
					allInt = false
				}
			} else {
				allNum, allInt = false, false
			}
		}
		if allBool {
			if _, ok := parseBool(v); !ok {
				allBool = false
			}
		}
	}

	col := &Column{Name: name, Cells: cells}
	switch {
	case len(raw) == 0:
		col.Kind = KindText
	case nonMissing == 0:
		col.Kind = KindFloat
	case allNum && allInt && nMissing == 0:
		col.Kind = KindInt
	case allNum:
		col.Kind = KindFloat
	case allBool && nMissing == 0:
		col.Kind = KindBool
	default:
		col.Kind = KindText
	}
	if !col.Kind.IsNumeric() {
		for i := range col.Cells {
			col.Cells[i].Num = 0
		}
	}
	return col
}

// ParseNumber parses a numeric token honoring the configured separators.
func ParseNumber(s string, opt ParseOptions) (float64, bool) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return 0, false
	}
	dec := opt.DecimalSeparator
	if dec == 0 {
		dec = '.'
	}
	if thou := opt.ThousandsSeparator; thou != 0 && thou != dec {
		raw = strings.ReplaceAll(raw, string(thou), "")
	}
	if dec != '.' {
		if strings.Contains(raw, ".") {
			return 0, false
		}
		raw = strings.ReplaceAll(raw, string(dec), ".")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func parseBool(s string) (bool, bool) {
	switch s {
	case "True", "TRUE", "true":
		return true, true
	case "False", "FALSE", "false":
		return false, true
	}
	return false, false
}

// NormalizeNames trims header names, names blank headers "Unnamed: i" and
// suffixes repeats with ".1", ".2", ...
func NormalizeNames(header []string) []string {
	out := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		base := name
		for {
			if _, dup := seen[name]; !dup {
				break
			}
			seen[base]++
			name = fmt.Sprintf("%s.%d", base, seen[base])
		}
		seen[name] = 0
		out[i] = name
	}
	return out
}
