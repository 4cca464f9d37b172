package loader

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/KaramelBytes/autoeda-cli/internal/table"
	"github.com/xuri/excelize/v2"
)

// readXLSX loads the selected sheet (first sheet by default) of a workbook.
func readXLSX(name string, data []byte, opt Options) (*table.Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: open xlsx: %v", ErrDecodeFailure, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return table.New(name, nil, nil, opt.Parse), nil
	}
	sheet := sheets[0]
	if opt.Sheet != "" {
		sheet = ""
		for _, s := range sheets {
			if strings.EqualFold(s, opt.Sheet) {
				sheet = s
				break
			}
		}
		if sheet == "" {
			return nil, fmt.Errorf("%w: sheet %q not found in %s (available: %s)", ErrSourceUnavailable, opt.Sheet, name, strings.Join(sheets, ", "))
		}
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: read sheet %s: %v", ErrDecodeFailure, sheet, err)
	}
	if len(rows) == 0 {
		return table.New(name, nil, nil, opt.Parse), nil
	}
	return table.New(name, rows[0], rows[1:], opt.Parse), nil
}
