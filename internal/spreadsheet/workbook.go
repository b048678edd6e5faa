package spreadsheet

import (
	"fmt"
	"strconv"

	"github.com/guichet-numerique/carrousel/internal/carrousel"
	"github.com/guichet-numerique/carrousel/internal/common/cnst"
	"github.com/xuri/excelize/v2"
)

// Fixed document timestamp so identical carousels render identically.
const docTimestamp = "2000-01-01T00:00:00Z"

// ContentType is the MIME type of the rendered workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Build renders slides into an xlsx workbook holding a single sheet.
func Build(slides []carrousel.Slide) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetDocProps(&excelize.DocProperties{
		Creator:  cnst.Organization,
		Created:  docTimestamp,
		Modified: docTimestamp,
		Title:    SheetName,
	}); err != nil {
		return nil, fmt.Errorf("set doc props: %w", err)
	}

	if err := writeRow(f, 1, Header, false); err != nil {
		return nil, err
	}
	for i, r := range Rows(slides) {
		if err := writeRow(f, i+2, r, true); err != nil {
			return nil, err
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	last, _ := excelize.ColumnNumberToName(Columns)
	if err := f.SetCellStyle(SheetName, "A1", last+"1", bold); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(SheetName, "B", last, 30); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// writeRow writes values on a 1-based row. When numericPage is set the
// first column is stored as a number.
func writeRow(f *excelize.File, rowNum int, values []string, numericPage bool) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, rowNum)
		if err != nil {
			return err
		}
		if col == 0 && numericPage {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("page %q: %w", v, err)
			}
			err = f.SetCellValue(SheetName, cell, n)
			if err != nil {
				return err
			}
			continue
		}
		if err := f.SetCellStr(SheetName, cell, v); err != nil {
			return err
		}
	}
	return nil
}
