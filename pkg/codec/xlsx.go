package codec

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Sheet1"

type xlsxCodec struct{}

func (x *xlsxCodec) Encode(rows []map[string]string, columns []string) ([]byte, string, error) {
	if len(columns) == 0 {
		return nil, "", fmt.Errorf("xlsx requires at least one column")
	}
	f := excelize.NewFile()
	defer f.Close()

	for i, col := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, "", fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, col); err != nil {
			return nil, "", fmt.Errorf("set header cell: %w", err)
		}
	}

	for r, row := range rows {
		for i, col := range columns {
			cell, err := excelize.CoordinatesToCellName(i+1, r+2)
			if err != nil {
				return nil, "", fmt.Errorf("data cell: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, row[col]); err != nil {
				return nil, "", fmt.Errorf("set data cell: %w", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("write xlsx: %w", err)
	}
	return buf.Bytes(), "xlsx", nil
}

func (x *xlsxCodec) Decode(data []byte) ([]map[string]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	// Numeric and date cells come back rendered as strings, which keeps the
	// downstream field-maps uniform with the CSV decoder.
	raw, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read xlsx rows: %w", err)
	}
	if len(raw) == 0 {
		return nil, nil
	}

	header := raw[0]
	var rows []map[string]string
	for _, record := range raw[1:] {
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			} else {
				row[col] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
