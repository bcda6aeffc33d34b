// Package export writes sales history snapshots as xlsx workbooks.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/diewo77/tvstock/internal/history"
)

// ContentType is the MIME type of the produced workbooks.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Sheet and download names.
const (
	TVSheet           = "TV Sales"
	AccessorySheet    = "Accessory Sales"
	TVFilename        = "tv_sales_export.xlsx"
	AccessoryFilename = "accessory_sales_export.xlsx"
)

var (
	tvHeader        = []any{"type", "name", "phone", "brand", "size", "serial_number", "sale_date", "warranty", "price"}
	accessoryHeader = []any{"customer_name", "phone", "item_name", "quantity", "labour_name", "sale_date", "price"}
)

// TVSales writes one row per TV sale under a header row.
func TVSales(w io.Writer, sales []history.TVSale) error {
	rows := make([][]any, len(sales))
	for i, s := range sales {
		rows[i] = []any{s.Type, s.Name, s.Phone, s.Brand, s.Size, s.Serial, date(s.SaleDate), s.Warranty, s.Price.InexactFloat64()}
	}
	return write(w, TVSheet, tvHeader, rows)
}

// AccessorySales writes one row per accessory sale under a header row.
func AccessorySales(w io.Writer, sales []history.AccessorySale) error {
	rows := make([][]any, len(sales))
	for i, s := range sales {
		rows[i] = []any{s.CustomerName, s.Phone, s.ItemName, s.Quantity, s.LabourName, date(s.SaleDate), s.Price.InexactFloat64()}
	}
	return write(w, AccessorySheet, accessoryHeader, rows)
}

func date(t time.Time) string { return t.Format(time.DateOnly) }

func write(w io.Writer, sheet string, header []any, rows [][]any) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("stream writer: %w", err)
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush sheet: %w", err)
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
