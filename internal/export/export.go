// Package export renders reservations as CSV, XLSX and PDF documents.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/marlett/reservations/internal/model"
)

const (
	CSVFilename  = "reservas.csv"
	XLSXFilename = "reservas.xlsx"
	SheetName    = "Reservas"
)

// Columns is the header row shared by the tabular exports.
var Columns = []string{
	"id", "name", "email", "phone", "eventType", "date", "time", "duration", "guests",
	"rooms", "totalPrice", "status", "catering", "decoration", "audioVisual", "createdAt",
}

// row flattens r in Columns order.  List fields are joined with ", ".
func row(r model.Reservation) []any {
	return []any{
		r.ID, r.Name, r.Email, r.Phone, r.EventType, r.Date.String(), r.Time,
		r.Duration, r.Guests,
		strings.Join(r.Rooms, ", "),
		r.TotalPrice, string(r.Status),
		strings.Join(r.CateringSelection, ", "),
		strings.Join(r.DecorationSelection, ", "),
		strings.Join(r.AudioVisualSelection, ", "),
		r.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// CSV writes list as comma-separated values with a header row.
func CSV(w io.Writer, list []model.Reservation) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}
	for _, r := range list {
		values := row(r)
		rec := make([]string, len(values))
		for i, v := range values {
			rec[i] = cellString(v)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// XLSX writes list as a workbook with a single "Reservas" sheet.  Numeric
// columns stay numeric.
func XLSX(w io.Writer, list []model.Reservation) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	header := make([]any, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return err
	}
	for i, r := range list {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := row(r)
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return err
		}
	}
	_, err := f.WriteTo(w)
	return err
}

func cellString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return formatHours(t)
	default:
		return fmt.Sprint(t)
	}
}

func formatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64)
}

// money renders n as $1,234.
func money(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	if neg {
		return "-$" + b.String()
	}
	return "$" + b.String()
}
