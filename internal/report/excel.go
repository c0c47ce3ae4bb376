// Package report renders visit reports as spreadsheets.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/SohanPranathiSS/visitor-management-system-Version-2--sub000/internal/domain"
	"github.com/xuri/excelize/v2"
)

const (
	SheetName   = "Visits"
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	timeLayout  = "2006-01-02 15:04"
)

var VisitHeader = []string{
	"Visit ID",
	"Visitor Name",
	"Visitor Email",
	"Visitor Phone",
	"Visitor Company",
	"Purpose",
	"ID Card Number",
	"Host Name",
	"Host Email",
	"Check In",
	"Check Out",
	"Duration (min)",
	"Status",
	"Pre-registered",
}

var columnWidths = []float64{10, 24, 30, 16, 24, 30, 18, 24, 30, 18, 18, 14, 14, 14}

// FileName is the attachment name for a report covering rng.
func FileName(rng domain.ReportRange, now time.Time) string {
	from, to := "all", now.Format("2006-01-02")
	if rng.From != nil {
		from = rng.From.Format("2006-01-02")
	}
	if rng.To != nil {
		// To is exclusive
		to = rng.To.AddDate(0, 0, -1).Format("2006-01-02")
	}
	return fmt.Sprintf("visits_%s_to_%s.xlsx", from, to)
}

// WriteVisits renders rows as a single-sheet workbook into w.
func WriteVisits(w io.Writer, rows []domain.VisitReportRow) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(SheetName)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("delete default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	header := make([]interface{}, len(VisitHeader))
	for i, h := range VisitHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(VisitHeader), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetName, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("style header: %w", err)
	}
	for i, width := range columnWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(SheetName, col, col, width); err != nil {
			return fmt.Errorf("set column width: %w", err)
		}
	}
	if err := f.SetPanes(SheetName, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}

	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := visitValues(&rows[i])
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func visitValues(r *domain.VisitReportRow) []interface{} {
	checkOut, minutes := "", ""
	if r.CheckOutTime != nil {
		checkOut = r.CheckOutTime.Local().Format(timeLayout)
		minutes = fmt.Sprintf("%d", int(r.Duration().Minutes()))
	}
	pre := "No"
	if r.PreRegistered {
		pre = "Yes"
	}
	return []interface{}{
		r.VisitID,
		r.VisitorName,
		r.VisitorEmail,
		r.VisitorPhone,
		r.VisitorCompany,
		r.Purpose,
		r.IDCardNumber,
		r.HostName,
		r.HostEmail,
		r.CheckInTime.Local().Format(timeLayout),
		checkOut,
		minutes,
		string(r.Status),
		pre,
	}
}
