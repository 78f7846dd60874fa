package pdf

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// Generator renders the monthly habit report (easy to mock in tests).
type Generator interface {
	MonthlyReport(w io.Writer, data MonthlyReportData) error
}

// MonthlyReportData is everything the report needs, precomputed by the
// caller: per-day due tasks and whether each got a submission.
type MonthlyReportData struct {
	Username string
	Month    time.Month
	Year     int
	Days     []DayReport
}

type DayReport struct {
	Date  time.Time
	Tasks []TaskReport
}

type TaskReport struct {
	Title string
	Done  bool
}

type reportGenerator struct{}

func NewReportGenerator() Generator {
	return &reportGenerator{}
}

func (g *reportGenerator) MonthlyReport(w io.Writer, data MonthlyReportData) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Habit report %s %d", data.Month, data.Year), false)
	pdf.SetAuthor("Habitboard", false)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	// ===== header
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, "Habit Report", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 12)
	sub := fmt.Sprintf("%s — %s %d", data.Username, data.Month, data.Year)
	pdf.CellFormat(0, 7, sub, "", 1, "C", false, 0, "")
	hr(pdf)
	pdf.Ln(3)

	// ===== totals
	due, done := 0, 0
	for _, day := range data.Days {
		for _, t := range day.Tasks {
			due++
			if t.Done {
				done++
			}
		}
	}
	sectionTitle(pdf, "Summary")
	kvLine(pdf, "Tasks due", fmt.Sprintf("%d", due))
	kvLine(pdf, "Completed", fmt.Sprintf("%d", done))
	kvLine(pdf, "Missed", fmt.Sprintf("%d", due-done))
	pdf.Ln(2)
	hr(pdf)

	// ===== day by day
	sectionTitle(pdf, "Daily log")
	for _, day := range data.Days {
		if len(day.Tasks) == 0 {
			continue
		}
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(0, 6, day.Date.Format("Mon 02 Jan"), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		for _, t := range day.Tasks {
			mark := "[ ]"
			if t.Done {
				mark = "[x]"
			}
			pdf.CellFormat(0, 6, fmt.Sprintf("  %s %s", mark, t.Title), "", 1, "L", false, 0, "")
		}
		pdf.Ln(1)
	}

	// ===== page numbers
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 10,
			fmt.Sprintf("Page %d/{nb}", pdf.PageNo()),
			"", 0, "C", false, 0, "",
		)
	})

	return pdf.Output(w)
}

func sectionTitle(pdf *gofpdf.Fpdf, s string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 7, s, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
}

func kvLine(pdf *gofpdf.Fpdf, key, val string) {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(45, 6, key+":", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, val, "", 1, "L", false, 0, "")
}

func hr(pdf *gofpdf.Fpdf) {
	y := pdf.GetY() + 1.5
	pdf.SetLineWidth(0.2)
	pdf.Line(20, y, 190, y)
	pdf.SetY(y + 2)
}
