package utils

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/PatrikF1/backend-ProjectPartner/models"

	"github.com/go-pdf/fpdf"
)

const (
	pageMargin   = 40.0
	lineHeight   = 16.0
	headerHeight = 20.0
)

// The core PDF fonts only cover cp1252, which lacks some Croatian letters.
var transliterator = strings.NewReplacer(
	"č", "c", "ć", "c", "đ", "dj", "Č", "C", "Ć", "C", "Đ", "Dj",
)

type reportWriter struct {
	pdf        *fpdf.Fpdf
	tr         func(string) string
	pageHeight float64
	width      float64
}

// RenderProjectReport renders the closure report as an A4 PDF.
func RenderProjectReport(report *models.ProjectReport) ([]byte, error) {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(false, pageMargin)
	pdf.SetTitle("Project report", true)
	pdf.SetCreator("ProjectPartner", true)

	pageWidth, pageHeight := pdf.GetPageSize()
	cp1252 := pdf.UnicodeTranslatorFromDescriptor("")
	w := &reportWriter{
		pdf:        pdf,
		tr:         func(s string) string { return cp1252(transliterator.Replace(s)) },
		pageHeight: pageHeight,
		width:      pageWidth - 2*pageMargin,
	}

	pdf.AddPage()
	w.title(report)
	w.projectInfo(report)
	w.statistics(report.Stats)
	w.members(report.Members)
	w.tasks(report.Tasks)

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write report: %w", err)
	}
	return buf.Bytes(), nil
}

// ensure starts a new page when h points no longer fit on the current one.
func (w *reportWriter) ensure(h float64) bool {
	if w.pdf.GetY()+h <= w.pageHeight-pageMargin {
		return false
	}
	w.pdf.AddPage()
	return true
}

func (w *reportWriter) title(report *models.ProjectReport) {
	w.pdf.SetFont("Helvetica", "B", 20)
	w.pdf.CellFormat(w.width, 28, w.tr("Project report: "+report.Project.Name), "", 1, "C", false, 0, "")
	w.pdf.SetFont("Helvetica", "", 10)
	w.pdf.CellFormat(w.width, lineHeight, "Generated "+report.GeneratedAt.Format("2006-01-02 15:04 MST"), "", 1, "C", false, 0, "")
	w.pdf.Ln(lineHeight)
}

func (w *reportWriter) section(name string) {
	w.ensure(headerHeight + 2*lineHeight)
	w.pdf.Ln(lineHeight / 2)
	w.pdf.SetFont("Helvetica", "B", 14)
	w.pdf.CellFormat(w.width, headerHeight, w.tr(name), "B", 1, "L", false, 0, "")
	w.pdf.Ln(4)
	w.pdf.SetFont("Helvetica", "", 11)
}

func (w *reportWriter) field(label, value string) {
	const labelWidth = 120.0
	lines := w.wrap(value, w.width-labelWidth-4)
	if len(lines) == 0 {
		lines = []string{"-"}
	}
	for i, line := range lines {
		w.ensure(lineHeight)
		w.pdf.SetFont("Helvetica", "B", 11)
		if i == 0 {
			w.pdf.CellFormat(labelWidth, lineHeight, w.tr(label), "", 0, "L", false, 0, "")
		} else {
			w.pdf.CellFormat(labelWidth, lineHeight, "", "", 0, "L", false, 0, "")
		}
		w.pdf.SetFont("Helvetica", "", 11)
		w.pdf.CellFormat(w.width-labelWidth, lineHeight, line, "", 1, "L", false, 0, "")
	}
}

func (w *reportWriter) projectInfo(report *models.ProjectReport) {
	p := report.Project
	w.section("Project information")
	w.field("Name", p.Name)
	w.field("Type", string(p.Type))
	w.field("Description", p.Description)
	capacity := "unlimited"
	if p.Capacity != nil {
		capacity = fmt.Sprintf("%d", *p.Capacity)
	}
	w.field("Capacity", capacity)
	w.field("Deadline", formatDate(p.Deadline))
	w.field("Created by", report.CreatorName)
	w.field("Created", p.CreatedAt.Format("2006-01-02"))
	status := "active"
	if !p.IsActive {
		status = "inactive"
	}
	w.field("Status", status)
}

func (w *reportWriter) statistics(stats models.ReportStats) {
	w.section("Statistics")
	w.field("Total tasks", fmt.Sprintf("%d", stats.Total))
	w.field("Completed", fmt.Sprintf("%d", stats.Completed))
	w.field("In progress", fmt.Sprintf("%d", stats.InProgress))
	w.field("Not started", fmt.Sprintf("%d", stats.NotStarted))
	w.field("Completion rate", fmt.Sprintf("%.1f%%", stats.CompletionRate))
}

type column struct {
	name  string
	share float64
}

func (w *reportWriter) table(columns []column, rows [][]string) {
	header := func() {
		w.pdf.SetFont("Helvetica", "B", 10)
		w.pdf.SetFillColor(230, 230, 230)
		for _, c := range columns {
			w.pdf.CellFormat(w.width*c.share, lineHeight+2, w.tr(c.name), "1", 0, "L", true, 0, "")
		}
		w.pdf.Ln(-1)
		w.pdf.SetFont("Helvetica", "", 10)
	}
	header()
	for _, row := range rows {
		if w.ensure(lineHeight) {
			header()
		}
		for i, c := range columns {
			cw := w.width * c.share
			w.pdf.CellFormat(cw, lineHeight, w.fit(row[i], cw-4), "1", 0, "L", false, 0, "")
		}
		w.pdf.Ln(-1)
	}
}

// wrap breaks s into translated lines no wider than width points. Widths are
// measured on the single-byte encoded text the core fonts are drawn from.
func (w *reportWriter) wrap(s string, width float64) []string {
	var lines []string
	for _, paragraph := range strings.Split(s, "\n") {
		line := ""
		for _, word := range strings.Fields(paragraph) {
			word = w.tr(word)
			candidate := word
			if line != "" {
				candidate = line + " " + word
			}
			if w.pdf.GetStringWidth(candidate) <= width {
				line = candidate
				continue
			}
			if line != "" {
				lines = append(lines, line)
			}
			for w.pdf.GetStringWidth(word) > width {
				n := len(word) - 1
				for n > 1 && w.pdf.GetStringWidth(word[:n]) > width {
					n--
				}
				lines = append(lines, word[:n])
				word = word[n:]
			}
			line = word
		}
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// fit shortens s so that it fits into width points.
func (w *reportWriter) fit(s string, width float64) string {
	s = w.tr(s)
	if w.pdf.GetStringWidth(s) <= width {
		return s
	}
	for len(s) > 0 && w.pdf.GetStringWidth(s+"...") > width {
		s = s[:len(s)-1]
	}
	return s + "..."
}

func (w *reportWriter) members(members []models.MemberContribution) {
	w.section("Team members")
	if len(members) == 0 {
		w.pdf.CellFormat(w.width, lineHeight, "No members.", "", 1, "L", false, 0, "")
		return
	}
	rows := make([][]string, 0, len(members))
	for _, m := range members {
		rows = append(rows, []string{m.Name, m.Email, fmt.Sprintf("%d", m.Tasks), fmt.Sprintf("%d", m.Completed)})
	}
	w.table([]column{{"Name", 0.32}, {"Email", 0.40}, {"Tasks", 0.14}, {"Completed", 0.14}}, rows)
}

func (w *reportWriter) tasks(tasks []models.Task) {
	w.section("Tasks")
	if len(tasks) == 0 {
		w.pdf.CellFormat(w.width, lineHeight, "No tasks.", "", 1, "L", false, 0, "")
		return
	}
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		name := t.Name
		if t.IsArchived {
			name += " (archived)"
		}
		rows = append(rows, []string{name, string(t.Status), string(t.Priority), formatDate(t.Deadline)})
	}
	w.table([]column{{"Name", 0.46}, {"Status", 0.20}, {"Priority", 0.14}, {"Deadline", 0.20}}, rows)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("2006-01-02")
}
