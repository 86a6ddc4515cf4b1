package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/nhle/saturday-roster/internal/model"
)

// Page geometry in millimetres; 6.35mm is a quarter inch.
const (
	pdfMargin      = 6.35
	memberColWidth = 53
	lineHeight     = 4.2
	cellPadding    = 1.2
)

// ClosedNotice replaces the lists of a closed date.
const ClosedNotice = "FERIADO / SEM ESCALA (ninguém trabalha)"

// Report wording.
const (
	summaryTitle       = "Resumo do mês"
	scheduleTitle      = "Escala de Sábados"
	membersLabel       = "Funcionários cadastrados:"
	considerationsHead = "Considerações"
	noConsiderations   = "— Nenhuma consideração cadastrada."
	emptyCell          = "-"
	bullet             = "• "
)

// pdfDoc wraps fpdf with the cp1252 translator the core fonts need.
type pdfDoc struct {
	*fpdf.Fpdf
	tr func(string) string
}

func newPDF() *pdfDoc {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.AddPage()
	return &pdfDoc{Fpdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
}

func (d *pdfDoc) usableWidth() float64 {
	w, _ := d.GetPageSize()
	left, _, right, _ := d.GetMargins()
	return w - left - right
}

func (d *pdfDoc) title(text string, members int) {
	d.SetFont("Helvetica", "B", 18)
	d.CellFormat(0, 10, d.tr(text), "", 1, "C", false, 0, "")
	d.Ln(2)
	d.SetFont("Helvetica", "B", 10)
	label := d.tr(membersLabel) + " "
	d.CellFormat(d.GetStringWidth(label), 6, label, "", 0, "L", false, 0, "")
	d.SetFont("Helvetica", "", 10)
	d.CellFormat(0, 6, strconv.Itoa(members), "", 1, "L", false, 0, "")
	d.Ln(3)
}

func (d *pdfDoc) heading(text string) {
	d.SetFont("Helvetica", "B", 13)
	d.CellFormat(0, 8, d.tr(text), "", 1, "L", false, 0, "")
	d.Ln(1)
}

// row draws one table row whose cells may wrap. Every cell gets the height
// of the tallest one.
func (d *pdfDoc) row(widths []float64, cells []string, align string, header bool) {
	if header {
		d.SetFont("Helvetica", "B", 9)
		d.SetFillColor(245, 245, 245)
	} else {
		d.SetFont("Helvetica", "", 8)
	}

	lines := 1
	for i, text := range cells {
		n := len(d.SplitLines([]byte(d.tr(text)), widths[i]-2*cellPadding))
		lines = max(lines, n)
	}
	height := float64(lines)*lineHeight + 2*cellPadding

	_, pageH := d.GetPageSize()
	_, _, _, bottom := d.GetMargins()
	if d.GetY()+height > pageH-bottom {
		d.AddPage()
	}

	x, y := d.GetXY()
	for i, text := range cells {
		style := "D"
		if header {
			style = "FD"
		}
		d.SetDrawColor(128, 128, 128)
		d.SetLineWidth(0.1)
		d.Rect(x, y, widths[i], height, style)

		d.SetXY(x+cellPadding, y+cellPadding)
		d.MultiCell(widths[i]-2*cellPadding, lineHeight, d.tr(text), "", align, false)
		x += widths[i]
	}
	d.SetXY(d.GetX(), y+height)
	left, _, _, _ := d.GetMargins()
	d.SetX(left)
}

func (d *pdfDoc) considerations(notes []model.Consideration) {
	d.Ln(4)
	d.heading(considerationsHead)
	d.SetFont("Helvetica", "", 10)

	written := 0
	for _, note := range notes {
		text := strings.TrimSpace(note.Text)
		if text == "" {
			continue
		}
		d.MultiCell(0, 5, d.tr(bullet+text), "", "L", false)
		written++
	}
	if written == 0 {
		d.MultiCell(0, 5, d.tr(noConsiderations), "", "L", false)
	}
}

func (d *pdfDoc) output(w io.Writer) error {
	if err := d.Output(w); err != nil {
		return fmt.Errorf("writing pdf: %w", err)
	}
	return nil
}

// SummaryPDF writes the month summary table followed by the considerations.
func SummaryPDF(w io.Writer, r Report) error {
	d := newPDF()
	d.title(summaryTitle+" - "+r.Period(), len(r.Members))

	n := r.Statuses.Len()
	widths := make([]float64, n+1)
	widths[0] = memberColWidth
	for i := 1; i <= n; i++ {
		widths[i] = (d.usableWidth() - memberColWidth) / float64(n)
	}

	d.row(widths, append([]string{MemberHeader}, r.Statuses.Labels()...), "C", true)
	for _, row := range r.Rows {
		cells := make([]string, 0, n+1)
		cells = append(cells, row.Member)
		for _, st := range r.Statuses.All() {
			cells = append(cells, strconv.Itoa(row.Count(st)))
		}
		d.row(widths, cells, "C", false)
	}

	d.considerations(r.Considerations)
	return d.output(w)
}

// SchedulePDF writes one block per qualifying date, two dates per page,
// followed by the considerations.
func SchedulePDF(w io.Writer, r Report) error {
	d := newPDF()
	d.title(scheduleTitle+" - "+r.Period(), len(r.Members))

	n := r.Statuses.Len()
	widths := make([]float64, n)
	for i := range widths {
		widths[i] = d.usableWidth() / float64(n)
	}

	for i, date := range r.Dates {
		d.heading(DisplayDate(date))

		day := r.Day(date)
		if day.Closed {
			d.SetFont("Helvetica", "B", 10)
			d.CellFormat(0, 6, d.tr(ClosedNotice), "", 1, "L", false, 0, "")
		} else {
			cells := make([]string, n)
			for j, st := range r.Statuses.All() {
				names := day.Lists[st]
				if len(names) == 0 {
					cells[j] = emptyCell
					continue
				}
				cells[j] = bullet + strings.Join(names, "\n"+bullet)
			}
			d.row(widths, r.Statuses.Labels(), "C", true)
			d.row(widths, cells, "L", false)
		}

		if i%2 == 1 && i != len(r.Dates)-1 {
			d.AddPage()
		} else {
			d.Ln(5)
		}
	}

	d.considerations(r.Considerations)
	return d.output(w)
}
