package pdf

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"cipherhaven/internal/models"
)

// Generator renders documents in memory; handlers stream the bytes.
type Generator interface {
	GenerateIncidentReport(req models.ReportExportRequest) ([]byte, error)
}

type DocumentGenerator struct {
	FontPath string // TTF with Unicode coverage; core Helvetica when missing
	now      func() time.Time
}

func NewDocumentGenerator(fontPath string) *DocumentGenerator {
	return &DocumentGenerator{FontPath: fontPath, now: time.Now}
}

// writer hides the font choice from the layout code.
type writer struct {
	pdf  *gofpdf.Fpdf
	font string
	tr   func(string) string
}

func (g *DocumentGenerator) newWriter() *writer {
	pdf := gofpdf.New("P", "mm", "A4", "")
	w := &writer{pdf: pdf, font: "Helvetica", tr: func(s string) string { return s }}
	if g.FontPath != "" {
		if _, err := os.Stat(g.FontPath); err == nil {
			pdf.AddUTF8Font("DejaVu", "", g.FontPath)
			pdf.AddUTF8Font("DejaVu", "B", g.FontPath)
			w.font = "DejaVu"
			return w
		}
	}
	w.tr = pdf.UnicodeTranslatorFromDescriptor("")
	return w
}

func (g *DocumentGenerator) GenerateIncidentReport(req models.ReportExportRequest) ([]byte, error) {
	w := g.newWriter()
	pdf := w.pdf
	r := req.Report

	pdf.SetTitle("Incident report", true)
	pdf.SetAuthor("Cipher Haven", true)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(w.font, "", 9)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont(w.font, "B", 18)
	pdf.CellFormat(0, 10, "INCIDENT REPORT", "", 1, "C", false, 0, "")
	pdf.SetFont(w.font, "", 11)
	pdf.CellFormat(0, 7, "Prepared "+g.now().Format("02 Jan 2006 15:04 MST"), "", 1, "C", false, 0, "")
	w.hr()

	w.sectionTitle("Details")
	w.kvLine("Name", r.Name)
	if r.Phone != "" {
		w.kvLine("Phone", r.Phone)
	}
	w.kvLine("Location", fmt.Sprintf("%.5f, %.5f", r.Location.Lat, r.Location.Lng))
	w.kvLine("Going on for", r.OccurrenceDuration)
	w.kvLine("Frequency", r.Frequency)
	w.kvLine("Visible injuries", r.VisibleInjuries)
	w.kvLine("Contact via", strings.Join(r.PreferredContact, ", "))
	w.hr()

	w.sectionTitle("Situation")
	w.paragraph(r.CurrentSituation)
	w.sectionTitle("Person responsible")
	w.paragraph(r.Culprit)
	w.hr()

	title := "Account"
	if req.Model != "" {
		title = fmt.Sprintf("Account (written with %s)", req.Model)
	}
	w.sectionTitle(title)
	w.paragraph(req.GeneratedText)

	if req.ImageURL != "" {
		w.hr()
		w.kvLine("Image", req.ImageURL)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render incident report: %w", err)
	}
	return buf.Bytes(), nil
}

func (w *writer) sectionTitle(s string) {
	w.pdf.SetFont(w.font, "B", 12)
	w.pdf.CellFormat(0, 7, w.tr(s), "", 1, "L", false, 0, "")
	w.pdf.SetFont(w.font, "", 11)
}

func (w *writer) kvLine(key, val string) {
	w.pdf.SetFont(w.font, "B", 11)
	w.pdf.CellFormat(45, 6, w.tr(key+":"), "", 0, "L", false, 0, "")
	w.pdf.SetFont(w.font, "", 11)
	w.pdf.MultiCell(0, 6, w.tr(val), "", "L", false)
}

func (w *writer) paragraph(s string) {
	w.pdf.SetFont(w.font, "", 11)
	w.pdf.MultiCell(0, 6, w.tr(s), "", "L", false)
	w.pdf.Ln(2)
}

func (w *writer) hr() {
	y := w.pdf.GetY() + 1.5
	w.pdf.SetLineWidth(0.2)
	w.pdf.Line(20, y, 190, y)
	w.pdf.SetY(y + 2)
}
