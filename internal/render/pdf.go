package render

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
)

const (
	pdfMargin     = 0.75 * 72 // 0.75in in points
	pdfLineHeight = 13.0
)

// pdfEpoch pins the document creation date so identical input yields
// identical bytes.
var pdfEpoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

type pdfWriter struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func newPDFWriter() *pdfWriter {
	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.SetCreationDate(pdfEpoch)
	pdf.SetModificationDate(pdfEpoch)
	pdf.SetCatalogSort(true)
	pdf.AddPage()
	return &pdfWriter{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
}

func (w *pdfWriter) text(style string, size float64, align string, s string) {
	w.pdf.SetFont("Times", style, size)
	w.pdf.MultiCell(0, size+3, w.tr(s), "", align, false)
}

func (w *pdfWriter) gap(h float64) {
	w.pdf.Ln(h)
}

func (w *pdfWriter) sectionHeader(title string) {
	w.gap(6)
	w.text("B", 12, "L", title)
	left, _, right, _ := w.pdf.GetMargins()
	pageW, _ := w.pdf.GetPageSize()
	y := w.pdf.GetY()
	w.pdf.Line(left, y, pageW-right, y)
	w.gap(3)
}

func (w *pdfWriter) bullet(s string) {
	left, _, _, _ := w.pdf.GetMargins()
	w.pdf.SetFont("Times", "", 10)
	w.pdf.SetX(left + 10)
	w.pdf.CellFormat(10, pdfLineHeight, w.tr("•"), "", 0, "L", false, 0, "")
	w.pdf.MultiCell(0, pdfLineHeight, w.tr(s), "", "L", false)
}

func (w *pdfWriter) bytes() ([]byte, error) {
	if err := w.pdf.Error(); err != nil {
		return nil, fmt.Errorf("build pdf: %w", err)
	}
	var buf bytes.Buffer
	if err := w.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderFlatPDF draws the resume directly with PDF primitives; no template
// or external compiler is involved.
func RenderFlatPDF(d Document) ([]byte, error) {
	w := newPDFWriter()

	if d.Name != "" {
		w.text("B", 22, "C", d.Name)
	}
	if d.Headline != "" {
		w.text("", 11, "C", d.Headline)
	}
	if parts := d.ContactParts(); len(parts) > 0 {
		w.text("", 10, "C", strings.Join(parts, " | "))
	}

	if d.Summary != "" {
		w.sectionHeader("PROFESSIONAL SUMMARY")
		w.text("", 10, "J", d.Summary)
	}

	if len(d.Experiences) > 0 {
		w.sectionHeader("PROFESSIONAL EXPERIENCE")
		for _, e := range d.Experiences {
			w.text("B", 11, "L", e.Title)
			w.text("I", 10, "L", joinNonEmpty(" | ", e.Company, e.DateRange(), e.Location))
			for _, b := range e.Bullets {
				w.bullet(b)
			}
			w.gap(4)
		}
	}

	if names := d.SkillNames(); len(names) > 0 {
		w.sectionHeader("SKILLS")
		w.text("", 10, "L", strings.Join(names, " • "))
	}

	if len(d.Education) > 0 {
		w.sectionHeader("EDUCATION")
		for _, e := range d.Education {
			if e.Raw != "" {
				w.text("", 10, "L", e.Raw)
				continue
			}
			w.text("B", 11, "L", degreeText(e))
			w.text("I", 10, "L", joinNonEmpty(" | ", e.Institution, e.Years))
			if e.Grade != "" {
				w.bullet("Grade: " + e.Grade)
			}
		}
	}

	if len(d.Certifications) > 0 {
		w.sectionHeader("CERTIFICATIONS")
		for _, c := range d.Certifications {
			w.bullet(c)
		}
	}

	return w.bytes()
}

// CoverLetter carries what the cover letter PDF needs besides the text.
type CoverLetter struct {
	Name     string
	Email    string
	Phone    string
	Location string
	Company  string
	Position string
	Text     string
	Date     time.Time
}

// RenderCoverLetterPDF lays the letter out as a business letter: contact
// block, date, recipient, subject line, then paragraphs split on blank lines.
func RenderCoverLetterPDF(cl CoverLetter) ([]byte, error) {
	w := newPDFWriter()

	if cl.Name != "" {
		w.text("B", 14, "L", cl.Name)
	}
	if contact := joinNonEmpty(" | ", cl.Email, cl.Phone, cl.Location); contact != "" {
		w.text("", 10, "L", contact)
	}
	w.gap(20)

	date := cl.Date
	if date.IsZero() {
		date = time.Now()
	}
	w.text("", 11, "L", date.Format("January 02, 2006"))
	w.gap(14)

	if cl.Company != "" {
		w.text("", 11, "L", cl.Company)
	}
	w.text("", 11, "L", "Hiring Manager")
	w.gap(14)

	if cl.Position != "" {
		w.text("B", 11, "L", "Re: Application for "+cl.Position)
		w.gap(14)
	}

	for _, para := range Paragraphs(cl.Text) {
		w.text("", 11, "J", para)
		w.gap(7)
	}
	return w.bytes()
}

// Paragraphs splits text on blank lines; line breaks inside a paragraph are kept.
func Paragraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var (
		out  []string
		cur  []string
		push = func() {
			if len(cur) > 0 {
				out = append(out, strings.Join(cur, "\n"))
				cur = nil
			}
		}
	)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			push()
			continue
		}
		cur = append(cur, line)
	}
	push()
	return out
}
