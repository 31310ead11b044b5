package report

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"codeberg.org/go-pdf/fpdf"
	"github.com/hawkeye-rf/emflow/internal/logging"
)

// pxPerInch is the resolution used to turn a requested pixel width into millimetres.
const pxPerInch = 96.0

// Meta is printed on the title page and stored in the PDF properties.
type Meta struct {
	Title    string
	Project  string
	Design   string
	Version  string
	Template string
	Author   string
	Date     time.Time
}

type blockKind int

const (
	blockChapter blockKind = iota
	blockSubChapter
	blockText
	blockImage
	blockTable
)

type block struct {
	kind    blockKind
	text    string
	path    string
	widthPx float64
	header  []string
	rows    [][]string
}

// Document collects chapters, text, images and tables and renders them to PDF.
// Rendering happens on Write, twice when a table of contents is requested so that
// the contents page can carry final page numbers.
type Document struct {
	meta     Meta
	blocks   []block
	toc      bool
	warnings []string
	logger   *slog.Logger
}

// DocOption configures a Document.
type DocOption func(*Document)

// WithDocLogger sets the logger that receives warnings.
func WithDocLogger(logger *slog.Logger) DocOption {
	return func(d *Document) {
		d.logger = logger
	}
}

// NewDocument starts a document with a title page built from meta.
func NewDocument(meta Meta, opts ...DocOption) *Document {
	if meta.Date.IsZero() {
		meta.Date = time.Now()
	}
	d := &Document{meta: meta, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// AddChapter starts a numbered top-level section.
func (d *Document) AddChapter(title string) {
	d.blocks = append(d.blocks, block{kind: blockChapter, text: title})
}

// AddSubChapter starts a numbered section inside the current chapter.
func (d *Document) AddSubChapter(title string) {
	d.blocks = append(d.blocks, block{kind: blockSubChapter, text: title})
}

// AddText appends a paragraph.
func (d *Document) AddText(text string) {
	d.blocks = append(d.blocks, block{kind: blockText, text: text})
}

// AddImage appends a JPEG or PNG image with a caption. widthPx is converted at 96 dpi
// and clamped to the printable width. A missing file is recorded as a warning and the
// image is left out; AddImage then returns false. The same applies to a file that
// cannot be decoded.
func (d *Document) AddImage(path string, widthPx float64, caption string) bool {
	if _, err := os.Stat(path); err != nil {
		msg := fmt.Sprintf("image %s not found, omitted from document", path)
		d.warnings = append(d.warnings, msg)
		d.logger.Warn("pdf image missing", "path", path, "err", err)
		return false
	}
	if imageType(path) == "" {
		msg := fmt.Sprintf("image %s has unsupported format, omitted from document", path)
		d.warnings = append(d.warnings, msg)
		d.logger.Warn("pdf image unsupported", "path", path)
		return false
	}
	if err := checkImage(path); err != nil {
		msg := fmt.Sprintf("image %s is unreadable, omitted from document", path)
		d.warnings = append(d.warnings, msg)
		d.logger.Warn("pdf image unreadable", "path", path, "err", err)
		return false
	}
	d.blocks = append(d.blocks, block{kind: blockImage, path: path, widthPx: widthPx, text: caption})
	return true
}

// checkImage registers path in a scratch document, which parses it the same way render will.
func checkImage(path string) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.RegisterImageOptions(path, fpdf.ImageOptions{ImageType: imageType(path)})
	return pdf.Error()
}

// AddTable appends a bordered table.
func (d *Document) AddTable(header []string, rows [][]string) {
	d.blocks = append(d.blocks, block{kind: blockTable, header: header, rows: rows})
}

// AddTableOfContents places a contents page after the title page.
func (d *Document) AddTableOfContents() {
	d.toc = true
}

// Warnings lists problems that did not stop the document from being produced.
func (d *Document) Warnings() []string {
	return append([]string(nil), d.warnings...)
}

// Headings returns the numbered chapter and sub-chapter titles in order.
func (d *Document) Headings() []string {
	var out []string
	for _, h := range d.headings() {
		out = append(out, h.label)
	}
	return out
}

// Write renders the document to w.
func (d *Document) Write(w io.Writer) error {
	pages := make([]int, len(d.headings()))
	if d.toc {
		// First pass only discovers where each heading lands.
		first, found := d.render(pages)
		if err := first.Error(); err != nil {
			return err
		}
		pages = found
	}
	pdf, _ := d.render(pages)
	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.Output(w)
}

// Save renders the document to path, creating the parent directory.
func (d *Document) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := d.Write(&buf); err != nil {
		return fmt.Errorf("render %s: %w", path, err)
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

type heading struct {
	label string
	sub   bool
}

func (d *Document) headings() []heading {
	var out []heading
	ch, sub := 0, 0
	for _, b := range d.blocks {
		switch b.kind {
		case blockChapter:
			ch++
			sub = 0
			out = append(out, heading{label: fmt.Sprintf("%d %s", ch, b.text)})
		case blockSubChapter:
			if ch == 0 {
				ch = 1
			}
			sub++
			out = append(out, heading{label: fmt.Sprintf("%d.%d %s", ch, sub, b.text), sub: true})
		}
	}
	return out
}

// render lays out the document and returns the page of every heading.
func (d *Document) render(tocPages []int) (*fpdf.Fpdf, []int) {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(d.meta.Title, true)
	pdf.SetAuthor(d.meta.Author, true)
	pdf.SetCreator("emflow", true)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.SetFooterFunc(func() {
		if pdf.PageNo() == 1 {
			return
		}
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("%s - page %d", tr(d.meta.Title), pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pageW, pageH := pdf.GetPageSize()
	left, _, right, bottom := pdf.GetMargins()
	contentW := pageW - left - right

	d.titlePage(pdf, tr)

	heads := d.headings()
	links := make([]int, len(heads))
	for i := range links {
		links[i] = pdf.AddLink()
	}
	if d.toc {
		pdf.AddPage()
		pdf.SetFont("Helvetica", "B", 18)
		pdf.CellFormat(0, 12, "Table of Contents", "", 1, "L", false, 0, "")
		pdf.Ln(4)
		for i, h := range heads {
			indent, style := 0.0, "B"
			if h.sub {
				indent, style = 8, ""
			}
			pdf.SetFont("Helvetica", style, 11)
			pdf.SetX(left + indent)
			page := ""
			if tocPages[i] > 0 {
				page = fmt.Sprint(tocPages[i])
			}
			pdf.CellFormat(contentW-indent-15, 7, tr(h.label), "", 0, "L", false, links[i], "")
			pdf.CellFormat(15, 7, page, "", 1, "R", false, links[i], "")
		}
	}

	found := make([]int, len(heads))
	hi, figure := 0, 0
	started := false
	for _, b := range d.blocks {
		switch b.kind {
		case blockChapter:
			pdf.AddPage()
			started = true
			found[hi] = pdf.PageNo()
			pdf.SetLink(links[hi], -1, -1)
			pdf.SetFont("Helvetica", "B", 18)
			pdf.MultiCell(0, 10, tr(heads[hi].label), "", "L", false)
			pdf.Ln(4)
			hi++
		case blockSubChapter:
			if !started {
				pdf.AddPage()
				started = true
			}
			found[hi] = pdf.PageNo()
			pdf.SetLink(links[hi], -1, -1)
			pdf.Ln(2)
			pdf.SetFont("Helvetica", "B", 14)
			pdf.MultiCell(0, 8, tr(heads[hi].label), "", "L", false)
			pdf.Ln(2)
			hi++
		case blockText:
			if !started {
				pdf.AddPage()
				started = true
			}
			pdf.SetFont("Helvetica", "", 11)
			pdf.MultiCell(0, 6, tr(b.text), "", "L", false)
			pdf.Ln(3)
		case blockImage:
			if !started {
				pdf.AddPage()
				started = true
			}
			figure++
			opts := fpdf.ImageOptions{ImageType: imageType(b.path), ReadDpi: false}
			info := pdf.RegisterImageOptions(b.path, opts)
			if info == nil || pdf.Err() {
				return pdf, found
			}
			w := b.widthPx * 25.4 / pxPerInch
			if w <= 0 || w > contentW {
				w = contentW
			}
			h := w * info.Height() / info.Width()
			if pdf.GetY()+h+12 > pageH-bottom {
				pdf.AddPage()
			}
			x := left + (contentW-w)/2
			pdf.ImageOptions(b.path, x, pdf.GetY(), w, h, true, opts, 0, "")
			if b.text != "" {
				pdf.SetFont("Helvetica", "I", 10)
				pdf.MultiCell(0, 6, tr(fmt.Sprintf("Figure %d: %s", figure, b.text)), "", "C", false)
			}
			pdf.Ln(4)
		case blockTable:
			if !started {
				pdf.AddPage()
				started = true
			}
			d.table(pdf, tr, contentW, b)
		}
	}
	return pdf, found
}

func (d *Document) titlePage(pdf *fpdf.Fpdf, tr func(string) string) {
	pdf.AddPage()
	pdf.SetY(80)
	pdf.SetFont("Helvetica", "B", 24)
	pdf.MultiCell(0, 12, tr(d.meta.Title), "", "C", false)
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 12)
	lines := []struct{ k, v string }{
		{"Project", d.meta.Project},
		{"Design", d.meta.Design},
		{"Solver version", d.meta.Version},
		{"Template", d.meta.Template},
		{"Author", d.meta.Author},
		{"Date", d.meta.Date.Format("2006-01-02")},
	}
	for _, l := range lines {
		if l.v == "" {
			continue
		}
		pdf.CellFormat(0, 8, tr(l.k+": "+l.v), "", 1, "C", false, 0, "")
	}
}

func (d *Document) table(pdf *fpdf.Fpdf, tr func(string) string, contentW float64, b block) {
	cols := len(b.header)
	for _, r := range b.rows {
		cols = max(cols, len(r))
	}
	if cols == 0 {
		return
	}
	cw := contentW / float64(cols)

	if len(b.header) > 0 {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(230, 230, 230)
		for i := 0; i < cols; i++ {
			txt := ""
			if i < len(b.header) {
				txt = b.header[i]
			}
			pdf.CellFormat(cw, 7, tr(txt), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.SetFont("Helvetica", "", 10)
	for _, r := range b.rows {
		for i := 0; i < cols; i++ {
			txt := ""
			if i < len(r) {
				txt = r[i]
			}
			pdf.CellFormat(cw, 6, tr(txt), "1", 0, "R", false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(4)
}

func imageType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "JPG"
	case ".png":
		return "PNG"
	}
	return ""
}
