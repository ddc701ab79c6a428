package pdf

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"gridbill/internal/port"
)

// cellGap is the horizontal distance (in PDF text units) between two words
// before they are treated as separate cells when rebuilding tabular rows.
const cellGap = 12.0

// Extractor reads text and row-structured content from PDF documents.
// It implements port.DocumentSource.
type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// Pages extracts every page of the PDF as plain text plus a pseudo-table
// rebuilt from the page's positioned text rows. Pages that fail to decode
// are skipped rather than failing the whole document.
func (e *Extractor) Pages(ctx context.Context, content []byte) ([]port.Page, error) {
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("opening pdf: %w", err)
	}

	pages := make([]port.Page, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		p := reader.Page(i)
		if p.V.IsNull() {
			continue
		}

		text, err := p.GetPlainText(nil)
		if err != nil {
			continue
		}

		page := port.Page{Text: text}
		if table := rowTable(p); len(table) > 0 {
			page.Tables = [][][]string{table}
		}
		pages = append(pages, page)
	}

	return pages, nil
}

// rowTable rebuilds a single table from the page's positioned text, one
// table row per visual line, cells split on horizontal gaps.
func rowTable(p pdf.Page) [][]string {
	rows, err := p.GetTextByRow()
	if err != nil {
		return nil
	}

	table := make([][]string, 0, len(rows))
	for _, row := range rows {
		cells := splitCells(row.Content)
		if len(cells) > 0 {
			table = append(table, cells)
		}
	}
	return table
}

func splitCells(texts pdf.TextHorizontal) []string {
	var cells []string
	var cell strings.Builder
	lastEnd := 0.0

	for _, t := range texts {
		if cell.Len() > 0 && t.X-lastEnd > cellGap {
			cells = append(cells, strings.TrimSpace(cell.String()))
			cell.Reset()
		}
		cell.WriteString(t.S)
		lastEnd = t.X + t.W
	}
	if s := strings.TrimSpace(cell.String()); s != "" {
		cells = append(cells, s)
	}

	// Drop rows that collapsed to nothing.
	nonEmpty := false
	for _, c := range cells {
		if c != "" {
			nonEmpty = true
			break
		}
	}
	if !nonEmpty {
		return nil
	}
	return cells
}
