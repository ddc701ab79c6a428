package port

import "context"

// Page is one page of a bill document: its plain text plus any raw tables
// the extraction collaborator recovered. A table is an ordered list of
// rows; blank cells are empty strings.
type Page struct {
	Text   string
	Tables [][][]string
}

// DocumentSource turns raw document bytes into ordered pages. The core
// pipeline never parses document bytes itself.
type DocumentSource interface {
	Pages(ctx context.Context, content []byte) ([]Page, error)
}
