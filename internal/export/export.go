// Package export prints the print views of assembled documents to PDF.
package export

import (
	"bytes"
	"context"
	"fmt"

	"kpp/view"
)

// PrintView maps p to the print view the class pairs it with. A zero pair
// stands for the class default.
func PrintView(class view.Class, p view.Pair) view.Pair {
	if p == (view.Pair{}) {
		p = class.DefaultPair()
	}
	if p.Medium == view.MediumPrint && class.Allows(p) {
		return p
	}
	if next, ok := class.TogglePrint(p); ok {
		return next
	}
	next, _ := class.TogglePrint(class.DefaultPair())
	return next
}

// Document renders doc in the print view matching pair and prints it.
func Document(ctx context.Context, p Printer, doc *view.Document, pair view.Pair) ([]byte, error) {
	v, err := view.NewViewer(doc, PrintView(doc.Class, pair))
	if err != nil {
		return nil, fmt.Errorf("open viewer: %w", err)
	}
	var buf bytes.Buffer
	if err := v.Render(&buf, nil); err != nil {
		return nil, fmt.Errorf("render %s: %w", v.Pair(), err)
	}
	return p.PrintPDF(ctx, buf.Bytes())
}
