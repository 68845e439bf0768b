package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"kpp/view"
)

var tocCmd = &cobra.Command{
	Use:   "toc FILE",
	Short: "Print the generated table of contents of a document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := openDocument(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s (%s, %s)\n", firstNonBlank(doc.Title, args[0]), doc.Class, doc.Scope)
		writeEntries(out, doc.TOC, 1)
		return nil
	},
}

func init() {
	addDocumentFlags(tocCmd)
}

func writeEntries(w io.Writer, entries []*view.Entry, depth int) {
	for _, e := range entries {
		fmt.Fprintf(w, "%s%s  #%s\n", strings.Repeat("  ", depth), strings.Join(strings.Fields(e.Text()), " "), e.Target)
		writeEntries(w, e.Children, depth+1)
	}
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
