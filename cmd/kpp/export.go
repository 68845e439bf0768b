package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"kpp/internal/config"
	"kpp/internal/export"
	"kpp/view"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export FILE",
	Short: "Print a document's print view to PDF with headless Chrome",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		doc, err := openDocument(args[0])
		if err != nil {
			return err
		}
		pair, err := startPair(view.Pair{})
		if err != nil {
			return err
		}
		out := exportOut
		if out == "" {
			out = strings.TrimSuffix(args[0], ".html") + ".pdf"
		}

		chrome := export.NewChrome(log.Default(), cfg.Export.Timeout)
		defer chrome.Close()
		pdf, err := export.Document(cmd.Context(), chrome, doc, pair)
		if err != nil {
			return err
		}
		if err := os.WriteFile(out, pdf, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", out, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%s, %d bytes)\n", out, export.PrintView(doc.Class, pair), len(pdf))
		return nil
	},
}

func init() {
	addDocumentFlags(exportCmd)
	exportCmd.Flags().StringVarP(&exportOut, "output", "o", "", "output file (default FILE with .pdf)")
}
