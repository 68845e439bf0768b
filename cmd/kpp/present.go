package main

import (
	"fmt"
	"io"
	"log"

	"github.com/spf13/cobra"

	"kpp/internal/config"
	"kpp/internal/present"
	"kpp/view"
)

var presentCmd = &cobra.Command{
	Use:   "present FILE",
	Short: "Present a document in the terminal",
	Long: `Present a document in the terminal. C, S and P toggle code, slide and
print views, H shows help, arrows and space move through slides or chapters,
[ and ] scroll the navigation bar and q quits.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		log.SetOutput(io.Discard)

		doc, err := openDocument(args[0])
		if err != nil {
			return err
		}
		initial, err := startPair(cfg.PresentPair())
		if err != nil {
			return err
		}
		if initial != (view.Pair{}) && !doc.Class.Allows(initial) {
			return fmt.Errorf("%s is not a %s view", initial, doc.Class)
		}
		v, err := view.NewViewer(doc, initial)
		if err != nil {
			return err
		}
		return present.Run(v, cfg.Present.Width)
	},
}

func init() {
	addDocumentFlags(presentCmd)
}
