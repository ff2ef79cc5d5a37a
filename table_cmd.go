package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dgnsrekt/morsecast/internal/morse"
	"github.com/muesli/reflow/padding"
	"github.com/spf13/cobra"
)

var tableCmd = &cobra.Command{
	Use:     "table [standard|extended]",
	Short:   "Print the Morse code table",
	Long:    paragraph(fmt.Sprintf("\n%s the characters morsecast can key and their codes. The extended table adds punctuation.", keyword("Print"))),
	Example: paragraph("morsecast table\nmorsecast table extended"),
	Args:    cobra.MaximumNArgs(1),
	ValidArgs: []string{
		morse.TableStandard,
		morse.TableExtended,
	},
	RunE: func(_ *cobra.Command, args []string) error {
		name := morse.TableStandard
		if len(args) > 0 {
			name = strings.ToLower(args[0])
		}
		table, err := morse.TableByName(name)
		if err != nil {
			return err //nolint:wrapcheck
		}
		return printTable(os.Stdout, table)
	},
}

// printTable writes one row per entry in code point order.
func printTable(w io.Writer, table morse.Table) error {
	for _, r := range table.Runes() {
		code, _ := table.Lookup(r)
		label := string(r)
		if r == ' ' {
			label = "space"
		}
		if _, err := fmt.Fprintf(w, "%s %s\n", keyword(padding.String(label, 6)), faint(code)); err != nil {
			return fmt.Errorf("unable to write to writer: %w", err)
		}
	}
	return nil
}
