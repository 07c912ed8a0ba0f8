package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/steuerklar/steuerklar/internal/filing"
	"github.com/steuerklar/steuerklar/internal/tui/styles"
)

var topicsFormat string

type topicEntry struct {
	Address  string   `json:"address" yaml:"address"`
	Label    string   `json:"label" yaml:"label"`
	Amount   string   `json:"amount,omitempty" yaml:"amount,omitempty"`
	Options  []string `json:"options,omitempty" yaml:"options,omitempty"`
	Defaults []string `json:"defaults,omitempty" yaml:"defaults,omitempty"`
}

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "List the topic catalog and its addresses",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := filing.DefaultCatalog()
		entries := catalogEntries(c)
		return writeOutput(cmd.OutOrStdout(), topicsFormat, entries, func(w io.Writer) error {
			return printTopics(w, c)
		})
	},
}

// catalogEntries flattens the catalog into addressable rows.
func catalogEntries(c *filing.Catalog) []topicEntry {
	var out []topicEntry
	for _, t := range c.Topics() {
		out = append(out, topicEntry{Address: t.ID, Label: t.Label})
		for _, s := range t.SubItems {
			e := topicEntry{
				Address: filing.SubItemAddress(t.ID, s.ID).String(),
				Label:   s.Label,
			}
			if s.Amount != nil {
				e.Amount = s.Amount.String()
			}
			if g, ok := c.Group(e.Address); ok {
				for _, o := range g.Options {
					e.Options = append(e.Options, o.ID)
				}
				e.Defaults = g.Defaults
			}
			out = append(out, e)
		}
	}
	return out
}

func printTopics(w io.Writer, c *filing.Catalog) error {
	fmt.Fprintln(w, styles.Title.Render("Themen"))
	fmt.Fprintln(w)
	for _, t := range c.Topics() {
		fmt.Fprintf(w, "%s  %s\n", styles.Bold(t.Label), styles.Dim(t.ID))
		for _, s := range t.SubItems {
			addr := filing.SubItemAddress(t.ID, s.ID).String()
			line := fmt.Sprintf("  %-32s %s", s.Label, styles.Dim(addr))
			if s.Amount != nil {
				line += "  " + styles.Gold(s.Amount.String())
			}
			fmt.Fprintln(w, line)

			g, ok := c.Group(addr)
			if !ok {
				continue
			}
			for _, o := range g.Options {
				mark := " "
				for _, d := range g.Defaults {
					if d == o.ID {
						mark = styles.Cyan("*")
					}
				}
				fmt.Fprintf(w, "    %s %-28s %s\n", mark, o.Label,
					styles.Dim(filing.GroupItemAddress(g.ID, o.ID).String()))
			}
		}
	}
	_, err := fmt.Fprintln(w, "\n"+styles.Dim("* = standardmäßig ausgewählt"))
	return err
}

func init() {
	topicsCmd.Flags().StringVar(&topicsFormat, "format", formatText, "output format: text, json or yaml")
	rootCmd.AddCommand(topicsCmd)
}
