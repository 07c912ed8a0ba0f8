package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/steuerklar/steuerklar/internal/filing"
	"github.com/steuerklar/steuerklar/internal/tui/styles"
)

var (
	findingsYear     int
	findingsComplete []string
	findingsSelect   []string
	findingsFormat   string
)

// findingsResult is the machine-readable output of `steuerklar findings`.
type findingsResult struct {
	Year     int             `json:"year" yaml:"year"`
	Snapshot filing.Snapshot `json:"state" yaml:"state"`
	Findings filing.Findings `json:"findings" yaml:"findings"`
}

var findingsCmd = &cobra.Command{
	Use:   "findings",
	Short: "Run the rule engine without the wizard",
	Long: `Derive errors, problems and hints for a tax year from the configured
defaults plus the given flags.

  --complete wage-statements,general-expenses-insurance
  --select general-expenses=donations,other-topics=children

Items passed to --complete are not checked against the catalog; --select
must name a known group and option.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := currentIdentity(cmd.Context())
		if err != nil {
			return err
		}
		year := findingsYear
		if year == 0 {
			year = defaultYear()
		}
		wiz, err := newWizard(id, year)
		if err != nil {
			return err
		}

		for _, item := range findingsComplete {
			wiz.ToggleCompletion(filing.ItemID(item), true)
		}
		for _, s := range findingsSelect {
			group, item, err := parseSelection(wiz.Catalog(), s)
			if err != nil {
				return err
			}
			wiz.SetSelection(group, item, true)
		}

		res := findingsResult{Year: year, Snapshot: wiz.Snapshot(), Findings: wiz.Findings()}
		logger.Debug("findings derived", "year", year, "total", res.Findings.Total())
		return writeOutput(cmd.OutOrStdout(), findingsFormat, res, func(w io.Writer) error {
			return printFindings(w, wiz.Catalog(), res)
		})
	},
}

// parseSelection splits "group=item" and checks both against the catalog.
func parseSelection(c *filing.Catalog, s string) (string, string, error) {
	group, item, ok := strings.Cut(s, "=")
	if !ok {
		return "", "", fmt.Errorf("--select %q: want group=item", s)
	}
	g, ok := c.Group(group)
	if !ok {
		return "", "", fmt.Errorf("--select %q: unknown group %q", s, group)
	}
	if _, ok := g.Option(item); !ok {
		return "", "", fmt.Errorf("--select %q: group %s has no option %q", s, group, item)
	}
	return group, item, nil
}

func printFindings(w io.Writer, c *filing.Catalog, res findingsResult) error {
	fmt.Fprintln(w, styles.Title.Render(fmt.Sprintf("Steuererklärung %d", res.Year)))
	fmt.Fprintln(w)

	for _, k := range filing.Kinds() {
		list := res.Findings.ByKind(k)
		fmt.Fprintf(w, "%s  %s\n", styles.KindBadge(k.String()), styles.Dim(fmt.Sprintf("%d", len(list))))
		for _, f := range list {
			fmt.Fprintf(w, "  %s\n", styles.Bold(f.Title))
			fmt.Fprintf(w, "    %s %s\n", styles.Label.Render("in"), styles.Dim(c.Label(f.Category)))
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, styles.Divider(50))
	_, err := fmt.Fprintf(w, "%s\n", styles.Dim(fmt.Sprintf("%d Einträge, %d Angaben erledigt",
		res.Findings.Total(), len(res.Snapshot.Completed))))
	return err
}

func init() {
	findingsCmd.Flags().IntVar(&findingsYear, "year", 0, "tax year (default: first configured year)")
	findingsCmd.Flags().StringSliceVar(&findingsComplete, "complete", nil, "item ids to mark done")
	findingsCmd.Flags().StringSliceVar(&findingsSelect, "select", nil, "group options to select, as group=item")
	findingsCmd.Flags().StringVar(&findingsFormat, "format", formatText, "output format: text, json or yaml")
	rootCmd.AddCommand(findingsCmd)
}
