package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/steuerklar/steuerklar/internal/appointments"
	"github.com/steuerklar/steuerklar/internal/tui/styles"
)

var apptsFormat string

var appointmentsCmd = &cobra.Command{
	Use:   "appointments",
	Short: "Show appointments with the tax advisor",
	Long: `Show the next and past appointments of the configured taxpayer.

Appointments are read from appointments.databaseURL. When no database is
configured or it cannot be reached, example data is shown and marked.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := currentIdentity(cmd.Context())
		if err != nil {
			return err
		}
		svc, release := openAppointments(cmd.Context(), logger)
		defer release()

		ov := svc.Get(cmd.Context(), id.ID)
		return writeOutput(cmd.OutOrStdout(), apptsFormat, ov, func(w io.Writer) error {
			return printOverview(w, ov)
		})
	},
}

func printOverview(w io.Writer, ov appointments.Overview) error {
	fmt.Fprintln(w, styles.Title.Render("Termine"))
	if ov.Example {
		fmt.Fprintln(w, styles.Gold(ov.Notice))
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, styles.Subtitle.Render("Nächster Termin"))
	if ov.Next == nil {
		fmt.Fprintln(w, "  "+styles.Dim("keiner"))
	} else {
		fmt.Fprintln(w, "  "+styles.Value.Render(appointments.Format(*ov.Next)))
		if ov.Next.Notes != "" {
			fmt.Fprintln(w, "  "+styles.Dim(ov.Next.Notes))
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, styles.Subtitle.Render("Vergangene Termine"))
	if len(ov.Past) == 0 {
		fmt.Fprintln(w, "  "+styles.Dim("keine"))
	}
	for _, a := range ov.Past {
		fmt.Fprintln(w, "  "+appointments.Format(a))
	}
	return nil
}

func init() {
	appointmentsCmd.Flags().StringVar(&apptsFormat, "format", formatText, "output format: text, json or yaml")
	rootCmd.AddCommand(appointmentsCmd)
}
