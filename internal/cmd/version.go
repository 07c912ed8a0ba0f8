package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/steuerklar/steuerklar/internal/tui/styles"
)

// Build-time variables set via ldflags.
var (
	Version   = "dev"
	GitCommit = "none"
	BuildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		w := cmd.OutOrStdout()
		fmt.Fprintln(w, styles.Cyan(styles.CompactLogo)+"  "+styles.Value.Render("v"+Version))
		fmt.Fprintln(w)
		fmt.Fprintln(w, styles.Label.Render("COMMIT")+"    "+styles.Value.Render(GitCommit))
		fmt.Fprintln(w, styles.Label.Render("BUILT")+"     "+styles.Value.Render(BuildDate))
		fmt.Fprintln(w, styles.Label.Render("GO")+"        "+styles.Value.Render(runtime.Version()))
		fmt.Fprintln(w, styles.Label.Render("OS/ARCH")+"   "+styles.Value.Render(runtime.GOOS+"/"+runtime.GOARCH))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
