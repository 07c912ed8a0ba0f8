package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/steuerklar/steuerklar/internal/documents"
	"github.com/steuerklar/steuerklar/internal/filing"
	"github.com/steuerklar/steuerklar/internal/tui/styles"
)

var (
	docsYear     int
	docsCategory string
	docsFormat   string
	docsOut      string
)

// --- documents (parent) ---

var documentsCmd = &cobra.Command{
	Use:     "documents",
	Aliases: []string{"docs"},
	Short:   "Manage receipts and certificates",
	Long: `Upload, list, download and delete documents in the workspace store.

Documents are tagged with a tax year and a category, which is a topic
address such as employee-commute or general-expenses-insurance
(see 'steuerklar topics').`,
}

// --- documents list ---

var documentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List documents, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(logger)
		if err != nil {
			return err
		}
		docs, err := store.List(docsYear, docsCategory)
		if err != nil {
			return err
		}
		return writeOutput(cmd.OutOrStdout(), docsFormat, docs, func(w io.Writer) error {
			return printDocuments(w, docs)
		})
	},
}

func printDocuments(w io.Writer, docs []documents.Document) error {
	if len(docs) == 0 {
		_, err := fmt.Fprintln(w, styles.Dim("  Keine Belege gefunden."))
		return err
	}
	fmt.Fprintf(w, "  %s  %s  %s  %s  %s\n",
		styles.TableHeader.Width(36).Render("ID"),
		styles.TableHeader.Width(28).Render("NAME"),
		styles.TableHeader.Width(6).Render("JAHR"),
		styles.TableHeader.Width(30).Render("KATEGORIE"),
		styles.TableHeader.Width(10).Render("HOCHGELADEN"),
	)
	for i, d := range docs {
		row := styles.TableRow(i%2 == 0)
		fmt.Fprintf(w, "  %s  %s  %s  %s  %s\n",
			row.Width(36).Render(d.ID),
			row.Width(28).Render(styles.TruncateWithEllipsis(d.Name, 28)),
			row.Width(6).Render(fmt.Sprintf("%d", d.Year)),
			row.Width(30).Render(styles.TruncateWithEllipsis(d.Category, 30)),
			row.Width(10).Render(d.UploadDate.Local().Format("02.01.2006")),
		)
	}
	return nil
}

// --- documents upload ---

var documentsUploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Copy a file into the document store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if docsCategory != "" {
			if _, err := filing.DefaultCatalog().ParseAddress(docsCategory); err != nil {
				return fmt.Errorf("--category: %w", err)
			}
		}
		year := docsYear
		if year == 0 {
			year = defaultYear()
		}

		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening %s: %w", args[0], err)
		}
		defer f.Close()

		store, err := openStore(logger)
		if err != nil {
			return err
		}
		doc, err := store.Upload(cmd.Context(), f, documents.Meta{
			Name:     filepath.Base(args[0]),
			Year:     year,
			Category: docsCategory,
		}, nil)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), styles.Green("Hochgeladen:")+" "+styles.Value.Render(doc.Name)+"  "+styles.Dim(doc.ID))
		return nil
	},
}

// --- documents download ---

var documentsDownloadCmd = &cobra.Command{
	Use:   "download <id>",
	Short: "Write a document to a file or stdout",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(logger)
		if err != nil {
			return err
		}
		doc, err := store.Get(args[0])
		if err != nil {
			return err
		}
		rc, err := store.Download(doc.ID)
		if err != nil {
			return err
		}
		defer rc.Close()

		if docsOut == "-" {
			_, err = io.Copy(cmd.OutOrStdout(), rc)
			return err
		}
		target := docsOut
		if target == "" {
			target = doc.Name
		}
		out, err := os.Create(target)
		if err != nil {
			return fmt.Errorf("creating %s: %w", target, err)
		}
		if _, err := io.Copy(out, rc); err != nil {
			out.Close()
			return fmt.Errorf("writing %s: %w", target, err)
		}
		if err := out.Close(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.ErrOrStderr(), styles.Green("Gespeichert:")+" "+target)
		return nil
	},
}

// --- documents delete ---

var documentsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove a document from the store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(logger)
		if err != nil {
			return err
		}
		if err := store.Delete(args[0]); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), styles.Green("Gelöscht:")+" "+args[0])
		return nil
	},
}

func init() {
	documentsListCmd.Flags().IntVar(&docsYear, "year", 0, "only documents of this tax year")
	documentsListCmd.Flags().StringVar(&docsCategory, "category", "", "only documents under this topic address")
	documentsListCmd.Flags().StringVar(&docsFormat, "format", formatText, "output format: text, json or yaml")

	documentsUploadCmd.Flags().IntVar(&docsYear, "year", 0, "tax year (default: first configured year)")
	documentsUploadCmd.Flags().StringVar(&docsCategory, "category", "", "topic address the document belongs to")

	documentsDownloadCmd.Flags().StringVarP(&docsOut, "out", "o", "", "target file, - for stdout (default: original name)")

	documentsCmd.AddCommand(documentsListCmd)
	documentsCmd.AddCommand(documentsUploadCmd)
	documentsCmd.AddCommand(documentsDownloadCmd)
	documentsCmd.AddCommand(documentsDeleteCmd)
	rootCmd.AddCommand(documentsCmd)
}
