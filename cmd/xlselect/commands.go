package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/JonMunkholm/xlselect/internal/core"
	"github.com/JonMunkholm/xlselect/internal/logging"
	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags.
var Version = "dev"

type globalFlags struct {
	logLevel string
	maxSize  int64
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:           "xlselect",
		Short:         "Pick rows from a spreadsheet and export them to a new workbook",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	root.PersistentFlags().Int64Var(&g.maxSize, "max-size", core.DefaultMaxFileSize, "Maximum input file size in bytes")

	root.AddCommand(newInspectCmd(g), newExportCmd(g))
	return root
}

func (g *globalFlags) logger(cmd *cobra.Command) *slog.Logger {
	return logging.New(cmd.ErrOrStderr(), g.logLevel, "text")
}

// load ingests path into a fresh engine.
func (g *globalFlags) load(cmd *cobra.Command, path string, opts core.Options) (*core.Engine, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	e := core.NewEngine(opts)
	doc, err := e.IngestReader(f, filepath.Base(path), g.maxSize)
	if err != nil {
		return nil, userError(err)
	}
	g.logger(cmd).Info("document ingested",
		"file_name", doc.FileName,
		"sheet", doc.SheetName,
		"rows", doc.Len(),
		"headers", len(doc.Headers),
	)
	return e, nil
}

// userError keeps the technical error and appends the support code and hint.
func userError(err error) error {
	if !core.IsUserFacing(err) {
		return err
	}
	return fmt.Errorf("%w\n%s", err, core.FormatUserError(err))
}

type inspectOutput struct {
	FileName     string        `json:"file_name"`
	SheetName    string        `json:"sheet_name"`
	Headers      []string      `json:"headers"`
	DisplayField string        `json:"display_field"`
	Rows         []core.Choice `json:"rows"`
}

func newInspectCmd(g *globalFlags) *cobra.Command {
	var (
		field  string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "List the headers and the label of every row",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := g.load(cmd, args[0], core.DefaultOptions())
			if err != nil {
				return err
			}
			if field != "" {
				if err := e.SetDisplayField(field); err != nil {
					return userError(err)
				}
			}

			doc := e.Document()
			out := inspectOutput{
				FileName:     doc.FileName,
				SheetName:    doc.SheetName,
				Headers:      doc.Headers,
				DisplayField: e.DisplayField(),
				Rows:         e.Project(),
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}
			return printInspect(cmd.OutOrStdout(), out)
		},
	}

	cmd.Flags().StringVarP(&field, "field", "f", "", "Header used to label rows (default: first header)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	return cmd
}

func printInspect(w io.Writer, out inspectOutput) error {
	fmt.Fprintf(w, "%s (sheet %q): %d rows\n", out.FileName, out.SheetName, len(out.Rows))
	fmt.Fprintf(w, "Headers: %q\n\n", out.Headers)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "ROW\t%s\n", out.DisplayField)
	for _, c := range out.Rows {
		fmt.Fprintf(tw, "%d\t%s\n", c.Index, c.Label)
	}
	return tw.Flush()
}

func newExportCmd(g *globalFlags) *cobra.Command {
	var (
		rows   []int
		output string
		sheet  string
	)

	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Write the chosen rows to a new xlsx workbook",
		Example: `  xlselect export products.xlsx --rows 0,2
  xlselect export products.xls --rows 1 -o picked.xlsx --sheet Picked`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := core.DefaultOptions()
			if sheet != "" {
				opts.ExportSheetName = sheet
			}
			e, err := g.load(cmd, args[0], opts)
			if err != nil {
				return err
			}

			for _, i := range rows {
				if _, err := e.Row(i); err != nil {
					return userError(err)
				}
				if !e.IsSelected(i) {
					e.Toggle(i)
				}
			}

			art, err := e.Export()
			if err != nil {
				return userError(err)
			}

			path := output
			if path == "" {
				path = art.FileName
			}
			if err := os.WriteFile(path, art.Data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d rows to %s\n", art.Rows, path)
			return nil
		},
	}

	cmd.Flags().IntSliceVarP(&rows, "rows", "r", nil, "Row indices to export, zero based (e.g. 0,2)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output path (default: "+core.DefaultExportFileName+")")
	cmd.Flags().StringVar(&sheet, "sheet", "", "Sheet name in the exported workbook (default: "+core.DefaultExportSheetName+")")
	return cmd
}
