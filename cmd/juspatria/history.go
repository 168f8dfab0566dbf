package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"juspatria-backend/interpretation"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

var (
	exportFormat string
	exportDir    string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List, show, export or clear past interpretations",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List past interpretations, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd, false)
		if err != nil {
			return err
		}
		defer a.Close()

		items, err := a.History.List(cmd.Context())
		if err != nil {
			return err
		}
		if len(items) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Nenhum histórico encontrado.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		for _, item := range items {
			fmt.Fprintf(w, "%s\t%s\t%s\n", item.ID, item.Date, item.Preview)
		}
		return w.Flush()
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print one past interpretation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd, false)
		if err != nil {
			return err
		}
		defer a.Close()

		item, err := a.History.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		header := fmt.Sprintf("## %s\n\n_%s_\n\n", item.Preview, item.Date)
		return printMarkdown(cmd.OutOrStdout(), header+blocksMarkdown(interpretation.Segment(item.Result)))
	},
}

var historyExportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Write one past interpretation to a txt or md file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd, false)
		if err != nil {
			return err
		}
		defer a.Close()

		exp, err := a.History.Export(cmd.Context(), args[0], exportFormat)
		if err != nil {
			return err
		}
		path := filepath.Join(exportDir, exp.Filename)
		if err := os.WriteFile(path, exp.Content, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every past interpretation",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd, false)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.History.Clear(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Histórico apagado.")
		return nil
	},
}

func init() {
	historyExportCmd.Flags().StringVar(&exportFormat, "format", "md", "txt or md")
	historyExportCmd.Flags().StringVar(&exportDir, "dir", ".", "output directory")

	historyCmd.AddCommand(historyListCmd, historyShowCmd, historyExportCmd, historyClearCmd)
}

// printMarkdown styles md for the terminal unless --plain is set
func printMarkdown(w io.Writer, md string) error {
	if plain {
		_, err := fmt.Fprint(w, md)
		return err
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return err
	}
	out, err := renderer.Render(md)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(w, out)
	return err
}
