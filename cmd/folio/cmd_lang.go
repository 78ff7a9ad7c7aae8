package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var langCmd = &cobra.Command{
	Use:   "lang [code]",
	Short: "Show or set the interface language",
	Long: `Persist the interface language used by the TUI.

With no code on a terminal, opens a picker. Without a terminal, prints the
current language and the available ones.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLang,
}

func runLang(cmd *cobra.Command, args []string) error {
	a, err := setup(false)
	if err != nil {
		return err
	}
	defer a.Close()

	tr, err := a.translator()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	var code string
	switch {
	case len(args) == 1:
		code = args[0]
	case term.IsTerminal(int(os.Stdin.Fd())):
		code = tr.Language()
		opts := make([]huh.Option[string], 0)
		for _, o := range tr.Selector() {
			opts = append(opts, huh.NewOption(fmt.Sprintf("%s (%s)", o.Label, o.Code), o.Code).Selected(o.Checked))
		}
		err := huh.NewSelect[string]().
			Title(tr.T("ui.language")).
			Options(opts...).
			Value(&code).
			Run()
		if err != nil {
			return fmt.Errorf("language picker: %w", err)
		}
	default:
		for _, o := range tr.Selector() {
			mark := " "
			if o.Checked {
				mark = "*"
			}
			fmt.Fprintf(out, "%s %s  %s\n", mark, o.Code, o.Label)
		}
		return nil
	}

	if err := tr.SetLanguage(code); err != nil {
		return fmt.Errorf("set language %q: %w", code, err)
	}
	fmt.Fprintf(out, "%s: %s\n", tr.T("ui.language"), tr.T("lang.name"))
	return nil
}
