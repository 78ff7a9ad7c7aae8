package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/lasmate/folio/internal/repos"
)

const maxCardWidth = 60

var reposJSON bool

var reposCmd = &cobra.Command{
	Use:   "repos",
	Short: "Print the GitHub repository cards",
	Long: `Fetch the configured user's repositories, or read them from the cache
when it is fresh, and print one card per repository.`,
	RunE: runRepos,
}

var cardNameStyle = lipgloss.NewStyle().Bold(true)

func runRepos(cmd *cobra.Command, args []string) error {
	a, err := setup(false)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	f, err := a.fetcher()
	if err != nil {
		return err
	}
	if err := f.EnsureVersion(); err != nil {
		a.logger.Warn("check cache version", "err", err)
	}

	res, err := f.Fetch(ctx, nil)
	if err != nil {
		return err
	}
	a.logger.Info("cards ready", "count", len(res.Cards), "from_cache", res.FromCache, "skipped", res.Skipped)

	out := cmd.OutOrStdout()
	if reposJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res.Cards)
	}

	labels := repos.DefaultLabels
	if tr, err := a.translator(); err == nil {
		labels.NoDescription = tr.T("repos.no_description")
	}
	return printCards(out, res.Cards, cardWidth(), labels)
}

func printCards(w io.Writer, cards []repos.Card, width int, labels repos.Labels) error {
	for i, c := range cards {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		for j, line := range repos.Format(c, width, labels) {
			if j == 0 {
				line = cardNameStyle.Render(line)
			}
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}
	return nil
}

// cardWidth fits cards to the terminal, capped for readability.
func cardWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return maxCardWidth
	}
	w, _, err := term.GetSize(fd)
	if err != nil || w <= 0 {
		return maxCardWidth
	}
	return min(w, maxCardWidth)
}
