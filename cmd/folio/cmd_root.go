package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/lasmate/folio/internal/i18n"
	"github.com/lasmate/folio/internal/repos"
	"github.com/lasmate/folio/internal/tui"
)

func runRoot(cmd *cobra.Command, args []string) error {
	enableTUI := os.Getenv("FOLIO_TUI") != "0" &&
		isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd())
	if !enableTUI {
		return runRepos(cmd, args)
	}

	a, err := setup(true)
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
	tr, err := a.translator()
	if err != nil {
		return err
	}

	svc := repos.NewService(f, a.logger)
	svcDone := make(chan struct{})
	go func() {
		defer close(svcDone)
		a.logger.Info("repo service starting in background", "user", a.cfg.GitHub.User)
		if err := svc.Run(ctx); err != nil && ctx.Err() == nil {
			a.logger.Error("repo service error", "err", err)
		}
	}()

	panels := make([]tui.PanelSpec, 0, len(a.cfg.Panels))
	for _, p := range a.cfg.Panels {
		panels = append(panels, tui.PanelSpec{
			ID:         p.ID,
			Label:      p.Label,
			Corner:     tui.ParseCorner(p.Corner),
			Background: p.Background,
		})
	}

	m := tui.NewModel(svc, tr, tui.Options{
		Animation:       a.animationConfig(),
		Outline:         a.outline(),
		Vignette:        a.vignette(),
		FPS:             a.cfg.Animation.FPS,
		RefreshInterval: a.cfg.TUI.RefreshInterval,
		Panels:          panels,
		User:            a.cfg.GitHub.User,
		Contact: tui.Contact{
			AcademicEmail: a.cfg.Contact.AcademicEmail,
			PersonalEmail: a.cfg.Contact.PersonalEmail,
			City:          a.cfg.Contact.City,
			Suburb:        a.cfg.Contact.Suburb,
		},
	}, a.logger)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithContext(ctx))

	if dir := a.cfg.LocalesDir; dir != "" {
		w, err := i18n.NewWatcher(dir, i18n.DefaultDebounce, func(cat i18n.Catalog, err error) {
			p.Send(tui.LocalesReloadedMsg{Catalog: cat, Err: err})
		}, a.logger)
		if err != nil {
			return err
		}
		if err := w.Start(ctx); err != nil {
			a.logger.Warn("locale hot reload disabled", "err", err)
		}
		defer w.Stop()
	}

	_, runErr := p.Run()
	stop()
	<-svcDone

	if runErr != nil && !errors.Is(runErr, tea.ErrProgramKilled) {
		return fmt.Errorf("TUI error: %w", runErr)
	}
	return nil
}
