package main

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/BreadOcT/FAR-NEW-BACKEND-sub001/cmd/far/desk"
	"github.com/BreadOcT/FAR-NEW-BACKEND-sub001/cmd/far/ui"
	"github.com/BreadOcT/FAR-NEW-BACKEND-sub001/internal/metrics"
	"github.com/BreadOcT/FAR-NEW-BACKEND-sub001/internal/navigation"
	"github.com/BreadOcT/FAR-NEW-BACKEND-sub001/internal/store"
)

var deskView string

// runDesk runs the interactive desk together with the claims file watcher
// and the metrics endpoint. Whichever stops first stops the others.
func runDesk(cmd *cobra.Command, args []string) error {
	start, err := navigation.ParseTopView(deskView)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer s.Close()

	theme := ui.ThemeFor(cfg.UI.Theme)
	renderer, err := ui.NewRenderer(theme, cfg.UI.WrapWidth)
	if err != nil {
		return err
	}

	rec := metrics.New()
	model := desk.New(ctx, desk.Options{
		Store:       s,
		Styles:      ui.NewStyles(theme),
		Renderer:    renderer,
		Contacter:   browserContacter{},
		Metrics:     rec,
		Workflow:    workflowOptions(s, nil, rec),
		ShowContact: cfg.UI.ShowContact,
		View:        start,
	})

	g, gctx := errgroup.WithContext(ctx)

	if fs, ok := s.(*store.FileStore); ok && cfg.Store.Watch {
		w, err := store.NewWatcher(fs.Path(), model.NotifyChanged)
		if err != nil {
			return err
		}
		if err := w.Start(gctx); err != nil {
			return err
		}
		defer w.Stop()
		logger.Info("watching claims file", zap.String("path", fs.Path()))
	}

	if addr := cfg.Metrics.Addr; addr != "" {
		g.Go(func() error {
			return rec.Serve(gctx, addr)
		})
	}

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(gctx))
	g.Go(func() error {
		defer cancel()
		_, err := desk.Run(p)
		if errors.Is(err, tea.ErrProgramKilled) {
			// Another group member failed; its error wins.
			return nil
		}
		return err
	})

	return g.Wait()
}
