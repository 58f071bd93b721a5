package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/BreadOcT/FAR-NEW-BACKEND-sub001/cmd/far/ui"
	"github.com/BreadOcT/FAR-NEW-BACKEND-sub001/internal/claims"
	"github.com/BreadOcT/FAR-NEW-BACKEND-sub001/internal/logging"
	"github.com/BreadOcT/FAR-NEW-BACKEND-sub001/internal/orders"
	"github.com/BreadOcT/FAR-NEW-BACKEND-sub001/internal/store"
)

// slowLoad is the store read time above which a warning is logged.
const slowLoad = 500 * time.Millisecond

var (
	ordersQuery     string
	historyQuery    string
	historyCategory string
)

// loadPartitions reads one claim snapshot and splits it.
func loadPartitions(ctx context.Context) (orders.Partitioned, error) {
	s, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return orders.Partitioned{}, err
	}
	defer s.Close()

	timer := logging.StartTimer(logging.CategoryStore, "load claims")
	recs, err := s.List(ctx)
	timer.StopWithThreshold(slowLoad)
	if err != nil {
		return orders.Partitioned{}, fmt.Errorf("failed to list claims: %w", err)
	}
	p := orders.Partition(recs)
	if len(p.Dropped) > 0 {
		logger.Warn("claims with unknown status skipped", zap.Strings("ids", p.Dropped))
	}
	return p, nil
}

func runOrders(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.GetStoreTimeout())
	defer cancel()

	p, err := loadPartitions(ctx)
	if err != nil {
		return err
	}
	items := orders.FilterOrders(p.Active, ordersQuery)
	logger.Debug("listing orders", zap.Int("active", len(p.Active)), zap.Int("shown", len(items)))

	title := fmt.Sprintf("Pesanan aktif (%d)", len(items))
	fmt.Print(ui.OrdersTable(title, items, false).View(cliStyles()))
	return nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	category, err := orders.ParseCategory(historyCategory)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.GetStoreTimeout())
	defer cancel()

	p, err := loadPartitions(ctx)
	if err != nil {
		return err
	}
	items := orders.FilterHistory(p.History, historyQuery, category)
	logger.Debug("listing history", zap.Int("history", len(p.History)), zap.Int("shown", len(items)),
		zap.String("category", string(category)))

	title := fmt.Sprintf("Riwayat pesanan (%d)", len(items))
	fmt.Print(ui.OrdersTable(title, items, true).View(cliStyles()))
	return nil
}

// findOrder projects the claim with the given id.
func findOrder(ctx context.Context, s claims.Source, id string) (orders.OrderView, error) {
	recs, err := s.List(ctx)
	if err != nil {
		return orders.OrderView{}, fmt.Errorf("failed to list claims: %w", err)
	}
	for _, rec := range recs {
		if rec.ID == id {
			return orders.Project(rec), nil
		}
	}
	return orders.OrderView{}, fmt.Errorf("order %s: %w", id, claims.ErrNotFound)
}

func runTrail(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.GetStoreTimeout())
	defer cancel()

	s, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer s.Close()

	sl, ok := s.(store.StatusLogger)
	if !ok {
		return fmt.Errorf("the %s store keeps no status log", cfg.Store.Driver)
	}
	view, err := findOrder(ctx, s, args[0])
	if err != nil {
		return err
	}
	log, err := sl.StatusLog(ctx, view.ID)
	if err != nil {
		return err
	}

	table := ui.NewSimpleTable(fmt.Sprintf("Riwayat status %s (%s)", view.FoodName, view.ID), []string{"#", "Dari", "Ke"})
	table.Empty = "Belum ada perubahan status."
	for i, tr := range log {
		table.AddRow(strconv.Itoa(i+1), string(tr.From), string(tr.To))
	}
	fmt.Print(table.View(cliStyles()))
	return nil
}

func cliStyles() ui.Styles {
	return ui.NewStyles(ui.ThemeFor(cfg.UI.Theme))
}
