package store

import (
	"context"
	"fmt"

	"github.com/BreadOcT/FAR-NEW-BACKEND-sub001/internal/claims"
	"github.com/BreadOcT/FAR-NEW-BACKEND-sub001/internal/config"
	"github.com/BreadOcT/FAR-NEW-BACKEND-sub001/internal/logging"
)

// Open returns the claim store selected by cfg.Driver.
func Open(ctx context.Context, cfg config.StoreConfig) (claims.Store, error) {
	logging.BootDebug("opening %s store", cfg.Driver)
	switch cfg.Driver {
	case config.DriverMemory:
		return claims.NewMemoryStore(), nil
	case config.DriverSQLite, "":
		return NewSQLiteStore(cfg.Path)
	case config.DriverPostgres:
		return NewPostgresStore(ctx, cfg.DSN)
	case config.DriverFile:
		return NewFileStore(cfg.File)
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
}

// Seed writes recs into s, replacing claims that share an id.
func Seed(ctx context.Context, s claims.Store, recs []claims.Record) (int, error) {
	for i, rec := range recs {
		if rec.ID == "" {
			return i, fmt.Errorf("claim #%d has no id", i+1)
		}
		if !rec.Status.Valid() {
			logging.Get(logging.CategoryStore).Warn("seeding claim %s with unknown status %q", rec.ID, rec.Status)
		}
		if err := s.Put(ctx, rec); err != nil {
			return i, err
		}
	}
	return len(recs), nil
}
