package countries

import (
	"context"
	"fmt"

	"phonenumber_validator/internal/phonenumber"
	"phonenumber_validator/platform/config"
	"phonenumber_validator/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRegistry builds the registry selected by cfg. pool is only used for the
// postgres source; an empty table is seeded from the embedded patterns first.
func NewRegistry(ctx context.Context, cfg config.RegistryConfig, pool *pgxpool.Pool, log *logger.Logger) (phonenumber.Registry, error) {
	switch cfg.GetPatternSource() {
	case config.PatternSourceStatic, "":
		if file := cfg.GetPatternFile(); file != "" {
			log.Info("loading country patterns", "source", "file", "path", file)
			return LoadStaticFile(file)
		}
		log.Info("loading country patterns", "source", "embedded")
		return DefaultStatic()

	case config.PatternSourceLibPhoneNumber:
		log.Info("loading country patterns", "source", config.PatternSourceLibPhoneNumber)
		return NewLibPhoneNumber(), nil

	case config.PatternSourcePostgres:
		if pool == nil {
			return nil, fmt.Errorf("postgres pattern source requires a database pool")
		}
		log.Info("loading country patterns", "source", config.PatternSourcePostgres)
		return loadFromPostgres(ctx, NewRepository(pool), log)

	default:
		return nil, fmt.Errorf("unknown pattern source %q", cfg.GetPatternSource())
	}
}

type patternStore interface {
	Count(ctx context.Context) (int, error)
	Seed(ctx context.Context, entries []Entry) error
	Load(ctx context.Context) (*Static, error)
}

func loadFromPostgres(ctx context.Context, store patternStore, log *logger.Logger) (*Static, error) {
	n, err := store.Count(ctx)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		entries, err := DefaultEntries()
		if err != nil {
			return nil, err
		}
		if err := store.Seed(ctx, entries); err != nil {
			return nil, err
		}
		log.Info("seeded country patterns", "count", len(entries))
	}
	return store.Load(ctx)
}
