package bootstrap

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"

	"github.com/medvend/portal/config"
	"github.com/medvend/portal/internal/store"
	"github.com/medvend/portal/internal/store/firestore"
	"github.com/medvend/portal/internal/store/memory"
	"github.com/medvend/portal/internal/store/postgres"
)

// OpenStore connects the configured document store. app is only used by the
// Firestore backend.
func OpenStore(ctx context.Context, cfg *config.Config, app *firebase.App) (store.Store, error) {
	switch cfg.Store.Backend {
	case config.StoreFirestore:
		client, err := app.Firestore(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get Firestore client: %w", err)
		}
		return firestore.New(client), nil

	case config.StorePostgres:
		db, err := postgres.NewConnection(&cfg.Database)
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
		return postgres.NewDocumentStore(db), nil

	case config.StoreMemory:
		return memory.New(), nil

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}
