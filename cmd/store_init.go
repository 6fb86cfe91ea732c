package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rotisserie/eris"

	"github.com/brewkit/brewcat/internal/store"
)

func initStore(ctx context.Context) (store.Store, error) {
	tol := cfg.Ingest.Tolerance()
	switch cfg.Store.Driver {
	case "sqlite":
		path := cfg.Store.Path
		if path == "" {
			path = "brewcat.db"
		}
		return store.NewSQLite(path, tol)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, tol, &cfg.Store.Pool)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return eris.Wrap(err, "encode output")
	}
	fmt.Println(string(out))
	return nil
}
