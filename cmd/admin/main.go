// Command admin provides operator tooling for shift exchanges.
package main

import (
	"context"
	"fmt"
	"os"

	"shiftswap/internal/admin"
	"shiftswap/internal/bootstrap"
	"shiftswap/internal/cache"
	"shiftswap/internal/config"
	"shiftswap/internal/service"
)

func main() {
	root := admin.NewRootCmd(func() (*admin.Runtime, error) {
		cfg, err := config.LoadConfig()
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		db, _, err := bootstrap.InitRuntime(cfg, bootstrap.Options{})
		if err != nil {
			return nil, err
		}
		return &admin.Runtime{DB: db, Invalidate: service.CacheInvalidator}, nil
	})

	err := root.ExecuteContext(context.Background())
	if client := cache.GetClient(); client != nil {
		_ = client.Close()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
