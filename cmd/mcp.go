package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/daikw/philofight/internal/mcpserver"
)

func handleMCP(ctx context.Context, c *cli.Command) error {
	cat, err := catalogFromConfig()
	if err != nil {
		return err
	}
	if err := mcpserver.Serve(cat, version); err != nil {
		return fmt.Errorf("mcp server stopped: %w", err)
	}
	return nil
}
