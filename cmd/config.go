package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/daikw/philofight/internal/config"
)

func handleConfigInit(ctx context.Context, c *cli.Command) error {
	loader := config.NewLoader()

	configPath := loader.ProjectFile(".")
	if c.Bool("global") {
		configPath = loader.GlobalFile()
	}

	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config file already exists: %s", configPath)
	}
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	// secrets live here, so owner-only
	if err := os.WriteFile(configPath, []byte(config.GenerateExample()), 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	fmt.Printf("Created configuration: %s\n", configPath)
	fmt.Println("\nSet PHILOFIGHT_PUBLIC_KEY and PHILOFIGHT_VENDOR_URL, or edit the file.")
	fmt.Println("Use ${ENV_VAR} syntax for sensitive values like keys.")
	return nil
}

func handleConfigShow(ctx context.Context, c *cli.Command) error {
	cfg, path, err := loadConfig()
	if err != nil {
		return err
	}

	if path == "" {
		fmt.Println("No configuration file found.")
		fmt.Println("\nSearched locations:")
		fmt.Printf("  - %s (project)\n", config.ProjectPath)
		fmt.Println("  - ~/.philofight/config.json (global)")
		fmt.Println("\nRun 'philofight config init' to create one.")
	} else {
		fmt.Printf("Loaded from %s\n", path)
	}

	output, err := json.MarshalIndent(cfg.MaskSecrets(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to format config: %w", err)
	}
	fmt.Println("Effective configuration (secrets masked):")
	fmt.Println(string(output))

	r := cfg.Resolve()
	fmt.Printf("\nvendor=%s timeout=%s maxAttempts=%d\n", r.Vendor, r.ConnectTimeout, r.MaxAttempts)
	return nil
}

func handleConfigValidate(ctx context.Context, c *cli.Command) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	problems := cfg.Validate()
	if cfg.CatalogPath != "" {
		if _, err := loadCatalog(cfg.CatalogPath); err != nil {
			problems = append(problems, err.Error())
		}
	}
	if len(problems) == 0 {
		fmt.Println("Configuration is valid.")
		return nil
	}

	fmt.Println("Configuration has errors:")
	for _, p := range problems {
		fmt.Printf("  - %s\n", p)
	}
	return fmt.Errorf("configuration validation failed")
}
