package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/daikw/philofight/internal/catalog"
)

// loadCatalog returns the catalog file named in the config, or the
// built-in one
func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default(), nil
	}
	cat, err := catalog.Load(path)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("path", path).Msg("Using catalog file")
	return cat, nil
}

func catalogFromConfig() (*catalog.Catalog, error) {
	cfg, _, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return loadCatalog(cfg.CatalogPath)
}

func handleDebates(ctx context.Context, c *cli.Command) error {
	cat, err := catalogFromConfig()
	if err != nil {
		return err
	}

	debates := cat.Search(c.String("search"))
	if category := c.String("category"); category != "" {
		var filtered []catalog.Debate
		for _, d := range debates {
			if strings.EqualFold(d.Category, category) {
				filtered = append(filtered, d)
			}
		}
		debates = filtered
	}

	if len(debates) == 0 {
		fmt.Println("No debates found.")
		fmt.Printf("Categories: %s\n", strings.Join(cat.Categories(), ", "))
		return nil
	}

	bold := color.New(color.Bold).SprintFunc()
	faint := color.New(color.Faint).SprintFunc()
	for _, d := range debates {
		fmt.Printf("  %-18s %s %s\n", d.ID, bold(d.Title), faint("["+d.Category+"]"))
		fmt.Printf("  %-18s %s\n", "", participants(cat, d))
	}
	return nil
}

func handleShow(ctx context.Context, c *cli.Command) error {
	id := c.Args().Get(0)
	if id == "" {
		return fmt.Errorf("debate id is required")
	}

	cat, err := catalogFromConfig()
	if err != nil {
		return err
	}
	d, ok := cat.Debate(id)
	if !ok {
		return fmt.Errorf("debate '%s' does not exist", id)
	}

	color.New(color.Bold).Println(d.Title)
	fmt.Printf("Topic:    %s\n", d.Topic)
	fmt.Printf("Category: %s\n", d.Category)
	if d.Description != "" {
		fmt.Printf("\n%s\n", d.Description)
	}

	fmt.Println("\nLineup:")
	for _, pid := range d.PersonaIDs() {
		p, ok := cat.Philosopher(pid)
		if !ok {
			fmt.Printf("  - %s (unknown)\n", pid)
			continue
		}
		speakerColor(p.Name).Printf("  - %s", p.Name)
		fmt.Printf(" (%s, %s)\n", p.School, p.Era)
	}
	if d.Squad != nil {
		fmt.Println("\nHand-offs:")
		for _, m := range d.Squad.Members {
			for _, dest := range m.Destinations {
				fmt.Printf("  %s -> %s\n", displayName(cat, m.PersonaID), dest.TargetPersonaName)
			}
		}
	}
	if d.SquadID != "" {
		fmt.Printf("\nHosted squad: %s\n", d.SquadID)
	}

	fmt.Printf("\nJoin with: philofight join %s\n", d.ID)
	return nil
}

func handlePhilosophers(ctx context.Context, c *cli.Command) error {
	cat, err := catalogFromConfig()
	if err != nil {
		return err
	}

	for _, p := range cat.Philosophers() {
		speakerColor(p.Name).Printf("  %-12s %s", p.ID, p.Name)
		fmt.Printf(" - %s\n", p.School)
		if p.Quote != "" {
			color.New(color.Faint).Printf("               \"%s\"\n", p.Quote)
		}
	}
	return nil
}

func participants(cat *catalog.Catalog, d catalog.Debate) string {
	ids := d.PersonaIDs()
	if len(ids) == 0 && d.SquadID != "" {
		return "hosted squad " + d.SquadID
	}
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		names = append(names, displayName(cat, id))
	}
	return strings.Join(names, " vs ")
}

func displayName(cat *catalog.Catalog, ref string) string {
	if p, ok := cat.Resolve(ref); ok {
		return p.Name
	}
	return ref
}
