// Command migrate-defaults strips stored rule overrides that equal the
// type-tag defaults, so future default changes apply automatically.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"meriter/internal/config"
	"meriter/internal/database"
	"meriter/internal/models"
	"meriter/internal/rules"

	"gopkg.in/yaml.v3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	dryRun := flag.Bool("dry-run", false, "Print the strip plan without writing")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	var communities []*models.Community
	if err := db.Find(&communities).Error; err != nil {
		return fmt.Errorf("load communities: %w", err)
	}

	var plan []rules.StripResult
	for _, community := range communities {
		result := rules.StripDefaults(community)
		if len(result.Stripped) == 0 {
			continue
		}
		plan = append(plan, result)
	}

	if len(plan) == 0 {
		log.Println("no redundant overrides found, nothing to do")
		return nil
	}

	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(plan); err != nil {
		return fmt.Errorf("encode plan: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("flush plan: %w", err)
	}

	if *dryRun {
		log.Printf("dry run: %d communities would be updated", len(plan))
		return nil
	}

	updated := 0
	for _, community := range communities {
		stripped := false
		for _, p := range plan {
			if p.CommunityID == community.ID {
				stripped = true
				break
			}
		}
		if !stripped {
			continue
		}

		// StripDefaults already nil-ed the redundant columns in place;
		// Select forces gorm to write the NULLs.
		err := db.Model(community).
			Select("voting_rules", "permission_rules", "merit_settings",
				"tappalka_settings", "investing_settings").
			Updates(community).Error
		if err != nil {
			return fmt.Errorf("persist strip for community %d: %w", community.ID, err)
		}
		updated++
	}

	log.Printf("stripped redundant overrides on %d communities", updated)
	return nil
}
