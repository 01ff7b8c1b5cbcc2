// Package main provides the partlint binary: it validates part template
// directories, rosters, and loot tables before they ship with a build.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/avery-kellough/scrapforce/internal/game/loot"
	"github.com/avery-kellough/scrapforce/internal/game/parts"
	"github.com/avery-kellough/scrapforce/internal/game/squad"
)

func main() {
	partsDir := flag.String("parts", "content/parts", "path to part template YAML directory")
	rosterPath := flag.String("roster", "", "optional roster file to check against the catalog")
	lootPath := flag.String("loot", "", "optional loot table file to validate")
	verbose := flag.Bool("v", false, "list every template")
	flag.Parse()

	catalog, err := parts.LoadCatalogFromDir(*partsDir)
	if err != nil {
		fail("part catalog: %v", err)
	}
	ids := catalog.IDs()
	fmt.Printf("ok: %d part templates in %s\n", len(ids), *partsDir)
	if *verbose {
		for _, id := range ids {
			tpl, _ := catalog.Lookup(id)
			fmt.Printf("  %-24s %-10s %-8s power=%-3d durability=%d\n",
				tpl.ID, tpl.Slot, tpl.Kind, tpl.Power, tpl.Durability)
		}
	}

	for _, slot := range parts.AllSlots {
		if len(catalog.BySlot(slot)) == 0 {
			fail("part catalog: no templates for the %s slot", slot)
		}
	}

	if *rosterPath != "" {
		roster, err := squad.Load(*rosterPath)
		if err != nil {
			fail("roster: %v", err)
		}
		if err := roster.Validate(catalog); err != nil {
			fail("roster: %v", err)
		}
		fmt.Printf("ok: roster %s (%d bots)\n", *rosterPath, len(roster.Bots))
	}

	if *lootPath != "" {
		table, err := loot.LoadTable(*lootPath)
		if err != nil {
			fail("loot: %v", err)
		}
		for _, item := range table.Items {
			if _, ok := catalog.Lookup(item.PartID); !ok {
				fail("loot: %s drops unknown part %q", *lootPath, item.PartID)
			}
		}
		fmt.Printf("ok: loot table %s (%d items)\n", *lootPath, len(table.Items))
	}
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "partlint: "+format+"\n", args...)
	os.Exit(1)
}
