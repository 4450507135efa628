// Package main provides the batch combat simulator binary: it assembles
// catalogs and a roster, runs N combats, and reports per-side tallies.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/avalore-rpg/avasim/internal/config"
	"github.com/avalore-rpg/avasim/internal/game/combat"
	"github.com/avalore-rpg/avasim/internal/game/dice"
	"github.com/avalore-rpg/avasim/internal/game/feat"
	"github.com/avalore-rpg/avasim/internal/game/item"
	"github.com/avalore-rpg/avasim/internal/game/spell"
	"github.com/avalore-rpg/avasim/internal/observability"
	"github.com/avalore-rpg/avasim/internal/scripting"
	"github.com/avalore-rpg/avasim/internal/sim"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "", "path to configuration file; empty = built-in defaults")
	rosterPath := flag.String("roster", "", "path to roster YAML; empty = built-in demo roster")
	combats := flag.Int("combats", 0, "number of combats to run (overrides config)")
	seed := flag.Int64("seed", 0, "dice seed (overrides config); 0 = crypto-random dice")
	replay := flag.Bool("replay", false, "print the first combat's log entries")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("loading config: %v", err)
		}
		cfg = loaded
	}
	if *combats > 0 {
		cfg.Simulation.Combats = *combats
	}
	if *seed != 0 {
		cfg.Simulation.Seed = *seed
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	items, feats, spells, err := buildCatalogs(cfg.Content)
	if err != nil {
		logger.Fatal("building catalogs", zap.Error(err))
	}

	roster := sim.DefaultRoster()
	if *rosterPath != "" {
		roster, err = sim.LoadRoster(*rosterPath)
		if err != nil {
			logger.Fatal("loading roster", zap.Error(err))
		}
	}

	var src dice.Source
	if cfg.Simulation.Seed != 0 {
		src = dice.NewSeededSource(cfg.Simulation.Seed)
	} else {
		src = dice.NewCryptoSource()
	}

	opts := combat.Options{
		MaxRounds: cfg.Simulation.MaxRounds,
		Logger:    logger,
	}
	if cfg.Simulation.BlockPolicy == "ap_bypasses" {
		opts.BlockPolicy = combat.APBypassesBlock
	}
	if cfg.Simulation.OvercastScript != "" {
		script, err := scripting.LoadOvercastScript(
			cfg.Simulation.OvercastScript, cfg.Simulation.ScriptInstructionLimit)
		if err != nil {
			logger.Fatal("loading overcast script", zap.Error(err))
		}
		opts.Overcast = script
	}

	runner := &sim.Runner{
		Items:      items,
		Feats:      feats,
		Spells:     spells,
		Source:     src,
		Options:    opts,
		GridWidth:  cfg.Simulation.GridWidth,
		GridHeight: cfg.Simulation.GridHeight,
	}

	logger.Info("starting batch",
		zap.Int("combats", cfg.Simulation.Combats),
		zap.Int64("seed", cfg.Simulation.Seed),
		zap.Int("roster_size", len(roster)),
	)

	tally, err := runner.RunBatch(cfg.Simulation.Combats, roster)
	if err != nil {
		logger.Fatal("running batch", zap.Error(err))
	}

	printTally(tally)
	if *replay && tally.Sample != nil {
		printReplay(tally.Sample)
	}
	logger.Info("batch complete", zap.Duration("elapsed", time.Since(start)))
}

// buildCatalogs assembles item, feat, and spell catalogs, preferring
// configured content directories over the compiled-in definitions.
func buildCatalogs(cc config.ContentConfig) (*item.Catalog, *feat.Registry, *spell.Catalog, error) {
	weapons := item.BuiltinWeapons()
	armors := item.BuiltinArmors()
	shields := item.BuiltinShields()
	var err error
	if cc.WeaponsDir != "" {
		if weapons, err = item.LoadWeapons(cc.WeaponsDir); err != nil {
			return nil, nil, nil, err
		}
	}
	if cc.ArmorsDir != "" {
		if armors, err = item.LoadArmors(cc.ArmorsDir); err != nil {
			return nil, nil, nil, err
		}
	}
	if cc.ShieldsDir != "" {
		if shields, err = item.LoadShields(cc.ShieldsDir); err != nil {
			return nil, nil, nil, err
		}
	}
	items, err := item.NewCatalog(weapons, armors, shields)
	if err != nil {
		return nil, nil, nil, err
	}

	feats := feat.DefaultRegistry()
	if cc.FeatsDir != "" {
		feats = feat.NewRegistry()
		if err := feat.LoadDirectory(feats, cc.FeatsDir); err != nil {
			return nil, nil, nil, err
		}
	}

	spells := spell.DefaultCatalog()
	if cc.SpellsDir != "" {
		spells = spell.NewCatalog()
		if err := spell.LoadDirectory(spells, cc.SpellsDir); err != nil {
			return nil, nil, nil, err
		}
	}
	return items, feats, spells, nil
}

func printTally(tally *sim.Tally) {
	fmt.Printf("combats: %d\n", tally.Combats)
	sides := make([]string, 0, len(tally.Wins))
	for side := range tally.Wins {
		sides = append(sides, side)
	}
	sort.Strings(sides)
	for _, side := range sides {
		fmt.Printf("  %-12s %d wins\n", side, tally.Wins[side])
	}
	fmt.Printf("  %-12s %d\n", "draws", tally.Draws)
}

func printReplay(res *sim.Result) {
	fmt.Fprintf(os.Stdout, "\nreplay (%d rounds, winner: %s)\n", res.Rounds, winnerLabel(res.Winner))
	for _, entry := range res.Log {
		line := fmt.Sprintf("  r%d %s %s", entry.Round, entry.Actor, entry.Action)
		if entry.Target != "" {
			line += " -> " + entry.Target
		}
		if entry.Outcome != "" {
			line += " [" + entry.Outcome + "]"
		}
		if entry.Damage != 0 {
			line += fmt.Sprintf(" dmg=%d", entry.Damage)
		}
		if entry.Detail != "" {
			line += " (" + entry.Detail + ")"
		}
		fmt.Println(line)
	}
}

func winnerLabel(winner string) string {
	if winner == "" {
		return "draw"
	}
	return winner
}
