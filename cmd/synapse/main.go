package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/project-synapse/synapse/internal/config"
	"github.com/project-synapse/synapse/internal/engine"
	"github.com/project-synapse/synapse/internal/scenario"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	ctx := context.Background()

	if err := run(ctx, os.Args[1:]); err != nil {
		log.Fatalf("synapse: %v", err)
	}
}

func run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("synapse", flag.ExitOnError)
	problem := fs.String("problem", "", "Ad-hoc problem description to resolve")
	scenarios := fs.String("scenarios", "", "Path to a scenario CSV file")
	scenarioID := fs.String("scenario", "", "Scenario ID to run (requires -scenarios)")
	seed := fs.Int64("seed", 42, "Simulation seed (scenario seeds take precedence)")
	maxSteps := fs.Int("max-steps", 0, "Override the session step ceiling")
	maxReflections := fs.Int("max-reflections", -1, "Override the session reflection ceiling")
	timeout := fs.Int("timeout", 0, "Decision service timeout in seconds")
	metricsDB := fs.String("metrics-db", "", "Persist session metrics to this SQLite file")
	archiveDir := fs.String("archive-dir", "", "Archive session transcripts under this directory")
	watch := fs.Bool("watch", false, "Watch the scenario file and rerun on change")
	quiet := fs.Bool("quiet", false, "Suppress progress logging, print only the session JSON")

	if err := fs.Parse(args); err != nil {
		return err
	}

	// Stored preferences fill any gaps the environment leaves.
	if mgr, err := config.NewManager(); err == nil {
		if cfg, err := mgr.Load(); err == nil {
			cfg.ApplyEnv()
			applyConfigLimits(cfg)
		}
	}
	log.SetOutput(os.Stderr)

	limits := engine.LimitsFromEnv()
	if *maxSteps > 0 {
		limits.MaxSteps = *maxSteps
	}
	if *maxReflections >= 0 {
		limits.MaxReflections = *maxReflections
	}
	if *timeout > 0 {
		limits.OracleTimeout = time.Duration(*timeout) * time.Second
	}

	switch {
	case *problem != "":
		env, err := prepareRuntimeEnv(ctx, limits, *seed, *metricsDB, *archiveDir, nil, *quiet)
		if err != nil {
			return err
		}
		defer env.Close()
		return env.RunOnce(ctx, *problem)

	case *scenarios != "" && *scenarioID != "":
		if *watch {
			return watchScenario(ctx, limits, *scenarios, *scenarioID, *seed, *metricsDB, *archiveDir, *quiet)
		}
		return runScenario(ctx, limits, *scenarios, *scenarioID, *seed, *metricsDB, *archiveDir, *quiet)

	case *scenarios != "":
		return listScenarios(*scenarios)

	default:
		fs.Usage()
		return fmt.Errorf("either -problem or -scenarios is required")
	}
}

func applyConfigLimits(cfg *config.Config) {
	setIfEmpty := func(key, value string) {
		if value != "" && os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}
	if cfg.MaxSteps > 0 {
		setIfEmpty("MAX_AGENT_STEPS", fmt.Sprintf("%d", cfg.MaxSteps))
	}
	if cfg.MaxReflections > 0 {
		setIfEmpty("MAX_REFLECTIONS", fmt.Sprintf("%d", cfg.MaxReflections))
	}
}

func listScenarios(path string) error {
	runner, err := scenario.Load(path)
	if err != nil {
		return err
	}
	for _, sc := range runner.List() {
		fmt.Printf("%-10s %-12s %s\n", sc.ID, sc.Vertical, sc.Title)
	}
	return nil
}

func runScenario(ctx context.Context, limits engine.Limits, path, id string, seed int64, metricsDB, archiveDir string, quiet bool) error {
	runner, err := scenario.Load(path)
	if err != nil {
		return err
	}
	sc, ok := runner.Get(id)
	if !ok {
		return fmt.Errorf("scenario %s not found in %s", id, path)
	}

	env, err := prepareRuntimeEnv(ctx, limits, sc.SeedOr(seed), metricsDB, archiveDir, &sc, quiet)
	if err != nil {
		return err
	}
	defer env.Close()
	return env.RunOnce(ctx, sc.Problem())
}

// watchScenario reruns the selected scenario every time the CSV changes,
// until interrupted.
func watchScenario(ctx context.Context, limits engine.Limits, path, id string, seed int64, metricsDB, archiveDir string, quiet bool) error {
	if err := runScenario(ctx, limits, path, id, seed, metricsDB, archiveDir, quiet); err != nil {
		return err
	}

	reruns := make(chan *scenario.Runner, 1)
	watcher, err := scenario.NewWatcher(path, func(r *scenario.Runner) {
		select {
		case reruns <- r:
		default:
		}
	})
	if err != nil {
		return err
	}
	if err := watcher.Start(); err != nil {
		return err
	}
	defer watcher.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	log.Printf("watching %s for changes (ctrl-c to stop)", path)

	for {
		select {
		case <-sig:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		case runner := <-reruns:
			sc, ok := runner.Get(id)
			if !ok {
				log.Printf("scenario %s no longer present, waiting for next change", id)
				continue
			}
			env, err := prepareRuntimeEnv(ctx, limits, sc.SeedOr(seed), metricsDB, archiveDir, &sc, quiet)
			if err != nil {
				log.Printf("rerun failed: %v", err)
				continue
			}
			if err := env.RunOnce(ctx, sc.Problem()); err != nil {
				log.Printf("rerun failed: %v", err)
			}
			env.Close()
		}
	}
}

// printSession writes the terminal session to stdout as JSON. The caller
// contract is a fully-formed session either way: done set, plan set.
func printSession(sess *engine.Session) error {
	out, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
