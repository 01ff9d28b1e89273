package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/project-synapse/synapse/internal/archive"
	"github.com/project-synapse/synapse/internal/engine"
	"github.com/project-synapse/synapse/internal/metrics"
	"github.com/project-synapse/synapse/internal/oracle"
	"github.com/project-synapse/synapse/internal/scenario"
	"github.com/project-synapse/synapse/internal/tools"
)

// runtimeEnv bundles one session loop with its metrics and archive
// plumbing.
type runtimeEnv struct {
	Loop       *engine.Loop
	Tracker    *metrics.Tracker
	Archive    *archive.Store
	ScenarioID string
	Seed       int64
	store      *metrics.Store
}

func (r *runtimeEnv) Close() {
	if r.store != nil {
		if err := r.store.Close(); err != nil {
			log.Printf("failed to close metrics store: %v", err)
		}
	}
}

// prepareRuntimeEnv wires provider, tool catalog, escalation table and
// hooks into a ready loop. sc narrows the catalog when non-nil.
func prepareRuntimeEnv(ctx context.Context, limits engine.Limits, seed int64, metricsDB, archiveDir string, sc *scenario.Scenario, quiet bool) (*runtimeEnv, error) {
	client, modelName, err := oracle.NewClientFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	log.Printf("decision service ready (model: %s)", modelName)

	sim := tools.NewSimulator(seed)
	catalog := tools.Registry(sim)
	if sc != nil {
		full := len(catalog)
		catalog = sc.Restrict(catalog)
		log.Printf("scenario %s: %d of %d tools allowed, seed=%d", sc.ID, len(catalog), full, seed)
	}

	adapter, err := oracle.NewAdapter(client, catalog)
	if err != nil {
		return nil, fmt.Errorf("failed to build oracle adapter: %w", err)
	}

	env := &runtimeEnv{Seed: seed}
	if sc != nil {
		env.ScenarioID = sc.ID
	}
	if archiveDir != "" {
		env.Archive = archive.NewStore(archiveDir)
	}

	var hooks engine.Hooks
	if !quiet {
		hooks = append(hooks, engine.LoggerHook{L: log.New(os.Stderr, "", log.LstdFlags)})
	}
	if metricsDB != "" {
		store, err := metrics.OpenStore(ctx, metricsDB)
		if err != nil {
			return nil, fmt.Errorf("failed to open metrics store: %w", err)
		}
		env.store = store
	}
	env.Tracker = metrics.NewTracker(env.store)
	hooks = append(hooks, env.Tracker)

	env.Loop = engine.NewLoop(adapter, catalog, tools.DefaultEscalations(), limits, hooks)
	return env, nil
}

// RunOnce drives one problem to a terminal state, prints the session and
// archives the transcript when an archive directory is configured.
func (r *runtimeEnv) RunOnce(ctx context.Context, problem string) error {
	sess := r.Loop.Run(ctx, problem)
	if err := printSession(sess); err != nil {
		return err
	}
	if m := r.Tracker.Last(); m != nil {
		log.Printf("session %s: %d steps, %d reflections, complexity %d/10, oracle avg %s",
			m.ID, m.TotalSteps, m.ReflectionSteps, m.ComplexityScore(), m.AvgOracleLatency())
	}
	if r.Archive != nil {
		rec := archive.NewRecord(sess, r.ScenarioID, r.Seed)
		if err := r.Archive.Save(rec); err != nil {
			log.Printf("failed to archive session: %v", err)
		} else {
			log.Printf("transcript archived as %s", rec.ID)
		}
	}
	return nil
}
