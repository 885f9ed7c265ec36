// Command ecs-stress hammers a storage of generated component types with
// concurrent entity churn while the scheduler runs generated systems, then
// tears everything down and checks that every pool released its memory.
package main

//go:generate go run ../ecs-stressgen -components 12 -systems 6 -out generated.go

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"runtime"
	"time"

	"github.com/plus3/ecspool/ecs"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := loadConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(cfg.level).
		With().Timestamp().Logger()

	if err := run(cfg, &logger); err != nil {
		logger.Fatal().Err(err).Msg("stress test failed")
	}
	logger.Info().Msg("stress test complete")
}

func run(cfg settings, logger *zerolog.Logger) error {
	logger.Info().Msg("starting ECS stress test")

	// 1. Setup Registry, Storage, and Scheduler
	registry := ecs.NewComponentRegistry()
	RegisterAllGeneratedComponents(registry)
	if err := cfg.applyHints(registry); err != nil {
		return err
	}
	storage := ecs.NewStorage(registry, ecs.WithLogger(logger))
	scheduler := ecs.NewScheduler(storage)
	RegisterAllGeneratedSystems(scheduler)

	// 2. Populate Storage with initial entities, split across workers
	logger.Info().Int("entities", cfg.Entities).Int("workers", cfg.Workers).Msg("populating storage")
	owned := make([][]ecs.EntityId, cfg.Workers)
	var populate errgroup.Group
	for w := range cfg.Workers {
		populate.Go(func() error {
			rng := newRand(uint64(w))
			for range cfg.Entities / cfg.Workers {
				entity, err := spawnRandomEntity(storage, rng, rng.IntN(5)+1)
				if err != nil {
					return err
				}
				owned[w] = append(owned[w], entity)
			}
			return nil
		})
	}
	if err := populate.Wait(); err != nil {
		return err
	}
	logger.Info().Msg("population complete")

	// 3. Run the simulation loop with churn workers alongside
	report := &Report{
		Duration:       cfg.duration,
		Entities:       cfg.Entities,
		Workers:        cfg.Workers,
		Components:     componentCount,
		Systems:        systemCount,
		GCPauseMetrics: cfg.GCPauseMetrics,
	}
	runtime.ReadMemStats(&report.MemStatsStart)

	logger.Info().Dur("duration", cfg.duration).Msg("running simulation")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.duration)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	for w := range cfg.Workers {
		g.Go(func() error {
			return churn(gctx, storage, newRand(uint64(cfg.Workers+w)), owned[w], &report.Churn)
		})
	}

	startTime := time.Now()
	lastFrameTime := startTime
	for gctx.Err() == nil {
		deltaTime := time.Since(lastFrameTime)
		lastFrameTime = time.Now()

		updateStart := time.Now()
		scheduler.Once(deltaTime.Seconds())
		report.UpdateTime.Samples = append(report.UpdateTime.Samples, time.Since(updateStart))
	}
	if err := g.Wait(); err != nil {
		return err
	}

	report.TotalTime = time.Since(startTime)
	report.TotalUpdates = int64(len(report.UpdateTime.Samples))
	report.UpdateTime.Finalize()
	report.SchedulerStats = scheduler.GetStats()
	report.PeakStats = storage.CollectStats()
	runtime.ReadMemStats(&report.MemStatsEnd)
	logger.Info().Int64("updates", report.TotalUpdates).Msg("simulation finished")

	// 4. Tear down every entity and verify the pools are empty
	if err := teardown(storage, report); err != nil {
		return err
	}

	// 5. Generate Report to Console
	fmt.Println("\n\n--- Stress Test Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		return err
	}
	fmt.Println("--- End of Report ---")

	if len(report.Leaks) > 0 {
		return fmt.Errorf("%d pools still hold components or chunks after teardown", len(report.Leaks))
	}
	return nil
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// spawnRandomEntity creates an entity carrying n random generated components.
func spawnRandomEntity(storage *ecs.Storage, rng *rand.Rand, n int) (ecs.EntityId, error) {
	entity := storage.NewEntity()
	for range n {
		if err := componentCreators[rng.IntN(componentCount)](storage, entity); err != nil {
			return entity, err
		}
	}
	return entity, nil
}

// churn randomly spawns, deletes, re-attaches and counts components until
// ctx is done. Each worker only touches the entities it owns.
func churn(ctx context.Context, storage *ecs.Storage, rng *rand.Rand, live []ecs.EntityId, stats *ChurnStats) error {
	for ctx.Err() == nil {
		switch op := rng.IntN(10); {
		case op < 4 || len(live) < 2:
			entity, err := spawnRandomEntity(storage, rng, rng.IntN(5)+1)
			if err != nil {
				return err
			}
			live = append(live, entity)
			stats.Spawned.Add(1)

		case op < 7:
			i := rng.IntN(len(live))
			n, err := storage.DeleteEntity(live[i])
			if err != nil {
				return err
			}
			live[i] = live[len(live)-1]
			live = live[:len(live)-1]
			stats.Deleted.Add(1)
			stats.ComponentsDeleted.Add(int64(n))

		case op < 9:
			from, to := live[rng.IntN(len(live))], live[rng.IntN(len(live))]
			components := storage.Components(from)
			if len(components) == 0 {
				continue
			}
			if err := components[rng.IntN(len(components))].Attach(to); err != nil {
				return err
			}
			stats.Attached.Add(1)

		default:
			componentCounters[rng.IntN(componentCount)](storage)
			stats.Reads.Add(1)
		}
	}
	return nil
}

func teardown(storage *ecs.Storage, report *Report) error {
	issued := ecs.EntityId(storage.CollectStats().EntitiesIssued)
	for entity := ecs.EntityId(1); entity <= issued; entity++ {
		if _, err := storage.DeleteEntity(entity); err != nil {
			return err
		}
	}

	report.FinalStats = storage.CollectStats()
	for _, pool := range report.FinalStats.PoolBreakdown {
		if pool.Count != 0 || pool.ChunkCount != 0 {
			report.Leaks = append(report.Leaks, pool)
		}
	}
	return nil
}
