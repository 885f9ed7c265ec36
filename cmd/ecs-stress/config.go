package main

import (
	"flag"
	"os"
	"time"

	"github.com/JeremyLoy/config"
	"github.com/plus3/ecspool/ecs"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// Config holds the stress test settings. Environment variables provide the
// defaults and command line flags override them.
type Config struct {
	Duration       string `config:"ECS_STRESS_DURATION"`
	Entities       int    `config:"ECS_STRESS_ENTITIES"`
	Workers        int    `config:"ECS_STRESS_WORKERS"`
	HintsFile      string `config:"ECS_STRESS_HINTS"`
	LogLevel       string `config:"ECS_STRESS_LOG_LEVEL"`
	GCPauseMetrics bool   `config:"ECS_STRESS_GC_PAUSE_METRICS"`
}

// settings is a validated Config.
type settings struct {
	Config
	duration time.Duration
	level    zerolog.Level
}

func defaultConfig() Config {
	return Config{
		Duration: "10s",
		Entities: 10000,
		Workers:  4,
		LogLevel: "info",
	}
}

func loadConfig(args []string) (settings, error) {
	cfg := settings{Config: defaultConfig()}
	if err := config.FromEnv().To(&cfg.Config); err != nil {
		return cfg, eris.Wrap(err, "reading environment")
	}

	fs := flag.NewFlagSet("ecs-stress", flag.ContinueOnError)
	fs.StringVar(&cfg.Duration, "duration", cfg.Duration, "The total duration the test should run for.")
	fs.IntVar(&cfg.Entities, "entities", cfg.Entities, "The initial number of entities to create.")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "Number of goroutines churning entities while systems run.")
	fs.StringVar(&cfg.HintsFile, "hints", cfg.HintsFile, "Optional YAML file of component hint overrides.")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error).")
	fs.BoolVar(&cfg.GCPauseMetrics, "gc-pause-metrics", cfg.GCPauseMetrics, "Enable detailed GC pause metrics in the report.")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	var err error
	if cfg.duration, err = time.ParseDuration(cfg.Duration); err != nil {
		return cfg, eris.Wrapf(err, "invalid duration %q", cfg.Duration)
	}
	if cfg.level, err = zerolog.ParseLevel(cfg.LogLevel); err != nil {
		return cfg, eris.Wrapf(err, "invalid log level %q", cfg.LogLevel)
	}
	if cfg.Entities < 0 {
		return cfg, eris.Errorf("entities cannot be negative: %d", cfg.Entities)
	}
	if cfg.Workers < 1 {
		return cfg, eris.Errorf("need at least one worker, got %d", cfg.Workers)
	}
	return cfg, nil
}

// applyHints loads the configured hint file into registry.
func (c settings) applyHints(registry *ecs.ComponentRegistry) error {
	if c.HintsFile == "" {
		return nil
	}
	f, err := os.Open(c.HintsFile)
	if err != nil {
		return eris.Wrap(err, "opening hint file")
	}
	defer f.Close()

	table, err := ecs.LoadHintTable(f)
	if err != nil {
		return err
	}
	registry.ApplyHintTable(table)
	return nil
}
