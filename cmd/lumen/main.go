package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/lumen2d/lumen/config"
	"github.com/lumen2d/lumen/ecs"
	"github.com/lumen2d/lumen/prefab"
	"github.com/lumen2d/lumen/scripting"
	"github.com/lumen2d/lumen/system"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load config
	cfgPath := "config/lumen.toml"
	if p := os.Getenv("LUMEN_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = config.Default()
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	log.Info("lumen starting",
		zap.String("name", cfg.Engine.Name),
		zap.Duration("fixed_step", cfg.Engine.FixedStep))

	// 3. World and pipelines
	world := ecs.NewWorld(ecs.WithLogger(log))
	runner := system.NewRunner(log)

	sparks := NewSparkSystem(world)
	movement := NewMovementSystem(world)
	stats := NewStatsRenderSystem(world, sparks)
	defer movement.Close()
	defer stats.Close()

	// Constructor table the pipeline config resolves against.
	factories := map[string]system.System{
		"movement": movement,
		"sparks":   sparks,
		"stats":    stats,
	}
	if len(cfg.Pipeline.Systems) > 0 {
		for _, entry := range cfg.Pipeline.Systems {
			s, ok := factories[entry.Name]
			if !ok {
				return fmt.Errorf("pipeline: unknown system %q", entry.Name)
			}
			if _, isUpdate := s.(system.UpdateSystem); entry.Update && !isUpdate {
				return fmt.Errorf("pipeline: %q declared update but has no update contract", entry.Name)
			}
			if _, isRender := s.(system.RenderSystem); entry.Render && !isRender {
				return fmt.Errorf("pipeline: %q declared render but has no render contract", entry.Name)
			}
			runner.Add(s)
		}
	} else {
		runner.Add(movement)
		runner.Add(sparks)
		runner.Add(stats)
	}

	// 4. Optional Lua scripting bridge
	if cfg.Scripting.Enabled {
		engine, err := scripting.NewEngine(cfg.Scripting.ScriptsDir, world, log)
		if err != nil {
			return fmt.Errorf("scripting: %w", err)
		}
		defer engine.Close()
		runner.Add(scripting.NewUpdateHookSystem(engine, cfg.Scripting.HookPriority))
		log.Info("lua scripting enabled", zap.String("dir", cfg.Scripting.ScriptsDir))
	}

	// 5. Seed the scene, from a prefab table when configured
	spawner := prefab.NewSpawner(world, log)
	spawner.Register("position", func(e *ecs.Entity) { ecs.Add[Position](e) })
	spawner.Register("velocity", func(e *ecs.Entity) { ecs.Add[Velocity](e) })
	spawner.Register("lifetime", func(e *ecs.Entity) {
		ecs.Add[Lifetime](e).Remaining = 10 * time.Second
	})

	if cfg.Prefabs.TablePath != "" {
		table, err := prefab.LoadTable(cfg.Prefabs.TablePath)
		if err != nil {
			return fmt.Errorf("prefabs: %w", err)
		}
		for _, name := range table.Names() {
			if _, err := spawner.SpawnByName(table, name); err != nil {
				return fmt.Errorf("prefabs: %w", err)
			}
		}
		log.Info("prefabs spawned", zap.Int("count", table.Len()))
	} else {
		seedDefaultScene(world)
	}

	// 6. Fixed-step frame loop until SIGINT/SIGTERM
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Engine.FixedStep)
	defer ticker.Stop()

	log.Info("frame loop running", zap.Int("update_systems", runner.UpdateLen()),
		zap.Int("render_systems", runner.RenderLen()))

	for {
		select {
		case <-stop:
			log.Info("shutting down", zap.Int("entities", world.Len()))
			return nil
		case <-ticker.C:
			dt := cfg.Engine.FixedStep
			world.Update(dt)
			runner.Update(system.UpdateContext{World: world, DT: dt})
			runner.Render(system.RenderContext{World: world, Target: os.Stdout})
		}
	}
}

func seedDefaultScene(world *ecs.World) {
	fountain := world.CreateEntity("fountain")
	ecs.Add[Position](fountain)
	fountain.AddTag("emitter")

	for i := 0; i < 8; i++ {
		e := world.CreateEntity(fmt.Sprintf("drifter-%d", i))
		pos := ecs.Add[Position](e)
		pos.X = float64(i * 10)
		vel := ecs.Add[Velocity](e)
		vel.X = 5
		vel.Y = float64(i)
		ecs.Add[Lifetime](e).Remaining = time.Duration(20+i) * time.Second
	}
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	return zapCfg.Build()
}
