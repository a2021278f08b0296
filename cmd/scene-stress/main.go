// Command scene-stress fills a scene with colliding objects, runs frames for
// a fixed time and prints a timing report.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"runtime"
	"time"

	"go.uber.org/zap"

	"github.com/plus3/scenery/config"
	"github.com/plus3/scenery/persist"
	"github.com/plus3/scenery/scene"
)

func main() {
	duration := flag.Duration("duration", 10*time.Second, "The total duration the test should run for.")
	objectCount := flag.Int("objects", 500, "The initial number of colliding objects.")
	churn := flag.Int("churn", 5, "Objects released and respawned every frame.")
	configPath := flag.String("config", "", "Optional TOML engine configuration.")
	snapshotPath := flag.String("snapshot", "", "Write a YAML snapshot of the final scene to this file.")
	seed := flag.Int64("seed", 1, "Random seed for object placement.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	log, err := config.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("starting scene stress test",
		zap.Int("objects", *objectCount),
		zap.Duration("duration", *duration))

	w := scene.NewWorld(scene.WithLogger(log), scene.WithConfig(cfg.Scene()))
	scene.Change[arena](w)
	rng := rand.New(rand.NewSource(*seed))

	spawnGround(w)
	live := make([]*bouncer, 0, *objectCount)
	for i := 0; i < *objectCount; i++ {
		live = append(live, spawnBouncer(w, rng, i))
	}
	log.Info("population complete", zap.Int("objects", w.ObjectCount()))

	report := &Report{
		Duration:       *duration,
		Objects:        *objectCount,
		Churn:          *churn,
		GCPauseMetrics: *gcPauseMetrics,
		FrameTime: Stats{
			Samples: make([]time.Duration, 0),
		},
	}

	runtime.ReadMemStats(&report.MemStatsStart)

	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	startTime := time.Now()
	lastFrameTime := time.Now()
	spawned := *objectCount

Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop
		default:
			for i := 0; i < *churn && len(live) > 0; i++ {
				idx := rng.Intn(len(live))
				w.ReleaseObject(live[idx])
				live[idx] = spawnBouncer(w, rng, spawned)
				spawned++
			}

			deltaTime := time.Since(lastFrameTime)
			lastFrameTime = time.Now()

			frameStart := time.Now()
			w.Frame(float32(deltaTime.Seconds()))
			report.FrameTime.Samples = append(report.FrameTime.Samples, time.Since(frameStart))
			report.TotalHits += int64(w.Stats().LastHits)
		}
	}

	report.TotalTime = time.Since(startTime)
	report.FrameTime.Finalize()
	report.World = w.Stats()
	runtime.ReadMemStats(&report.MemStatsEnd)

	if *snapshotPath != "" {
		if err := writeSnapshot(*snapshotPath, w); err != nil {
			log.Error("snapshot failed", zap.Error(err))
		} else {
			log.Info("snapshot written", zap.String("path", *snapshotPath))
		}
	}

	// Tear the scene down so the leak check runs over everything spawned.
	live = nil
	scene.Change[drain](w)
	w.Frame(0)
	report.Leaks = w.Leaks()

	log.Info("simulation finished", zap.Int64("frames", report.World.Frames))

	fmt.Println("\n\n--- Stress Test Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		log.Fatal("failed to generate report", zap.Error(err))
	}
	fmt.Println("--- End of Report ---")
}

func writeSnapshot(path string, w *scene.World) error {
	reg := persist.DefaultRegistry()
	reg.Actor("bouncer", func() scene.Actor { return &bouncer{} })

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	defer f.Close()
	return persist.Save(f, w, reg)
}
