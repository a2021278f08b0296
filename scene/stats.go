package scene

import "time"

// Stats summarises frame execution of a World.
type Stats struct {
	Frames      int64
	Objects     int
	Pending     int
	LastHits    int
	Stages      []StageStats
	Subscribers map[string]int
}

// StageStats provides execution statistics for one frame stage.
type StageStats struct {
	Name           string
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type stage uint8

const (
	stagePreUpdate stage = iota
	stageUpdate
	stagePrePhysics
	stageCollisions
	stagePostUpdate
	stageDraw

	stageCount
)

var stageNames = [stageCount]string{
	"PreUpdate",
	"Update",
	"PrePhysics",
	"Collisions",
	"PostUpdate",
	"Draw",
}

type stageStatsInternal struct {
	executionCount int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

func (s *stageStatsInternal) record(d time.Duration) {
	if s.executionCount == 0 || d < s.minDuration {
		s.minDuration = d
	}
	if d > s.maxDuration {
		s.maxDuration = d
	}
	s.executionCount++
	s.lastDuration = d
	s.totalDuration += d
}

// measure starts timing st; call the returned func when the stage ends.
func (w *World) measure(st stage) func() {
	start := time.Now()
	return func() {
		w.stages[st].record(time.Since(start))
	}
}

// Stats returns execution statistics collected so far.
func (w *World) Stats() *Stats {
	stats := &Stats{
		Frames:      w.frames,
		LastHits:    w.lastHits,
		Stages:      make([]StageStats, stageCount),
		Subscribers: make(map[string]int, timingCount),
	}

	if w.current != nil {
		b := w.current.sceneBase()
		stats.Objects = len(b.objects)
		stats.Pending = len(b.pending)
	}

	for i := range w.stages {
		internal := &w.stages[i]
		avg := time.Duration(0)
		if internal.executionCount > 0 {
			avg = internal.totalDuration / time.Duration(internal.executionCount)
		}
		stats.Stages[i] = StageStats{
			Name:           stageNames[i],
			ExecutionCount: internal.executionCount,
			MinDuration:    internal.minDuration,
			MaxDuration:    internal.maxDuration,
			AvgDuration:    avg,
			LastDuration:   internal.lastDuration,
			TotalDuration:  internal.totalDuration,
		}
	}

	for t := Timing(0); t < timingCount; t++ {
		stats.Subscribers[t.String()] = w.buses.subscribers(t)
	}
	return stats
}
