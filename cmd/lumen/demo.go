package main

import (
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/lumen2d/lumen/ecs"
	"github.com/lumen2d/lumen/pool"
	"github.com/lumen2d/lumen/system"
)

// Demo content: a tiny particle-fountain scene proving out the public ECS
// surface. Gameplay features in a real game are built exactly like this:
// component kinds plus systems over the query API.

type Position struct {
	ecs.BaseComponent
	X, Y float64
}

type Velocity struct {
	ecs.BaseComponent
	X, Y float64
}

// Lifetime is a self-updating component: it counts down and destroys its
// owner when it expires. Small single-entity behavior, so the update-hook
// tier fits better than a dedicated system.
type Lifetime struct {
	ecs.BaseComponent
	Remaining time.Duration
}

func (l *Lifetime) Update(dt time.Duration) {
	l.Remaining -= dt
	if l.Remaining <= 0 {
		l.Entity().Destroy()
	}
}

// MovementSystem integrates velocity into position for every entity holding
// both components, via a cached query held for the system's lifetime.
type MovementSystem struct {
	query *ecs.Query2[Position, Velocity]
}

func NewMovementSystem(w *ecs.World) *MovementSystem {
	return &MovementSystem{query: ecs.NewQuery2[Position, Velocity](w)}
}

func (s *MovementSystem) Priority() int { return 100 }

func (s *MovementSystem) Update(ctx system.UpdateContext) {
	dt := ctx.DT.Seconds()
	s.query.Each(func(_ *ecs.Entity, p *Position, v *Velocity) {
		p.X += v.X * dt
		p.Y += v.Y * dt
	})
}

func (s *MovementSystem) Close() { s.query.Close() }

// particle is the pooled high-churn object: sparks rendered around moving
// entities without touching the entity set.
type particle struct {
	x, y   float64
	vx, vy float64
	ttl    time.Duration
}

// SparkSystem emits pooled particles from every tagged emitter and steps
// them until they expire back into the pool. MaxSparks is emitter policy
// layered on top of the pool, which itself is unbounded.
type SparkSystem struct {
	world  *ecs.World
	pool   *pool.Pool[*particle]
	active []*particle
	rng    *rand.Rand

	MaxSparks int
}

func NewSparkSystem(w *ecs.World) *SparkSystem {
	return &SparkSystem{
		world: w,
		pool: pool.New(
			func() *particle { return &particle{} },
			func(p *particle) { *p = particle{} },
		),
		rng:       rand.New(rand.NewSource(1)),
		MaxSparks: 256,
	}
}

func (s *SparkSystem) Priority() int { return 200 }

func (s *SparkSystem) Update(ctx system.UpdateContext) {
	// Age out and recycle.
	n := 0
	for _, p := range s.active {
		p.ttl -= ctx.DT
		if p.ttl <= 0 {
			s.pool.Put(p)
			continue
		}
		p.x += p.vx * ctx.DT.Seconds()
		p.y += p.vy * ctx.DT.Seconds()
		s.active[n] = p
		n++
	}
	s.active = s.active[:n]

	// Emit one spark per emitter per frame, capped by policy.
	for _, e := range s.world.Query().With(ecs.Kind[Position]()).WithTag("emitter").Execute() {
		if len(s.active) >= s.MaxSparks {
			break
		}
		pos, _ := ecs.Get[Position](e)
		p := s.pool.Get()
		p.x, p.y = pos.X, pos.Y
		p.vx = s.rng.Float64()*40 - 20
		p.vy = -s.rng.Float64() * 60
		p.ttl = time.Duration(500+s.rng.Intn(1500)) * time.Millisecond
		s.active = append(s.active, p)
	}
}

func (s *SparkSystem) Sparks() int { return len(s.active) }

// StatsRenderSystem is the demo's render bridge: it writes a one-line frame
// summary to the renderer handle (an io.Writer here; a real backend would be
// a GPU context).
type StatsRenderSystem struct {
	sparks *SparkSystem
	moving *ecs.Query2[Position, Velocity]
	frame  int
}

func NewStatsRenderSystem(w *ecs.World, sparks *SparkSystem) *StatsRenderSystem {
	return &StatsRenderSystem{
		sparks: sparks,
		moving: ecs.NewQuery2[Position, Velocity](w),
	}
}

func (s *StatsRenderSystem) Priority() int { return 100 }

func (s *StatsRenderSystem) Render(ctx system.RenderContext) {
	s.frame++
	if s.frame%30 != 0 {
		return
	}
	out, ok := ctx.Target.(io.Writer)
	if !ok {
		return
	}
	fmt.Fprintf(out, "frame %5d  entities %4d  moving %4d  sparks %4d\n",
		s.frame, ctx.World.Len(), s.moving.Count(), s.sparks.Sparks())
}

func (s *StatsRenderSystem) Close() { s.moving.Close() }
