package system

import (
	"fmt"
	"sort"

	"go.uber.org/zap"
)

// Runner owns the update and render pipelines and executes each in ascending
// priority order once per frame. Registration happens at startup; mutating a
// pipeline while it executes is unsupported and panics. A fault inside one
// system propagates and aborts the remainder of that phase for that frame;
// recovery policy belongs to the driver.
type Runner struct {
	log    *zap.Logger
	update pipeline
	render pipeline
}

func NewRunner(log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{log: log}
}

// Add registers the system into the update pipeline, the render pipeline, or
// both, based on which processing contracts it implements. A system
// implementing neither is a wiring bug and panics.
func (r *Runner) Add(s System) {
	wired := false
	if us, ok := s.(UpdateSystem); ok {
		r.update.add(us.Priority(), us)
		wired = true
	}
	if rs, ok := s.(RenderSystem); ok {
		r.render.add(rs.Priority(), rs)
		wired = true
	}
	if !wired {
		panic(fmt.Sprintf("lumen: system %T implements neither UpdateSystem nor RenderSystem", s))
	}
	r.log.Debug("system registered",
		zap.String("system", fmt.Sprintf("%T", s)),
		zap.Int("priority", s.Priority()))
}

// Update executes the update pipeline for one frame.
func (r *Runner) Update(ctx UpdateContext) {
	r.update.execute(func(s System) {
		s.(UpdateSystem).Update(ctx)
	})
}

// Render executes the render pipeline for one frame.
func (r *Runner) Render(ctx RenderContext) {
	r.render.execute(func(s System) {
		s.(RenderSystem).Render(ctx)
	})
}

// UpdateLen and RenderLen report pipeline sizes, mostly for startup logging.
func (r *Runner) UpdateLen() int { return len(r.update.entries) }
func (r *Runner) RenderLen() int { return len(r.render.entries) }

type entry struct {
	priority int
	sys      System
}

// pipeline keeps systems sorted by (priority, registration order). The sort
// is deferred to the next execute, the same lazy-sort the tick runner uses.
type pipeline struct {
	entries   []entry
	sorted    bool
	executing bool
}

func (p *pipeline) add(priority int, s System) {
	if p.executing {
		panic("lumen: pipeline mutated during execution")
	}
	p.entries = append(p.entries, entry{priority: priority, sys: s})
	p.sorted = false
}

func (p *pipeline) execute(invoke func(System)) {
	if p.executing {
		panic("lumen: pipeline execution re-entered")
	}
	if !p.sorted {
		sort.SliceStable(p.entries, func(i, j int) bool {
			return p.entries[i].priority < p.entries[j].priority
		})
		p.sorted = true
	}
	p.executing = true
	defer func() { p.executing = false }()
	for _, en := range p.entries {
		invoke(en.sys)
	}
}
