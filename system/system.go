// Package system defines the per-frame processing units and the ordered
// pipelines that execute them. A system declares an explicit integer
// priority and implements the update contract, the render contract, or both;
// the Runner places it in the matching pipeline(s) at registration time.
package system

import (
	"time"

	"github.com/lumen2d/lumen/ecs"
)

// System is the common contract: an explicit execution priority. Lower runs
// first; ties execute in registration order.
type System interface {
	Priority() int
}

// UpdateSystem is the update-phase processing contract.
type UpdateSystem interface {
	System
	Update(ctx UpdateContext)
}

// RenderSystem is the render-phase processing contract.
type RenderSystem interface {
	System
	Render(ctx RenderContext)
}

// RenderTarget is the opaque renderer handle the driver threads through the
// render pipeline. The core never interprets it.
type RenderTarget any

// UpdateContext is handed to every update system once per frame. DT is the
// driver-supplied monotonic elapsed time; the core never reads the clock.
type UpdateContext struct {
	World *ecs.World
	DT    time.Duration
}

// RenderContext is handed to every render system once per frame.
type RenderContext struct {
	World  *ecs.World
	Target RenderTarget
}
