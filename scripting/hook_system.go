package scripting

import "github.com/lumen2d/lumen/system"

// UpdateHookSystem bridges the Lua on_update hook into the update pipeline at
// a configured priority, so scripts run in a well-defined slot relative to
// native systems.
type UpdateHookSystem struct {
	engine   *Engine
	priority int
}

func NewUpdateHookSystem(engine *Engine, priority int) *UpdateHookSystem {
	return &UpdateHookSystem{engine: engine, priority: priority}
}

func (s *UpdateHookSystem) Priority() int { return s.priority }

func (s *UpdateHookSystem) Update(ctx system.UpdateContext) {
	s.engine.CallOnUpdate(ctx.DT)
}
