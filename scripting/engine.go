// Package scripting embeds a Lua VM so small gameplay behaviors can live in
// scripts instead of recompiled Go. The engine exposes a read-only view of
// the world (entity counts, tag lookups) and a per-frame on_update hook that
// the update pipeline drives through UpdateHookSystem.
package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/lumen2d/lumen/ecs"
)

// Engine wraps a single gopher-lua VM. Single-goroutine access only (frame
// thread), like every other part of the core.
type Engine struct {
	vm    *lua.LState
	log   *zap.Logger
	world *ecs.World
}

// NewEngine creates a Lua engine bound to a world and loads every .lua file
// in the given directory. A missing directory is not an error; scripts are
// optional.
func NewEngine(scriptsDir string, world *ecs.World, log *zap.Logger) (*Engine, error) {
	if log == nil {
		log = zap.NewNop()
	}
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log, world: world}
	e.registerBindings()

	if err := e.loadDir(scriptsDir); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load scripts: %w", err)
	}
	return e, nil
}

// Close shuts the VM down.
func (e *Engine) Close() {
	e.vm.Close()
}

// DoString executes a chunk of Lua source, mainly for tests and consoles.
func (e *Engine) DoString(src string) error {
	return e.vm.DoString(src)
}

// loadDir loads all .lua files in a directory, sorted by name so load order
// is deterministic across platforms.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// registerBindings installs the "lumen" module table into the VM.
func (e *Engine) registerBindings() {
	mod := e.vm.NewTable()

	mod.RawSetString("log_info", e.vm.NewFunction(func(L *lua.LState) int {
		e.log.Info("lua: " + L.CheckString(1))
		return 0
	}))
	mod.RawSetString("entity_count", e.vm.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LNumber(e.world.Len()))
		return 1
	}))
	mod.RawSetString("count_tagged", e.vm.NewFunction(func(L *lua.LState) int {
		tag := L.CheckString(1)
		L.Push(lua.LNumber(e.world.Query().WithTag(tag).Count()))
		return 1
	}))
	mod.RawSetString("tag_named", e.vm.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		tag := L.CheckString(2)
		ent, ok := e.world.Query().
			Where(func(en *ecs.Entity) bool { return en.Name() == name }).
			First()
		if ok {
			ent.AddTag(tag)
			L.Push(lua.LTrue)
		} else {
			L.Push(lua.LFalse)
		}
		return 1
	}))

	e.vm.SetGlobal("lumen", mod)
}

// CallOnUpdate invokes the Lua on_update(dt) global, dt in seconds. A script
// set without the hook is fine. A scripting error is logged and swallowed:
// script faults are data errors, not core faults.
func (e *Engine) CallOnUpdate(dt time.Duration) {
	fn := e.vm.GetGlobal("on_update")
	if fn == lua.LNil {
		return
	}
	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    0,
		Protect: true,
	}, lua.LNumber(dt.Seconds())); err != nil {
		e.log.Error("lua on_update error", zap.Error(err))
	}
}
