// Package prefab loads entity templates from YAML tables and instantiates
// them into a world. A template names its tags and component kinds; the
// component names resolve against attach funcs registered on a Spawner, so
// the table stays plain data while component construction stays in Go.
package prefab

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/lumen2d/lumen/ecs"
)

// Template is one entity blueprint loaded from YAML.
type Template struct {
	Name       string   `yaml:"name"`
	Tags       []string `yaml:"tags"`
	Components []string `yaml:"components"`
	Inactive   bool     `yaml:"inactive"`
}

type tableFile struct {
	Prefabs []Template `yaml:"prefabs"`
}

// Table holds all templates indexed by name, preserving file order.
type Table struct {
	templates map[string]*Template
	order     []string
}

// LoadTable loads prefab templates from a YAML file.
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prefab table: %w", err)
	}
	return ParseTable(data)
}

// ParseTable parses a prefab table from raw YAML.
func ParseTable(data []byte) (*Table, error) {
	var f tableFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse prefab table: %w", err)
	}
	t := &Table{templates: make(map[string]*Template, len(f.Prefabs))}
	for i := range f.Prefabs {
		tpl := &f.Prefabs[i]
		if tpl.Name == "" {
			return nil, fmt.Errorf("prefab %d: missing name", i)
		}
		if _, dup := t.templates[tpl.Name]; dup {
			return nil, fmt.Errorf("prefab %q: duplicate name", tpl.Name)
		}
		t.templates[tpl.Name] = tpl
		t.order = append(t.order, tpl.Name)
	}
	return t, nil
}

// Get returns the template with the given name.
func (t *Table) Get(name string) (*Template, bool) {
	tpl, ok := t.templates[name]
	return tpl, ok
}

// Names returns template names in file order.
func (t *Table) Names() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

func (t *Table) Len() int { return len(t.templates) }

// AttachFunc adds one component kind to a freshly created entity. Register
// closures over ecs.Add:
//
//	s.Register("position", func(e *ecs.Entity) { ecs.Add[Position](e) })
type AttachFunc func(*ecs.Entity)

// Spawner instantiates templates into a world.
type Spawner struct {
	world   *ecs.World
	log     *zap.Logger
	attachs map[string]AttachFunc
}

func NewSpawner(world *ecs.World, log *zap.Logger) *Spawner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Spawner{
		world:   world,
		log:     log,
		attachs: make(map[string]AttachFunc, 16),
	}
}

// Register binds a component name used in prefab tables to its attach func.
// Re-registering a name panics; names are startup wiring, not runtime state.
func (s *Spawner) Register(name string, attach AttachFunc) {
	if _, dup := s.attachs[name]; dup {
		panic("lumen: prefab component " + name + " registered twice")
	}
	s.attachs[name] = attach
}

// Spawn instantiates one template: create entity, attach components in table
// order, apply tags, then the active flag. An unregistered component name is
// a table/wiring mismatch and fails before the entity is half-built.
func (s *Spawner) Spawn(tpl *Template) (*ecs.Entity, error) {
	for _, name := range tpl.Components {
		if _, ok := s.attachs[name]; !ok {
			return nil, fmt.Errorf("prefab %q: unregistered component %q", tpl.Name, name)
		}
	}
	e := s.world.CreateEntity(tpl.Name)
	for _, name := range tpl.Components {
		s.attachs[name](e)
	}
	for _, tag := range tpl.Tags {
		e.AddTag(tag)
	}
	if tpl.Inactive {
		e.SetActive(false)
	}
	s.log.Debug("prefab spawned",
		zap.String("prefab", tpl.Name),
		zap.Uint64("entity", uint64(e.ID())))
	return e, nil
}

// SpawnByName looks a template up in the table and spawns it.
func (s *Spawner) SpawnByName(t *Table, name string) (*ecs.Entity, error) {
	tpl, ok := t.Get(name)
	if !ok {
		return nil, fmt.Errorf("prefab %q: not in table", name)
	}
	return s.Spawn(tpl)
}
