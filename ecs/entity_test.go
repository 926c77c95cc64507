package ecs_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumen2d/lumen/ecs"
)

type Position struct {
	ecs.BaseComponent
	X, Y float64
}

type Velocity struct {
	ecs.BaseComponent
	X, Y float64
}

type Health struct {
	ecs.BaseComponent
	HP int
}

type Frozen struct {
	ecs.BaseComponent
}

// Sprite exercises the attach/detach hooks.
type Sprite struct {
	ecs.BaseComponent
	attached bool
	detached bool
}

func (s *Sprite) OnAttach() { s.attached = true }
func (s *Sprite) OnDetach() { s.detached = true }

// Timer exercises the self-update hook.
type Timer struct {
	ecs.BaseComponent
	Elapsed time.Duration
}

func (t *Timer) Update(dt time.Duration) { t.Elapsed += dt }

type plain struct{ X int } // does not embed BaseComponent

func TestCreateEntityIdentity(t *testing.T) {
	w := ecs.NewWorld()
	a := w.CreateEntity("a")
	b := w.CreateEntity("b")

	require.NotEqual(t, a.ID(), b.ID())
	assert.Equal(t, "a", a.Name())
	assert.Same(t, w, a.World())
	assert.True(t, a.Active())

	got, ok := w.Entity(a.ID())
	require.True(t, ok)
	assert.Same(t, a, got)
	assert.Equal(t, 2, w.Len())
}

func TestAddGetUniqueness(t *testing.T) {
	w := ecs.NewWorld()
	e := w.CreateEntity("player")

	pos := ecs.Add[Position](e)
	require.NotNil(t, pos)
	assert.Same(t, e, pos.Entity())
	assert.True(t, pos.Enabled())

	// Every subsequent Get returns the same single instance.
	for i := 0; i < 3; i++ {
		got, ok := ecs.Get[Position](e)
		require.True(t, ok)
		assert.Same(t, pos, got)
	}
}

func TestGetAbsentIsNotAnError(t *testing.T) {
	w := ecs.NewWorld()
	e := w.CreateEntity("empty")

	got, ok := ecs.Get[Position](e)
	assert.False(t, ok)
	assert.Nil(t, got)
	assert.False(t, ecs.Has[Position](e))
}

func TestDuplicateAddPanics(t *testing.T) {
	w := ecs.NewWorld()
	e := w.CreateEntity("dup")
	ecs.Add[Position](e)

	assert.Panics(t, func() { ecs.Add[Position](e) })
}

func TestAddNonComponentPanics(t *testing.T) {
	w := ecs.NewWorld()
	e := w.CreateEntity("bad")

	assert.Panics(t, func() { ecs.Add[plain](e) })
}

func TestRemoveComponent(t *testing.T) {
	w := ecs.NewWorld()
	e := w.CreateEntity("e")
	ecs.Add[Position](e)

	assert.True(t, ecs.Remove[Position](e))
	assert.False(t, ecs.Has[Position](e))
	assert.False(t, ecs.Remove[Position](e), "removing an absent kind is a no-op")
}

func TestAttachDetachHooks(t *testing.T) {
	w := ecs.NewWorld()
	e := w.CreateEntity("e")

	s := ecs.Add[Sprite](e)
	assert.True(t, s.attached, "OnAttach fires with owner set")
	require.Same(t, e, s.Entity())

	ecs.Remove[Sprite](e)
	assert.True(t, s.detached)
	assert.Nil(t, s.Entity(), "owner cleared after detach")
}

func TestDestroyIdempotent(t *testing.T) {
	w := ecs.NewWorld()
	e := w.CreateEntity("doomed")
	s := ecs.Add[Sprite](e)
	e.AddTag("enemy")

	e.Destroy()
	require.True(t, e.Destroyed())
	assert.True(t, s.detached, "destroy fires component-removal hooks")
	assert.Equal(t, 0, w.Len())
	assert.Empty(t, w.Query().WithTag("enemy").Execute())

	e.Destroy() // second call is a no-op
	assert.Equal(t, 0, w.Len())

	_, ok := w.Entity(e.ID())
	assert.False(t, ok)
}

func TestDestroyedEntityIsUnusable(t *testing.T) {
	w := ecs.NewWorld()
	e := w.CreateEntity("gone")
	e.Destroy()

	assert.Panics(t, func() { ecs.Add[Position](e) })
	assert.Panics(t, func() { e.AddTag("x") })
	assert.Panics(t, func() { e.SetActive(false) })
}

func TestTags(t *testing.T) {
	w := ecs.NewWorld()
	e := w.CreateEntity("e")

	e.AddTag("enemy")
	e.AddTag("boss")
	e.AddTag("enemy") // duplicate, no-op

	assert.True(t, e.HasTag("enemy"))
	assert.Equal(t, []string{"boss", "enemy"}, e.Tags())

	e.RemoveTag("boss")
	assert.False(t, e.HasTag("boss"))
	e.RemoveTag("boss") // absent, no-op
}

func TestComponentsInsertionOrder(t *testing.T) {
	w := ecs.NewWorld()
	e := w.CreateEntity("e")
	ecs.Add[Position](e)
	ecs.Add[Velocity](e)
	ecs.Add[Health](e)

	comps := e.Components()
	require.Len(t, comps, 3)
	_, isPos := comps[0].(*Position)
	_, isVel := comps[1].(*Velocity)
	_, isHP := comps[2].(*Health)
	assert.True(t, isPos)
	assert.True(t, isVel)
	assert.True(t, isHP)
}
