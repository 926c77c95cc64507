package ecs_test

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumen2d/lumen/ecs"
)

func TestCachedQueryMembership(t *testing.T) {
	w := ecs.NewWorld()

	// Entities 1 and 2 have {Position, Velocity}; entity 3 has only Position.
	e1 := w.CreateEntity("e1")
	ecs.Add[Position](e1)
	ecs.Add[Velocity](e1)
	e2 := w.CreateEntity("e2")
	ecs.Add[Position](e2)
	ecs.Add[Velocity](e2)
	e3 := w.CreateEntity("e3")
	ecs.Add[Position](e3)

	q := ecs.NewQuery2[Position, Velocity](w)
	defer q.Close()

	require.Equal(t, 2, q.Count())
	assert.True(t, q.Contains(e1))
	assert.True(t, q.Contains(e2))
	assert.False(t, q.Contains(e3))

	// Removing Velocity from e1 shrinks the result to {e2}, e3 untouched.
	ecs.Remove[Velocity](e1)
	assert.Equal(t, 1, q.Count())
	assert.False(t, q.Contains(e1))
	assert.True(t, q.Contains(e2))
	assert.False(t, q.Contains(e3))
}

func TestCachedQueryTracksLaterMutations(t *testing.T) {
	w := ecs.NewWorld()
	q := ecs.NewQuery2[Position, Velocity](w)
	defer q.Close()
	require.Equal(t, 0, q.Count())

	e := w.CreateEntity("e")
	ecs.Add[Position](e)
	assert.Equal(t, 0, q.Count(), "partial match stays out")

	vel := ecs.Add[Velocity](e)
	assert.Equal(t, 1, q.Count(), "membership applies synchronously on Add")

	vel.SetEnabled(false)
	assert.Equal(t, 0, q.Count(), "disabled instance leaves the query")
	vel.SetEnabled(true)
	assert.Equal(t, 1, q.Count())

	e.Destroy()
	assert.Equal(t, 0, q.Count())
}

func TestCachedQueryEachTuples(t *testing.T) {
	w := ecs.NewWorld()
	e := w.CreateEntity("e")
	pos := ecs.Add[Position](e)
	vel := ecs.Add[Velocity](e)

	q := ecs.NewQuery2[Position, Velocity](w)
	defer q.Close()

	seen := 0
	q.Each(func(ent *ecs.Entity, p *Position, v *Velocity) {
		seen++
		assert.Same(t, e, ent)
		assert.Same(t, pos, p)
		assert.Same(t, vel, v)
	})
	assert.Equal(t, 1, seen)
}

func TestCachedQueryDestroyDuringIteration(t *testing.T) {
	w := ecs.NewWorld()
	for i := 0; i < 4; i++ {
		e := w.CreateEntity("e")
		ecs.Add[Position](e)
	}

	q := ecs.NewQuery1[Position](w)
	defer q.Close()
	require.Equal(t, 4, q.Count())

	// Destroy every entity from inside the iteration. The snapshot stays
	// stable; membership changes apply after Each returns.
	visited := 0
	require.NotPanics(t, func() {
		q.Each(func(e *ecs.Entity, _ *Position) {
			visited++
			e.Destroy()
		})
	})
	assert.Equal(t, 4, visited)
	assert.Equal(t, 0, q.Count())
	assert.Equal(t, 0, w.Len())
}

func TestCachedQueryNestedIteration(t *testing.T) {
	w := ecs.NewWorld()
	a := w.CreateEntity("a")
	ecs.Add[Position](a)
	b := w.CreateEntity("b")
	ecs.Add[Position](b)

	q := ecs.NewQuery1[Position](w)
	defer q.Close()

	pairs := 0
	q.Each(func(e1 *ecs.Entity, _ *Position) {
		q.Each(func(e2 *ecs.Entity, _ *Position) {
			pairs++
		})
	})
	assert.Equal(t, 4, pairs)
}

func TestCachedQuerySpawnDuringIteration(t *testing.T) {
	w := ecs.NewWorld()
	e := w.CreateEntity("seed")
	ecs.Add[Position](e)

	q := ecs.NewQuery1[Position](w)
	defer q.Close()

	visited := 0
	q.Each(func(_ *ecs.Entity, _ *Position) {
		visited++
		// Joins during iteration are deferred to the end of Each.
		spawned := w.CreateEntity("spawned")
		ecs.Add[Position](spawned)
	})
	assert.Equal(t, 1, visited, "snapshot excludes mid-iteration joins")
	assert.Equal(t, 2, q.Count(), "join applied once iteration finished")
}

func TestCachedQueryClosedStopsTracking(t *testing.T) {
	w := ecs.NewWorld()
	q := ecs.NewQuery1[Position](w)
	q.Close()
	q.Close() // idempotent

	e := w.CreateEntity("e")
	ecs.Add[Position](e)
	assert.Equal(t, 0, q.Count(), "closed query no longer updates")
}

func TestCachedQueryDuplicateKindPanics(t *testing.T) {
	w := ecs.NewWorld()
	assert.Panics(t, func() { ecs.NewQuery2[Position, Position](w) })
}

func TestCachedQueryArity3(t *testing.T) {
	w := ecs.NewWorld()
	e := w.CreateEntity("full")
	ecs.Add[Position](e)
	ecs.Add[Velocity](e)
	ecs.Add[Health](e)
	partial := w.CreateEntity("partial")
	ecs.Add[Position](partial)
	ecs.Add[Velocity](partial)

	q := ecs.NewQuery3[Position, Velocity, Health](w)
	defer q.Close()

	require.Equal(t, 1, q.Count())
	q.Each(func(ent *ecs.Entity, _ *Position, _ *Velocity, h *Health) {
		assert.Same(t, e, ent)
		assert.NotNil(t, h)
	})
}

// TestCachedMatchesAdHoc drives a pseudo-random mutation sequence and checks
// the long-lived query always matches a fresh ad-hoc evaluation of the same
// predicate.
func TestCachedMatchesAdHoc(t *testing.T) {
	w := ecs.NewWorld()
	q := ecs.NewQuery2[Position, Velocity](w)
	defer q.Close()

	rng := rand.New(rand.NewSource(42))
	var live []*ecs.Entity

	for step := 0; step < 500; step++ {
		switch op := rng.Intn(6); {
		case op == 0 || len(live) == 0:
			e := w.CreateEntity("e")
			live = append(live, e)
		case op == 1:
			e := live[rng.Intn(len(live))]
			if !ecs.Has[Position](e) {
				ecs.Add[Position](e)
			}
		case op == 2:
			e := live[rng.Intn(len(live))]
			if !ecs.Has[Velocity](e) {
				ecs.Add[Velocity](e)
			}
		case op == 3:
			e := live[rng.Intn(len(live))]
			ecs.Remove[Position](e)
		case op == 4:
			e := live[rng.Intn(len(live))]
			if v, ok := ecs.Get[Velocity](e); ok {
				v.SetEnabled(!v.Enabled())
			}
		default:
			i := rng.Intn(len(live))
			live[i].Destroy()
			live = append(live[:i], live[i+1:]...)
		}

		want := w.Query().
			With(ecs.Kind[Position](), ecs.Kind[Velocity]()).
			Execute()
		var got []*ecs.Entity
		q.Each(func(e *ecs.Entity, _ *Position, _ *Velocity) {
			got = append(got, e)
		})
		require.ElementsMatch(t, want, got, "step %d", step)
	}
}

func TestCachedQueryOrderStableBetweenMutations(t *testing.T) {
	w := ecs.NewWorld()
	for i := 0; i < 6; i++ {
		e := w.CreateEntity("e")
		ecs.Add[Position](e)
	}
	q := ecs.NewQuery1[Position](w)
	defer q.Close()

	collect := func() []ecs.ID {
		var ids []ecs.ID
		q.Each(func(e *ecs.Entity, _ *Position) { ids = append(ids, e.ID()) })
		return ids
	}
	first := collect()
	second := collect()
	assert.Equal(t, first, second, "iteration order is stable absent mutations")

	sorted := append([]ecs.ID(nil), first...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	assert.Len(t, sorted, 6)
}
