package domain_test

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/nob/internal/core/domain"
)

func depOutputs(t *domain.Target) []string {
	var out []string
	for d := range t.Deps() {
		out = append(out, d.Output())
	}
	return out
}

func TestTarget_Source(t *testing.T) {
	src := domain.Source("main.c")

	assert.True(t, src.IsSource())
	assert.Nil(t, src.Command())
	assert.Equal(t, "main.c", src.Output())
	assert.Equal(t, 0, src.DepCount())
}

func TestTarget_DependencyMutation(t *testing.T) {
	libC := domain.Source("lib.c")
	libH := domain.Source("lib.h")
	utilH := domain.Source("util.h")
	obj := domain.NewTarget("lib.o", domain.NewCommand("cc", "-c", "lib.c"), libC)

	obj.AddDeps(libH, utilH)
	assert.Equal(t, 3, obj.DepCount())
	assert.Equal(t, []string{"lib.c", "lib.h", "util.h"}, depOutputs(obj))
	assert.True(t, obj.HasDep(libH))
	assert.True(t, obj.HasDep(domain.Source("lib.h")), "dependencies are matched by output")

	assert.True(t, obj.RemoveDep(libH))
	assert.False(t, obj.HasDep(libH))
	assert.False(t, obj.RemoveDep(libH), "removing an absent dependency reports false")
	assert.Equal(t, []string{"lib.c", "util.h"}, depOutputs(obj))

	obj.ClearDeps()
	assert.Equal(t, 0, obj.DepCount())
	assert.Empty(t, depOutputs(obj))
}

func TestTarget_RemoveDepFirstOccurrence(t *testing.T) {
	h := domain.Source("common.h")
	obj := domain.NewTarget("a.o", domain.NewCommand("cc"), h, h)

	assert.True(t, obj.RemoveDep(h))
	assert.Equal(t, 1, obj.DepCount())
}

func TestTarget_InvalidReferencesPanic(t *testing.T) {
	var nilTarget *domain.Target

	assert.PanicsWithValue(t, domain.ErrNilTarget, func() { nilTarget.AddDep(domain.Source("a")) })
	assert.PanicsWithValue(t, domain.ErrNilTarget, func() { domain.Source("a").AddDep(nil) })
	assert.False(t, nilTarget.HasDep(domain.Source("a")))
	assert.Equal(t, 0, nilTarget.DepCount())
}

func TestTarget_SetCommand(t *testing.T) {
	target := domain.Source("gen.h")
	target.SetCommand(domain.NewCommand("./gen", "-o", "gen.h"))

	assert.False(t, target.IsSource())
	assert.Equal(t, "./gen", target.Command().Name())
}

func TestTarget_DepsIteratorStops(t *testing.T) {
	obj := domain.NewTarget("a.o", nil, domain.Source("a.c"), domain.Source("a.h"), domain.Source("b.h"))

	var seen []string
	for d := range obj.Deps() {
		seen = append(seen, d.Output())
		if len(seen) == 2 {
			break
		}
	}
	assert.True(t, slices.Equal([]string{"a.c", "a.h"}, seen))
}
