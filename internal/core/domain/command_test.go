package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/nob/internal/core/domain"
)

func TestCommand_Append(t *testing.T) {
	cmd := domain.NewCommand("cc")
	cmd.Append("-Wall", "-Wextra")
	cmd.Append("-o", "app")

	assert.Equal(t, []string{"cc", "-Wall", "-Wextra", "-o", "app"}, cmd.Args())
	assert.Equal(t, 5, cmd.Len())
	assert.Equal(t, "cc", cmd.Name())
}

func TestCommand_AppendSkipsEmpty(t *testing.T) {
	cmd := domain.NewCommand("cc", "", "-c")
	cmd.Append("", "main.c", "")

	assert.Equal(t, []string{"cc", "-c", "main.c"}, cmd.Args())
	assert.Equal(t, "cc -c main.c", cmd.String())

	empty := domain.NewCommand("")
	assert.True(t, empty.Empty())
}

func TestCommand_AppendNilPanics(t *testing.T) {
	var cmd *domain.Command
	assert.PanicsWithValue(t, domain.ErrNilCommand, func() {
		cmd.Append("cc")
	})
}

func TestCommand_CloneIsIndependent(t *testing.T) {
	base := domain.NewCommand("cc", "-Wall")
	clone := base.Clone()

	clone.Append("-c", "lib.c")
	base.Append("-O2")

	assert.Equal(t, []string{"cc", "-Wall", "-O2"}, base.Args())
	assert.Equal(t, []string{"cc", "-Wall", "-c", "lib.c"}, clone.Args())
}

func TestCommand_Extend(t *testing.T) {
	cflags := domain.NewCommand("-Wall", "-std=c11")
	cmd := domain.NewCommand("cc")
	cmd.Extend(cflags)
	cmd.Extend(nil)
	cmd.Append("-c", "main.c")

	assert.Equal(t, []string{"cc", "-Wall", "-std=c11", "-c", "main.c"}, cmd.Args())
	assert.Equal(t, []string{"-Wall", "-std=c11"}, cflags.Args(), "source must be left untouched")
}

func TestCommand_ArgsReturnsCopy(t *testing.T) {
	cmd := domain.NewCommand("cc", "main.c")
	args := cmd.Args()
	args[0] = "gcc"

	assert.Equal(t, "cc", cmd.Name())
}

func TestCommand_Empty(t *testing.T) {
	cmd := domain.NewCommand()
	assert.True(t, cmd.Empty())
	assert.Equal(t, "", cmd.Name())
	assert.Equal(t, "", cmd.String())

	var nilCmd *domain.Command
	assert.True(t, nilCmd.Empty())
	assert.Nil(t, nilCmd.Args())
}

func TestCommand_Reset(t *testing.T) {
	cmd := domain.NewCommand("cc", "main.c")
	cmd.Reset()
	require.True(t, cmd.Empty())

	cmd.Append("ld")
	assert.Equal(t, []string{"ld"}, cmd.Args())
}

func TestCommand_String(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "plain", args: []string{"cc", "-o", "app", "main.c"}, want: "cc -o app main.c"},
		{name: "spaces are quoted", args: []string{"cc", "-DNAME=hello world", "main.c"}, want: "cc '-DNAME=hello world' main.c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.NewCommand(tt.args...).String())
		})
	}
}
