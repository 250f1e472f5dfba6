package commands_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/nob/cmd/nob/commands"
	"go.trai.ch/nob/internal/app"
	"go.trai.ch/nob/internal/build"
	"go.trai.ch/nob/internal/core/domain"
)

type mockApp struct {
	buildFunc func(ctx context.Context, opts app.BuildOptions) error
	cleanFunc func(ctx context.Context, opts app.CleanOptions) error
	watchFunc func(ctx context.Context, opts app.BuildOptions) error
}

func (m *mockApp) Build(ctx context.Context, opts app.BuildOptions) error {
	if m.buildFunc != nil {
		return m.buildFunc(ctx, opts)
	}
	return nil
}

func (m *mockApp) Clean(ctx context.Context, opts app.CleanOptions) error {
	if m.cleanFunc != nil {
		return m.cleanFunc(ctx, opts)
	}
	return nil
}

func (m *mockApp) Watch(ctx context.Context, opts app.BuildOptions) error {
	if m.watchFunc != nil {
		return m.watchFunc(ctx, opts)
	}
	return nil
}

func TestCommands_Build(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want app.BuildOptions
	}{
		{
			name: "defaults",
			args: []string{"build"},
			want: app.BuildOptions{ConfigPath: domain.DefaultConfigFile, OutputMode: "auto"},
		},
		{
			name: "flags",
			args: []string{"build", "build/lib.o", "-j", "4", "-k", "-n", "-c", "tools/nob.yaml", "-o", "quiet"},
			want: app.BuildOptions{
				ConfigPath: "tools/nob.yaml",
				Target:     "build/lib.o",
				Jobs:       4,
				KeepGoing:  true,
				DryRun:     true,
				OutputMode: "quiet",
			},
		},
		{
			name: "long flags",
			args: []string{"build", "--jobs=2", "--keep-going", "--dry-run"},
			want: app.BuildOptions{
				ConfigPath: domain.DefaultConfigFile,
				Jobs:       2,
				KeepGoing:  true,
				DryRun:     true,
				OutputMode: "auto",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got app.BuildOptions
			cli := commands.New(&mockApp{
				buildFunc: func(_ context.Context, opts app.BuildOptions) error {
					got = opts
					return nil
				},
			})
			cli.SetArgs(tt.args)

			require.NoError(t, cli.Execute(context.Background()))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCommands_BuildError(t *testing.T) {
	cli := commands.New(&mockApp{
		buildFunc: func(context.Context, app.BuildOptions) error {
			return errors.New("simulated error")
		},
	})
	cli.SetArgs([]string{"build"})
	cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))

	err := cli.Execute(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "simulated error")
}

func TestCommands_BuildTooManyTargets(t *testing.T) {
	cli := commands.New(&mockApp{
		buildFunc: func(context.Context, app.BuildOptions) error {
			panic("should not be called")
		},
	})
	cli.SetArgs([]string{"build", "a.o", "b.o"})
	cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))

	require.Error(t, cli.Execute(context.Background()))
}

func TestCommands_Clean(t *testing.T) {
	var got app.CleanOptions
	cli := commands.New(&mockApp{
		cleanFunc: func(_ context.Context, opts app.CleanOptions) error {
			got = opts
			return nil
		},
	})
	cli.SetArgs([]string{"clean", "--config", "other.yaml"})

	require.NoError(t, cli.Execute(context.Background()))
	assert.Equal(t, app.CleanOptions{ConfigPath: "other.yaml"}, got)
}

func TestCommands_Watch(t *testing.T) {
	var got app.BuildOptions
	cli := commands.New(&mockApp{
		watchFunc: func(_ context.Context, opts app.BuildOptions) error {
			got = opts
			return nil
		},
	})
	cli.SetArgs([]string{"watch", "-j", "1"})

	require.NoError(t, cli.Execute(context.Background()))
	assert.Equal(t, 1, got.Jobs)
	assert.Empty(t, got.Target)
}

func TestCommands_JSONHook(t *testing.T) {
	cli := commands.New(&mockApp{})

	var enabled bool
	cli.SetJSONHook(func(v bool) { enabled = v })
	cli.SetArgs([]string{"build", "--json"})

	require.NoError(t, cli.Execute(context.Background()))
	assert.True(t, enabled)
}

func TestCommands_Version(t *testing.T) {
	cli := commands.New(&mockApp{})
	out := new(bytes.Buffer)
	cli.SetOutput(out, out)
	cli.SetArgs([]string{"version"})

	require.NoError(t, cli.Execute(context.Background()))
	assert.Equal(t, "nob version "+build.Version+" (commit: "+build.Commit+", date: "+build.Date+")\n", out.String())
}

func TestCommands_VersionFlag(t *testing.T) {
	cli := commands.New(&mockApp{})
	out := new(bytes.Buffer)
	cli.SetOutput(out, out)
	cli.SetArgs([]string{"--version"})

	require.NoError(t, cli.Execute(context.Background()))
	assert.Contains(t, out.String(), "nob version "+build.Version)
}
