package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/imgmg/internal/config"
)

func newOverrideCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().BoolP("recursive", "r", false, "")
	addGridFlags(cmd)
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func baseGrid() config.GridSettings {
	return config.GridSettings{
		CellSize:       160,
		CellMargin:     8,
		RowPadding:     8,
		PrefetchRows:   1,
		MaxParallel:    4,
		PollInterval:   2 * time.Millisecond,
		ThumbnailCache: true,
		Recursive:      true,
	}
}

func TestApplyOverrides(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    func(gs *config.GridSettings)
		wantErr string
	}{
		{
			name: "no flags keeps preferences",
			args: nil,
			want: func(*config.GridSettings) {},
		},
		{
			name: "cell size",
			args: []string{"--cell-size", "240"},
			want: func(gs *config.GridSettings) { gs.CellSize = 240 },
		},
		{
			name: "max parallel",
			args: []string{"--max-parallel=8"},
			want: func(gs *config.GridSettings) { gs.MaxParallel = 8 },
		},
		{
			name: "recursive can be switched off",
			args: []string{"--recursive=false"},
			want: func(gs *config.GridSettings) { gs.Recursive = false },
		},
		{
			name: "no cache",
			args: []string{"--no-cache"},
			want: func(gs *config.GridSettings) { gs.ThumbnailCache = false },
		},
		{
			name:    "cell size too small",
			args:    []string{"--cell-size", "4"},
			wantErr: "--cell-size",
		},
		{
			name:    "max parallel too large",
			args:    []string{"--max-parallel", "1000"},
			wantErr: "--max-parallel",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := applyOverrides(newOverrideCmd(t, tt.args...), baseGrid())
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)

			want := baseGrid()
			tt.want(&want)
			assert.Equal(t, want, got)
		})
	}
}

func TestStartDirectory(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()
	settings := config.NewSettings(a)

	existing := t.TempDir()
	settings.SetGalleryDirectory(existing)

	assert.Equal(t, "/explicit", startDirectory([]string{"/explicit"}, settings))
	assert.Equal(t, existing, startDirectory(nil, settings))

	settings.SetGalleryDirectory(filepath.Join(existing, "gone"))
	assert.Empty(t, startDirectory(nil, settings))

	file := filepath.Join(existing, "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	settings.SetGalleryDirectory(file)
	assert.Empty(t, startDirectory(nil, settings))
}

func TestRootCommand_Subcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["scan"])
	assert.True(t, names["cache"])

	for _, flag := range []string{"cell-size", "max-parallel", "no-cache"} {
		assert.NotNil(t, rootCmd.Flags().Lookup(flag), flag)
	}
	for _, flag := range []string{"log-file", "debug", "recursive"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(flag), flag)
	}
}
