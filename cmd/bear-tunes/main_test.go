package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bearbyt3z/bear-tunes/internal/config"
	"github.com/bearbyt3z/bear-tunes/internal/prompt"
)

func tagFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	flags := pflag.NewFlagSet("tag", pflag.ContinueOnError)
	flags.BoolP("verbose", "v", false, "")
	addTagFlags(flags)
	require.NoError(t, flags.Parse(args))
	return flags
}

func TestApplyFlagsOverridesOnlyGivenFlags(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.FilenamePattern = "%title%"

	flags := tagFlags(t, "-n", "-y", "--no-convert", "--backend", "native", "--directory-pattern", "%publisher%")
	require.NoError(t, applyFlags(flags, &cfg))

	assert.True(t, cfg.DryRun)
	assert.True(t, cfg.AssumeYes)
	assert.False(t, cfg.ConvertFLAC)
	assert.Equal(t, config.BackendNative, cfg.TagBackend)
	assert.Equal(t, "%publisher%", cfg.DirectoryPattern)
	assert.Equal(t, "%title%", cfg.FilenamePattern)
	assert.False(t, cfg.Verbose)
}

func TestApplyFlagsDefaultsKeepConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.TagBackend = config.BackendNative
	cfg.OutputDir = "/music"

	require.NoError(t, applyFlags(tagFlags(t), &cfg))
	assert.Equal(t, config.BackendNative, cfg.TagBackend)
	assert.Equal(t, "/music", cfg.OutputDir)
	assert.True(t, cfg.ConvertFLAC)
}

func TestRequiredTools(t *testing.T) {
	cfg := config.DefaultConfig()
	assert.Equal(t, []string{"eyeD3", "metaflac", "flac", "lame"}, requiredTools(cfg))

	cfg.TagBackend = config.BackendNative
	cfg.DryRun = true
	assert.Empty(t, requiredTools(cfg))
}

func TestNewPrompter(t *testing.T) {
	cfg := config.DefaultConfig()
	_, ok := newPrompter(cfg).(*prompt.Terminal)
	assert.True(t, ok)

	cfg.AssumeYes = true
	assert.Equal(t, prompt.Auto{Yes: true}, newPrompter(cfg))

	cfg.AssumeYes = false
	cfg.Interactive = false
	assert.Equal(t, prompt.Auto{}, newPrompter(cfg))
}

func TestInitConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bear-tunes", "config.yaml")

	var out bytes.Buffer
	cmd := cmdInitConfig()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--path", path})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "Created default config file")

	cfg, err := config.LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig().FilenamePattern, cfg.FilenamePattern)

	require.NoError(t, os.WriteFile(path, []byte("verbose: true\n"), 0600))
	out.Reset()
	cmd = cmdInitConfig()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--path", path})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "already exists")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "verbose: true\n", string(data))
}
