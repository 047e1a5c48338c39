// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/brsr-extractor/pkg/types"
)

func resetConfig(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
	viper.Reset()
	initConfig()
	t.Cleanup(viper.Reset)
}

func TestLoadConfigDefaults(t *testing.T) {
	resetConfig(t)
	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, types.BackendPDF, cfg.Conversion.Backend)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, types.DefaultTablePath, cfg.Store.TablePath)
	assert.Equal(t, types.DefaultExtension, cfg.Conversion.Extension)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("BRSR_LOG_LEVEL", "debug")
	t.Setenv("BRSR_BACKEND", "Markitdown")
	resetConfig(t)

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, types.BackendMarkitdown, cfg.Conversion.Backend)
}

func TestLoadConfigRejectsUnknownBackend(t *testing.T) {
	resetConfig(t)
	viper.Set("backend", "grobid")
	_, err := loadConfig()
	assert.Error(t, err)
}

func TestRootRequiresOneArgument(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	assert.Error(t, rootCmd.Args(rootCmd, nil))
	assert.Contains(t, buf.String(), "Usage:")
	assert.Error(t, rootCmd.Args(rootCmd, []string{"a.pdf", "b.pdf"}))
	assert.NoError(t, rootCmd.Args(rootCmd, []string{"reports"}))
}

func TestPathArgs(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.Mkdir("index", 0o755))
	require.NoError(t, os.WriteFile("export", nil, 0o644))

	tests := []struct {
		args []string
		want []string
	}{
		{[]string{"index"}, []string{"." + string(filepath.Separator) + "index"}},
		{[]string{"export"}, []string{"." + string(filepath.Separator) + "export"}},
		{[]string{"show"}, []string{"show"}},
		{[]string{"reports"}, []string{"reports"}},
		{[]string{"show", "Acme"}, []string{"show", "Acme"}},
		{nil, nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, pathArgs(rootCmd, tt.args), "%v", tt.args)
	}
}
