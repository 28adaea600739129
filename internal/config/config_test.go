package config

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestLoadDefaults(t *testing.T) {
	s, err := NewLoader(t.TempDir(), t.TempDir()).Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultAPIVersion, s.APIVersion)
	assert.Equal(t, time.Second, s.PollInterval)
	assert.Equal(t, 0, s.MaxPolls)
	assert.Equal(t, DefaultResourceFolder, s.ResourceFolder)
	assert.Equal(t, DefaultCacheControl, s.CacheControl)
	assert.ErrorIs(t, s.RequireOrg(), ErrNoOrg)
}

func TestLoadLayers(t *testing.T) {
	project, home := t.TempDir(), t.TempDir()
	writeFile(t, filepath.Join(project, ProjectFile), `
version: "1.0"
defaultOrg: dev
apiVersion: v59.0
deploy:
  pollInterval: 2s
  maxPolls: 30
staticResources:
  folder: spa
  cacheControl: public
`)
	writeFile(t, filepath.Join(home, UserFile), `
orgs:
  dev:
    instance_url: https://dev.my.example.com
    username: dev@example.com
cache_control: private
max_polls: 40
`)
	writeFile(t, filepath.Join(project, ".env"), "MODX_MAX_POLLS=50\nMODX_ACCESS_TOKEN=00Dfromdotenv\nOTHER=ignored\n")
	t.Setenv("MODX_API_VERSION", "61.0")

	s, err := NewLoader(project, home).Load()
	require.NoError(t, err)

	assert.Equal(t, "dev", s.Org)
	assert.Equal(t, "https://dev.my.example.com", s.InstanceURL)
	assert.Equal(t, "dev@example.com", s.OrgConfig.Username)
	assert.Equal(t, "00Dfromdotenv", s.AccessToken)
	assert.Equal(t, "61.0", s.APIVersion)
	assert.Equal(t, 2*time.Second, s.PollInterval)
	assert.Equal(t, 50, s.MaxPolls)
	assert.Equal(t, "spa", s.ResourceFolder)
	assert.Equal(t, "private", s.CacheControl)
	assert.NoError(t, s.RequireOrg())

	_, set := os.LookupEnv("MODX_ACCESS_TOKEN")
	assert.False(t, set)
}

func TestFlagsWinWhenSet(t *testing.T) {
	project := t.TempDir()
	writeFile(t, filepath.Join(project, ProjectFile), "defaultOrg: dev\n")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.StringP("target-org", "u", "", "")
	require.NoError(t, fs.Parse([]string{"-u", "prod"}))

	l := NewLoader(project, t.TempDir())
	require.NoError(t, l.BindFlag(KeyTargetOrg, fs.Lookup("target-org")))
	s, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, "prod", s.Org)
	assert.ErrorIs(t, s.RequireOrg(), ErrUnknownOrg)
}

func TestBadPollInterval(t *testing.T) {
	project := t.TempDir()
	writeFile(t, filepath.Join(project, ProjectFile), "deploy:\n  pollInterval: soon\n")
	_, err := NewLoader(project, "").Load()
	assert.ErrorIs(t, err, ErrBadPollConfig)
}

func TestSetAndRemoveOrg(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, SetOrg(home, "dev", Org{InstanceURL: "https://dev.my.example.com"}))
	require.NoError(t, SetOrg(home, "prod", Org{InstanceURL: "https://prod.my.example.com"}))

	cfg, err := LoadUser(home)
	require.NoError(t, err)
	assert.Equal(t, "dev", cfg.DefaultOrg)
	assert.Len(t, cfg.Orgs, 2)

	s, err := NewLoader(t.TempDir(), home).Load()
	require.NoError(t, err)
	assert.Equal(t, "dev", s.Org)
	assert.Equal(t, "https://dev.my.example.com", s.InstanceURL)

	removed, err := RemoveOrg(home, "dev")
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = RemoveOrg(home, "dev")
	require.NoError(t, err)
	assert.False(t, removed)

	cfg, err = LoadUser(home)
	require.NoError(t, err)
	assert.Empty(t, cfg.DefaultOrg)
	assert.Contains(t, cfg.Orgs, "prod")
}

func TestInteractiveProjectPrompt(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("dev\n\ny\nnever\n3s\n20\nspa\npublic\n"))
	var out bytes.Buffer

	cfg := InteractiveProjectPrompt(in, &out)
	assert.Equal(t, &ProjectConfig{
		Version:         "1.0",
		DefaultOrg:      "dev",
		APIVersion:      DefaultAPIVersion,
		Deploy:          DeployConfig{PollInterval: "3s", MaxPolls: 20},
		StaticResources: StaticResourcesConfig{Folder: "spa", CacheControl: "public"},
	}, cfg)
	assert.Contains(t, out.String(), "Please enter a duration")
	assert.Contains(t, out.String(), "Configuration Summary")

	dir := t.TempDir()
	require.NoError(t, SaveProject(dir, cfg))
	loaded, err := LoadProject(dir)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
