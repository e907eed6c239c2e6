//go:build integration

package main

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startReleaseServer emulates the releases API for acme/tool with the given assets.
func startReleaseServer(t *testing.T, tag string, assets map[string][]byte) *httptest.Server {
	t.Helper()
	var srv *httptest.Server
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/tool/releases/latest", func(w http.ResponseWriter, _ *http.Request) {
		type asset struct {
			Name string `json:"name"`
			URL  string `json:"browser_download_url"`
		}
		var list []asset
		for name := range assets {
			list = append(list, asset{Name: name, URL: srv.URL + "/download/" + name})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"tag_name": tag, "assets": list})
	})
	mux.HandleFunc("/download/", func(w http.ResponseWriter, r *http.Request) {
		body, ok := assets[strings.TrimPrefix(r.URL.Path, "/download/")]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(body)
	})
	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// writeTempConfig writes a config pointing the API at apiBase.
func writeTempConfig(t *testing.T, path, apiBase string) {
	t.Helper()
	yamlContent := "settings:\n" +
		"  api_base: " + apiBase + "\n" +
		"  http_timeout: 5s\n" +
		"  require_checksum: true\n"
	require.NoError(t, os.WriteFile(path, []byte(yamlContent), 0o600))
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestDownloadEndToEnd(t *testing.T) {
	tempDir := t.TempDir()
	binary := []byte("tool binary\n")
	srv := startReleaseServer(t, "v2.0.1", map[string][]byte{
		"tool-linux-x86_64":       binary,
		"tool-windows-x86_64.exe": []byte("MZ"),
		"SHA256SUMS":              []byte(fmt.Sprintf("%x  tool-linux-x86_64\n", sha256.Sum256(binary))),
	})
	cfgPath := filepath.Join(tempDir, "config.yaml")
	writeTempConfig(t, cfgPath, srv.URL)
	outDir := filepath.Join(tempDir, "bin")

	out, err := run(t, "--config", cfgPath, "--log-level", "error",
		"download", "acme/tool", "--os", "linux", "--arch", "amd64", "--output", outDir, "--executable", "tool")
	require.NoError(t, err, out)

	// Raw binaries keep their published name
	placed := filepath.Join(outDir, "tool-linux-x86_64")
	assert.Equal(t, placed, strings.TrimSpace(out))
	got, err := os.ReadFile(placed)
	require.NoError(t, err)
	assert.Equal(t, binary, got)
}

func TestDownloadRequireChecksumRefusesUnlistedAsset(t *testing.T) {
	tempDir := t.TempDir()
	srv := startReleaseServer(t, "v2.0.1", map[string][]byte{
		"tool-linux-x86_64": []byte("tool binary\n"),
	})
	cfgPath := filepath.Join(tempDir, "config.yaml")
	writeTempConfig(t, cfgPath, srv.URL)
	outDir := filepath.Join(tempDir, "bin")

	_, err := run(t, "--config", cfgPath, "--log-level", "error",
		"download", "acme/tool", "--os", "linux", "--arch", "amd64", "--output", outDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no checksum published")
	assert.NoDirExists(t, outDir)
}

func TestConfigRoundTripThroughRootCommand(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "nested", "config.yaml")

	_, err := run(t, "--config", cfgPath, "config", "init")
	require.NoError(t, err)
	_, err = run(t, "--config", cfgPath, "config", "set", "platform.libc", "musl")
	require.NoError(t, err)

	out, err := run(t, "--config", cfgPath, "config", "get", "platform.libc")
	require.NoError(t, err)
	assert.Equal(t, "musl", strings.TrimSpace(out))

	out, err = run(t, "--config", cfgPath, "platform", "--os", "linux")
	require.NoError(t, err)
	assert.Contains(t, out, "musl")
}

func TestEnvironmentConfigPath(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv("RELFETCH_CONFIG", cfgPath)

	out, err := run(t, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, cfgPath, strings.TrimSpace(out))
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "relfetch version")
}
