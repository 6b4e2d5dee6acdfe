package main

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTarball(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	for name, body := range files {
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name: name,
			Mode: 0o644,
			Size: int64(len(body)),
		}))
		_, err := tw.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
	return buf.Bytes()
}

// startRegistry serves metadata for left-pad 1.2.0 plus its tarball.
func startRegistry(t *testing.T) *httptest.Server {
	t.Helper()
	tarball := buildTarball(t, map[string]string{
		"package/package.json": `{"name":"left-pad","version":"1.2.0"}`,
		"package/index.js":     "module.exports = function leftPad() {}\n",
	})

	var srv *httptest.Server
	mux := http.NewServeMux()
	mux.HandleFunc("/left-pad", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{
			"name": "left-pad",
			"dist-tags": {"latest": "1.2.0"},
			"versions": {
				"1.2.0": {
					"version": "1.2.0",
					"dist": {"tarball": %q}
				}
			}
		}`, srv.URL+"/left-pad/-/left-pad-1.2.0.tgz")
	})
	mux.HandleFunc("/left-pad/-/left-pad-1.2.0.tgz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write(tarball)
	})
	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func writeProject(t *testing.T, srv *httptest.Server) (projectPath, configPath string) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"),
		[]byte(`{"name":"app","version":"1.0.0","dependencies":{"left-pad":"^1.0.0"}}`), 0o644))

	configPath = filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath,
		[]byte("registries:\n  - url: "+srv.URL+"\n"), 0o644))
	return dir, configPath
}

func execute(t *testing.T, args ...string) error {
	t.Helper()
	cmd := newRootCmd()
	cmd.SetArgs(args)
	return cmd.Execute()
}

func TestInstallEndToEnd(t *testing.T) {
	srv := startRegistry(t)
	dir, cfg := writeProject(t, srv)

	require.NoError(t, execute(t, "install", "-C", dir, "--config", cfg))

	assert.FileExists(t, filepath.Join(dir, "node_modules", "left-pad", "index.js"))
	assert.FileExists(t, filepath.Join(dir, "tressel.lock"))
	assert.FileExists(t, filepath.Join(dir, "node_modules", ".tressel", "plan.json"))

	// A second install is a no-op and must not fail.
	require.NoError(t, execute(t, "install", "-C", dir, "--config", cfg))
}

func TestInstallImmutableWithoutLockfile(t *testing.T) {
	srv := startRegistry(t)
	dir, cfg := writeProject(t, srv)

	err := execute(t, "install", "--immutable", "-C", dir, "--config", cfg)
	assert.Error(t, err)
	assert.NoFileExists(t, filepath.Join(dir, "tressel.lock"))
}

func TestWhyAfterInstall(t *testing.T) {
	srv := startRegistry(t)
	dir, cfg := writeProject(t, srv)

	require.NoError(t, execute(t, "install", "-C", dir, "--config", cfg))
	require.NoError(t, execute(t, "why", "left-pad", "-C", dir, "--config", cfg))

	err := execute(t, "why", "not-installed", "-C", dir, "--config", cfg)
	assert.Error(t, err)
}

func TestCleanRemovesArtifacts(t *testing.T) {
	srv := startRegistry(t)
	dir, cfg := writeProject(t, srv)

	require.NoError(t, execute(t, "install", "-C", dir, "--config", cfg))
	require.NoError(t, execute(t, "clean", "-C", dir, "--config", cfg))

	assert.NoDirExists(t, filepath.Join(dir, "node_modules"))
	assert.NoDirExists(t, filepath.Join(dir, ".tressel", "store"))
}

func TestVersionCommand(t *testing.T) {
	require.NoError(t, execute(t, "version"))
}

func TestRunScript(t *testing.T) {
	srv := startRegistry(t)
	dir, cfg := writeProject(t, srv)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"),
		[]byte(`{"name":"app","version":"1.0.0","scripts":{"touch":"echo done > ran.txt"}}`), 0o644))

	require.NoError(t, execute(t, "run", "touch", "-C", dir, "--config", cfg))
	assert.FileExists(t, filepath.Join(dir, "ran.txt"))

	err := execute(t, "run", "missing", "-C", dir, "--config", cfg)
	assert.Error(t, err)
}
