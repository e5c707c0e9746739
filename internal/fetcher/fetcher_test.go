package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_LocalPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clients.csv")
	require.NoError(t, writeTestFile(path, "a\n"))

	local, err := Open(context.Background(), path, Options{})
	require.NoError(t, err)
	assert.Equal(t, path, local.Path)
	assert.Equal(t, ".csv", local.Ext())
	require.NoError(t, local.Close())

	_, err = os.Stat(path)
	require.NoError(t, err, "closing a plain local source must not delete it")
}

func TestOpen_FileScheme(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clients.csv")
	require.NoError(t, writeTestFile(path, "a\n"))

	local, err := Open(context.Background(), "file://"+path, Options{})
	require.NoError(t, err)
	defer local.Close() //nolint:errcheck
	assert.Equal(t, path, local.Path)
}

func TestOpen_MissingLocalPath(t *testing.T) {
	_, err := Open(context.Background(), filepath.Join(t.TempDir(), "nope.csv"), Options{})
	require.Error(t, err)
}

func TestOpen_Empty(t *testing.T) {
	_, err := Open(context.Background(), "  ", Options{})
	require.Error(t, err)
}

func TestOpen_LocalZIP(t *testing.T) {
	zipPath := createTestZIP(t, map[string]string{"clients.xlsx": "fake"})

	local, err := Open(context.Background(), zipPath, Options{})
	require.NoError(t, err)
	assert.Equal(t, ".xlsx", local.Ext())

	tmp := filepath.Dir(filepath.Dir(local.Path))
	require.NoError(t, local.Close())
	_, err = os.Stat(tmp)
	assert.True(t, os.IsNotExist(err))

	_, err = os.Stat(zipPath)
	assert.NoError(t, err)
}

func TestOpen_HTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/datasets/clients.csv", r.URL.Path)
		w.Write([]byte("AMT_INCOME_TOTAL,TARGET\n1,0\n")) //nolint:errcheck
	}))
	defer srv.Close()

	local, err := Open(context.Background(), srv.URL+"/datasets/clients.csv", Options{Timeout: 5 * time.Second})
	require.NoError(t, err)

	assert.Equal(t, "clients.csv", filepath.Base(local.Path))
	data, err := os.ReadFile(local.Path)
	require.NoError(t, err)
	assert.Equal(t, "AMT_INCOME_TOTAL,TARGET\n1,0\n", string(data))

	require.NoError(t, local.Close())
	_, err = os.Stat(local.Path)
	assert.True(t, os.IsNotExist(err))
}

func TestOpen_HTTPZIP(t *testing.T) {
	zipPath := createTestZIP(t, map[string]string{"clients.csv": "AMT_INCOME_TOTAL,TARGET\n"})
	raw, err := os.ReadFile(zipPath)
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(raw) //nolint:errcheck
	}))
	defer srv.Close()

	local, err := Open(context.Background(), srv.URL+"/clients.zip", Options{Timeout: 5 * time.Second})
	require.NoError(t, err)
	defer local.Close() //nolint:errcheck

	assert.Equal(t, "clients.csv", filepath.Base(local.Path))
}

func TestOpen_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := Open(context.Background(), srv.URL+"/clients.csv", Options{Timeout: 5 * time.Second})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestOpen_FTP(t *testing.T) {
	srv := newFakeFTPServer(t, map[string]string{"/pub/clients.csv": "AMT_INCOME_TOTAL,TARGET\n"})

	local, err := Open(context.Background(), fmt.Sprintf("ftp://%s/pub/clients.csv", srv.addr()), Options{Timeout: 5 * time.Second})
	require.NoError(t, err)
	defer local.Close() //nolint:errcheck

	data, err := os.ReadFile(local.Path)
	require.NoError(t, err)
	assert.Equal(t, "AMT_INCOME_TOTAL,TARGET\n", string(data))
}

func TestRemoteName(t *testing.T) {
	assert.Equal(t, "clients.csv", remoteName("https://example.com/a/clients.csv?x=1"))
	assert.Equal(t, "download", remoteName("https://example.com/"))
	assert.Equal(t, "download", remoteName("https://example.com"))
}
