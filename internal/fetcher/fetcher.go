// Package fetcher makes the reference dataset available as a local file. A
// location may be a filesystem path, an http(s) URL or an ftp URL; a .zip
// source is extracted and must hold exactly one file.
package fetcher

import (
	"context"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Downloader fetches a remote resource.
type Downloader interface {
	// Download fetches the URL and returns the response body.
	Download(ctx context.Context, url string) (io.ReadCloser, error)

	// DownloadToFile fetches the URL and writes it to the given path. Returns bytes written.
	DownloadToFile(ctx context.Context, url string, path string) (int64, error)
}

// Options configures Open.
type Options struct {
	Timeout    time.Duration
	MaxRetries int
	UserAgent  string
	// RateLimit caps HTTP requests per second. Zero uses the fetcher default.
	RateLimit rate.Limit
}

// Local is a dataset file on the local filesystem. Close removes any
// temporary files created to produce it.
type Local struct {
	// Path is the file to parse.
	Path string
	// Location is what the caller asked for.
	Location string

	tmpDir string
}

// Ext returns the lower-cased extension of the file to parse.
func (l *Local) Ext() string {
	return strings.ToLower(filepath.Ext(l.Path))
}

// Close removes temporary files. It is safe to call on a plain local path.
func (l *Local) Close() error {
	if l.tmpDir == "" {
		return nil
	}
	if err := os.RemoveAll(l.tmpDir); err != nil {
		return eris.Wrap(err, "fetcher: remove temp dir")
	}
	return nil
}

// Open resolves location to a local file, downloading and extracting it
// when needed. The caller must Close the result.
func Open(ctx context.Context, location string, opts Options) (*Local, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, eris.New("fetcher: empty location")
	}

	var dl Downloader
	scheme := ""
	if u, err := url.Parse(location); err == nil {
		scheme = strings.ToLower(u.Scheme)
	}
	switch scheme {
	case "http", "https":
		dl = NewHTTPFetcher(HTTPOptions{
			UserAgent:  opts.UserAgent,
			Timeout:    opts.Timeout,
			MaxRetries: opts.MaxRetries,
			RateLimit:  opts.RateLimit,
		})
	case "ftp":
		dl = NewFTPFetcher(FTPOptions{Timeout: opts.Timeout})
	case "file":
		u, _ := url.Parse(location)
		location = u.Path
	}

	local := &Local{Location: location}
	if dl == nil {
		if _, err := os.Stat(location); err != nil {
			return nil, eris.Wrapf(err, "fetcher: stat %s", location)
		}
		local.Path = location
	} else {
		tmp, err := os.MkdirTemp("", "risk-dashboard-ref-*")
		if err != nil {
			return nil, eris.Wrap(err, "fetcher: create temp dir")
		}
		local.tmpDir = tmp
		local.Path = filepath.Join(tmp, remoteName(location))

		start := time.Now()
		n, err := dl.DownloadToFile(ctx, location, local.Path)
		if err != nil {
			_ = local.Close()
			return nil, eris.Wrapf(err, "fetcher: download %s", location)
		}
		zap.L().Info("fetcher: downloaded reference source",
			zap.String("location", location),
			zap.Int64("bytes", n),
			zap.Duration("elapsed", time.Since(start)),
		)
	}

	if local.Ext() == ".zip" {
		if local.tmpDir == "" {
			tmp, err := os.MkdirTemp("", "risk-dashboard-ref-*")
			if err != nil {
				return nil, eris.Wrap(err, "fetcher: create temp dir")
			}
			local.tmpDir = tmp
		}
		extracted, err := ExtractZIPSingle(local.Path, filepath.Join(local.tmpDir, "unzipped"))
		if err != nil {
			_ = local.Close()
			return nil, err
		}
		local.Path = extracted
	}

	return local, nil
}

func remoteName(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "download"
	}
	name := path.Base(u.Path)
	if name == "" || name == "." || name == "/" {
		return "download"
	}
	return name
}
