// Package dataset decides whether a request for the course catalog can
// be answered from the local cache or must go to the network, and keeps
// the cache's (dataset, version, hash) triple up to date.
package dataset

import (
	"context"
	"io"
	"net/http"

	retryablehttp "github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"

	"github.com/syllascope/syllascope/pkg/cache"
	"github.com/syllascope/syllascope/pkg/course"
	"github.com/syllascope/syllascope/pkg/fingerprint"
)

// SchemaVersion is the compiled-in version tag. Bump it whenever the
// normalization contract changes so every client discards its cached
// dataset on the next load.
const SchemaVersion = "2024.1"

// Result is a loaded dataset plus provenance.
type Result struct {
	Courses   []course.Course
	Raw       string
	Hash      string
	FromCache bool
}

// Loader orchestrates fetch-vs-cache decisions.
type Loader struct {
	Store   *cache.Store
	Client  *retryablehttp.Client
	URL     string
	Version string
	Log     *logrus.Logger
}

// New builds a Loader with a retrying HTTP client and the compiled-in
// schema version.
func New(store *cache.Store, url string, log *logrus.Logger) *Loader {
	client := retryablehttp.NewClient()
	client.RetryMax = 2
	client.Logger = nil
	return &Loader{
		Store:   store,
		Client:  client,
		URL:     url,
		Version: SchemaVersion,
		Log:     log,
	}
}

// Load returns the dataset, served from cache when the stored version
// tag matches the expected version and the cached payload still parses.
// Any cache problem (storage error, version mismatch, unparseable
// payload) falls through to a network fetch; bustCache skips the cache
// path entirely.
func (l *Loader) Load(ctx context.Context, bustCache bool) (*Result, error) {
	if !bustCache {
		rec, err := l.Store.Get(ctx)
		if err != nil {
			l.logWarnf("cache read failed, falling back to network: %v", err)
		}
		if rec != nil && rec.VersionTag == l.Version {
			courses, perr := course.ParseDataset(rec.DatasetJSON)
			if perr == nil {
				return &Result{Courses: courses, Raw: rec.DatasetJSON, Hash: rec.ContentHash, FromCache: true}, nil
			}
			l.logWarnf("%v, refetching", &ParseError{Source: "cache", Err: perr})
		}
	}

	res, err := l.FetchFresh(ctx)
	if err != nil {
		return nil, err
	}
	if err := l.Store.Put(ctx, res.Raw, l.Version, res.Hash); err != nil {
		// A failed write only costs us the next cache hit.
		l.logWarnf("could not persist dataset: %v", err)
	}
	return res, nil
}

// FetchFresh always hits the network, bypassing both the local cache and
// any intermediate HTTP cache. It does not write to the store; Load and
// the background refresher decide that themselves.
func (l *Loader) FetchFresh(ctx context.Context) (*Result, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, l.URL, nil)
	if err != nil {
		return nil, &FetchError{URL: l.URL, Err: err}
	}
	// Always request fresh bytes from origin.
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")

	resp, err := l.Client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: l.URL, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{URL: l.URL, Err: err}
	}
	raw := string(body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{URL: l.URL, StatusCode: resp.StatusCode, Title: htmlTitle(raw)}
	}

	courses, err := course.ParseDataset(raw)
	if err != nil {
		return nil, &ParseError{Source: "network", Err: err}
	}
	return &Result{Courses: courses, Raw: raw, Hash: fingerprint.Sum(raw)}, nil
}

func (l *Loader) logWarnf(format string, args ...interface{}) {
	if l.Log != nil {
		l.Log.Warnf(format, args...)
	}
}
