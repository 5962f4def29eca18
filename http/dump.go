// Package http finds and downloads dump files from a Wikimedia dump mirror.
package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/fwojciec/wikitree"
	"golang.org/x/time/rate"
)

// DefaultMirror is the primary Wikimedia dump server.
const DefaultMirror = "https://dumps.wikimedia.org"

// DefaultProgressInterval is the minimum time between two download progress
// reports.
const DefaultProgressInterval = 500 * time.Millisecond

// Ensure DumpService implements wikitree.DumpService at compile time.
var _ wikitree.DumpService = (*DumpService)(nil)

// DumpService implements wikitree.DumpService over HTTP. Requests that fail
// with a network error or a 5xx/429 status are retried with backoff; a
// download is never retried once its body started streaming.
type DumpService struct {
	client   *http.Client
	mirror   *url.URL
	index    wikitree.IndexParser
	delays   []time.Duration
	interval time.Duration
}

// Option configures a DumpService.
type Option func(*DumpService)

// WithHTTPClient sets the client used for all requests. The client should
// not set a Timeout, which would also bound the download of large dumps.
func WithHTTPClient(c *http.Client) Option {
	return func(s *DumpService) {
		s.client = c
	}
}

// WithRetryDelays sets the waits between attempts. No delays disables
// retries.
func WithRetryDelays(delays ...time.Duration) Option {
	return func(s *DumpService) {
		s.delays = delays
	}
}

// WithProgressInterval sets the minimum time between progress reports. Zero
// reports every write.
func WithProgressInterval(d time.Duration) Option {
	return func(s *DumpService) {
		s.interval = d
	}
}

// NewDumpService creates a DumpService for the mirror at mirrorURL, reading
// run indexes with index. An empty mirrorURL uses DefaultMirror.
func NewDumpService(mirrorURL string, index wikitree.IndexParser, opts ...Option) (*DumpService, error) {
	if mirrorURL == "" {
		mirrorURL = DefaultMirror
	}
	mirror, err := url.Parse(mirrorURL)
	if err != nil || (mirror.Scheme != "http" && mirror.Scheme != "https") || mirror.Host == "" {
		return nil, wikitree.Errorf(wikitree.EINVALID, "invalid mirror URL %q", mirrorURL)
	}

	s := &DumpService{
		client:   http.DefaultClient,
		mirror:   mirror,
		index:    index,
		delays:   DefaultRetryDelays(),
		interval: DefaultProgressInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// RunURL returns the index URL of a wiki's dump run.
func (s *DumpService) RunURL(wiki, date string) *url.URL {
	return s.mirror.JoinPath(wiki, date+"/")
}

// FindDumpFiles lists the XML dump files of a wiki's run.
func (s *DumpService) FindDumpFiles(ctx context.Context, wiki, date string) ([]*wikitree.DumpFile, error) {
	if wiki == "" || date == "" {
		return nil, wikitree.Errorf(wikitree.EINVALID, "wiki and date required")
	}

	u := s.RunURL(wiki, date)
	resp, err := s.get(ctx, u.String())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return s.index.ParseIndex(resp.Body, u)
}

// Download streams file into w.
func (s *DumpService) Download(ctx context.Context, file *wikitree.DumpFile, w io.Writer, progress wikitree.ProgressFunc) (int64, error) {
	resp, err := s.get(ctx, file.URL)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	sometimes := &rate.Sometimes{Interval: s.interval}
	if s.interval <= 0 {
		sometimes = &rate.Sometimes{Every: 1}
	}
	pw := &progressWriter{
		w:         w,
		total:     max(resp.ContentLength, 0),
		progress:  progress,
		sometimes: sometimes,
	}
	n, err := io.Copy(pw, resp.Body)
	if err != nil {
		return n, fmt.Errorf("download %s: %w", file.Name, err)
	}
	if pw.total > 0 && n != pw.total {
		return n, fmt.Errorf("download %s: got %d of %d bytes", file.Name, n, pw.total)
	}
	pw.report()
	return n, nil
}

// statusError is an unexpected HTTP status.
type statusError struct {
	url  string
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("HTTP %d for %s", e.code, e.url)
}

// get issues a GET request and returns the response of the first attempt
// answering 200 OK.
func (s *DumpService) get(ctx context.Context, u string) (*http.Response, error) {
	var resp *http.Response
	err := withRetry(ctx, s.delays, retryable, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return err
		}

		r, err := s.client.Do(req)
		if err != nil {
			return err
		}
		switch r.StatusCode {
		case http.StatusOK:
			resp = r
			return nil
		case http.StatusNotFound:
			r.Body.Close()
			return wikitree.Errorf(wikitree.ENOTFOUND, "%s not found", u)
		default:
			r.Body.Close()
			return &statusError{url: u, code: r.StatusCode}
		}
	})
	return resp, err
}

// retryable reports whether a failed request may succeed when repeated.
func retryable(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.code >= 500 || se.code == http.StatusTooManyRequests
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return wikitree.ErrorCode(err) == wikitree.EINTERNAL
}

// progressWriter reports the bytes written through it.
type progressWriter struct {
	w         io.Writer
	n         int64
	total     int64
	progress  wikitree.ProgressFunc
	sometimes *rate.Sometimes
}

func (p *progressWriter) Write(b []byte) (int, error) {
	n, err := p.w.Write(b)
	p.n += int64(n)
	if p.progress != nil {
		p.sometimes.Do(p.report)
	}
	return n, err
}

func (p *progressWriter) report() {
	if p.progress != nil {
		p.progress(wikitree.Progress{Bytes: p.n, Total: p.total})
	}
}
