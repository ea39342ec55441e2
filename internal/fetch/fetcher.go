// Package fetch downloads a single surah: resolves the remote size, streams
// into a .part file with byte-range resume, verifies, and atomically
// publishes the final mp3.
package fetch

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/qurandl/qurandl/internal/domain"
	"github.com/qurandl/qurandl/internal/infra/logger"
)

// partSuffix marks in-progress transfers. A leftover .part file is resumed,
// never trusted as a finished download.
const partSuffix = ".part"

type remoteMeta struct {
	size int64
	md5  []byte
}

// Fetcher downloads surahs for one upstream host. All failure modes are
// captured into the FetchResult; FetchItem never panics or returns an error.
//
// Metadata requests go through httpc, whose total-duration timeout is fine
// for small responses. Body streaming uses streamc, which has no total
// bound: a long surah that keeps moving must never be cut off, only a
// stalled one (see stallReader).
type Fetcher struct {
	baseURL     string
	httpc       *http.Client
	streamc     *http.Client
	log         *logger.Logger
	maxAttempts int
	backoff     time.Duration
	stall       time.Duration

	// Sleep runs the inter-attempt backoff. Tests swap it out so retries
	// run without delay.
	Sleep func(ctx context.Context, d time.Duration)
}

func NewFetcher(baseURL string, httpc *http.Client, log *logger.Logger, maxAttempts int, backoff time.Duration) *Fetcher {
	if httpc == nil {
		httpc = http.DefaultClient
	}
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	stall := httpc.Timeout
	if stall <= 0 {
		stall = 30 * time.Second
	}
	return &Fetcher{
		baseURL:     baseURL,
		httpc:       httpc,
		streamc:     newStreamClient(httpc, stall),
		log:         log,
		maxAttempts: maxAttempts,
		backoff:     backoff,
		stall:       stall,
		Sleep: func(ctx context.Context, d time.Duration) {
			select {
			case <-ctx.Done():
			case <-time.After(d):
			}
		},
	}
}

// newStreamClient derives the streaming client from httpc: same transport
// and cookie jar, no total-duration timeout. The header wait is bounded at
// the transport when the transport type allows it; the body is watched by
// stallReader instead.
func newStreamClient(httpc *http.Client, stall time.Duration) *http.Client {
	streamc := &http.Client{Transport: httpc.Transport, Jar: httpc.Jar}

	base := httpc.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	if t, ok := base.(*http.Transport); ok {
		t = t.Clone()
		t.ResponseHeaderTimeout = stall
		streamc.Transport = t
	}
	return streamc
}

// stallReader aborts a transfer when no bytes arrive for a full idle
// window. Progress of any kind resets the window, so a slow transfer that
// keeps flowing runs to completion no matter how long it takes.
type stallReader struct {
	rc    io.ReadCloser
	idle  time.Duration
	timer *time.Timer
}

func newStallReader(rc io.ReadCloser, idle time.Duration, abort func()) *stallReader {
	return &stallReader{rc: rc, idle: idle, timer: time.AfterFunc(idle, abort)}
}

func (r *stallReader) Read(p []byte) (int, error) {
	n, err := r.rc.Read(p)
	if n > 0 {
		r.timer.Reset(r.idle)
	}
	return n, err
}

func (r *stallReader) Close() error {
	r.timer.Stop()
	return r.rc.Close()
}

// FetchItem downloads one surah into outputRoot/<sanitized reciter name>/.
func (f *Fetcher) FetchItem(ctx context.Context, rec domain.Reciter, surah int, outputRoot string) domain.FetchResult {
	res := domain.FetchResult{Surah: surah}

	dir := filepath.Join(outputRoot, domain.SanitizeDirName(rec.Name))
	if err := os.MkdirAll(dir, 0755); err != nil {
		res.Error = fmt.Sprintf("create output dir: %v", err)
		return res
	}

	finalPath := filepath.Join(dir, surahFileName(surah))
	partPath := finalPath + partSuffix
	url := surahURL(f.baseURL, rec.ID, surah)

	meta, err := f.remoteMeta(ctx, url)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	// Fast path: an existing file whose size (and checksum, when the
	// upstream advertises one) matches is trusted as-is.
	if info, statErr := os.Stat(finalPath); statErr == nil {
		if info.Size() == meta.size && f.checksumMatches(finalPath, meta.md5) {
			res.Success = true
			res.Path = finalPath
			return res
		}
		f.log.Warn("surah %03d: local copy is stale or corrupt, re-downloading", surah)
	}

	var lastErr error
	for attempt := 1; attempt <= f.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			// No transfer started, so the attempt does not count.
			// Leave the .part file for a future resume.
			lastErr = err
			break
		}
		res.Attempts = attempt

		if err := f.transfer(ctx, url, partPath, meta.size); err != nil {
			lastErr = err
			f.log.Warn("surah %03d attempt %d/%d: %v", surah, attempt, f.maxAttempts, err)
			if attempt < f.maxAttempts {
				f.Sleep(ctx, f.backoff)
			}
			continue
		}

		if err := f.verify(partPath, meta); err != nil {
			lastErr = err
			os.Remove(partPath)
			f.log.Warn("surah %03d attempt %d/%d: %v", surah, attempt, f.maxAttempts, err)
			if attempt < f.maxAttempts {
				f.Sleep(ctx, f.backoff)
			}
			continue
		}

		if err := os.Rename(partPath, finalPath); err != nil {
			lastErr = fmt.Errorf("publish %s: %w", finalPath, err)
			continue
		}

		res.Success = true
		res.Path = finalPath
		return res
	}

	if lastErr != nil {
		res.Error = lastErr.Error()
	}
	return res
}

// transfer streams the surah into partPath, resuming from its current
// length when a prior attempt left bytes behind.
func (f *Fetcher) transfer(ctx context.Context, url, partPath string, total int64) error {
	var offset int64
	if info, err := os.Stat(partPath); err == nil {
		offset = info.Size()
		if offset > total {
			// Poisoned leftover, start over.
			os.Remove(partPath)
			offset = 0
		} else if offset == total {
			// A prior attempt finished the transfer but failed later.
			return nil
		}
	}

	reqCtx, abort := context.WithCancel(ctx)
	defer abort()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	if offset > 0 {
		req.Header.Set("Range", fmt.Sprintf("bytes=%d-", offset))
	}

	resp, err := f.streamc.Do(req)
	if err != nil {
		return err
	}
	body := newStallReader(resp.Body, f.stall, abort)
	defer body.Close()

	switch {
	case offset > 0 && resp.StatusCode == http.StatusPartialContent:
		// resuming, append below
	case resp.StatusCode == http.StatusOK:
		if offset > 0 {
			// Server ignored the range request; restart from scratch.
			os.Remove(partPath)
			offset = 0
		}
	default:
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if offset > 0 {
		flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
	}

	out, err := os.OpenFile(partPath, flags, 0644)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, body); err != nil {
		if reqCtx.Err() != nil && ctx.Err() == nil {
			return fmt.Errorf("stalled: no data for %s", f.stall)
		}
		return err
	}

	return out.Sync()
}

func (f *Fetcher) verify(partPath string, meta remoteMeta) error {
	info, err := os.Stat(partPath)
	if err != nil {
		return fmt.Errorf("verify: %w", err)
	}
	if info.Size() != meta.size {
		return fmt.Errorf("size mismatch: got %d, want %d", info.Size(), meta.size)
	}
	if len(meta.md5) > 0 && !f.checksumMatches(partPath, meta.md5) {
		return fmt.Errorf("checksum mismatch")
	}
	return nil
}

// checksumMatches reports whether the MD5 of the file matches want. An
// empty want (upstream sent no Content-MD5) always matches.
func (f *Fetcher) checksumMatches(path string, want []byte) bool {
	if len(want) == 0 {
		return true
	}

	file, err := os.Open(path)
	if err != nil {
		return false
	}
	defer file.Close()

	h := md5.New()
	if _, err := io.Copy(h, file); err != nil {
		return false
	}
	return bytes.Equal(h.Sum(nil), want)
}

// remoteMeta resolves the declared size (and checksum, when advertised) of
// the surah. HEAD first; servers that refuse HEAD get a one-byte range
// probe instead.
func (f *Fetcher) remoteMeta(ctx context.Context, url string) (remoteMeta, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return remoteMeta{}, fmt.Errorf("%w: %v", domain.ErrSizeUnavailable, err)
	}

	resp, err := f.httpc.Do(req)
	if err == nil {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		if resp.StatusCode == http.StatusOK && resp.ContentLength > 0 {
			return remoteMeta{size: resp.ContentLength, md5: decodeContentMD5(resp.Header)}, nil
		}
	}

	// Fallback probe for servers that do not answer HEAD.
	req, err = http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return remoteMeta{}, fmt.Errorf("%w: %v", domain.ErrSizeUnavailable, err)
	}
	req.Header.Set("Range", "bytes=0-0")

	resp, err = f.httpc.Do(req)
	if err != nil {
		return remoteMeta{}, fmt.Errorf("%w: %v", domain.ErrSizeUnavailable, err)
	}
	defer resp.Body.Close()

	var size int64
	switch resp.StatusCode {
	case http.StatusPartialContent:
		io.Copy(io.Discard, resp.Body)
		size = parseContentRangeTotal(resp.Header.Get("Content-Range"))
	case http.StatusOK:
		// The server ignored the range and is sending the whole payload.
		// Close without draining; the real transfer fetches it anyway.
		size = resp.ContentLength
	}

	if size <= 0 {
		return remoteMeta{}, fmt.Errorf("%w: %s", domain.ErrSizeUnavailable, url)
	}
	return remoteMeta{size: size, md5: decodeContentMD5(resp.Header)}, nil
}

// parseContentRangeTotal extracts the total from "bytes 0-0/12345".
func parseContentRangeTotal(header string) int64 {
	idx := strings.LastIndex(header, "/")
	if idx < 0 {
		return 0
	}
	total, err := strconv.ParseInt(header[idx+1:], 10, 64)
	if err != nil {
		return 0
	}
	return total
}

func decodeContentMD5(h http.Header) []byte {
	v := h.Get("Content-MD5")
	if v == "" {
		return nil
	}
	sum, err := base64.StdEncoding.DecodeString(v)
	if err != nil {
		return nil
	}
	return sum
}
