package domain

import "errors"

// ErrInvalidSelection indicates a surah selection expression that cannot be
// parsed or that names a surah outside 1-114.
var ErrInvalidSelection = errors.New("invalid surah selection")

// ErrUpstreamUnavailable indicates the catalogue endpoint errored or
// returned a non-success status.
var ErrUpstreamUnavailable = errors.New("catalogue upstream unavailable")

// ErrMalformedResponse indicates the catalogue payload could not be decoded.
var ErrMalformedResponse = errors.New("malformed catalogue response")

// ErrReciterNotFound indicates no catalogue entry matched the given name.
var ErrReciterNotFound = errors.New("reciter not found")

// ErrSizeUnavailable indicates the remote declared size for a surah is zero
// or could not be determined. Terminal for that surah.
var ErrSizeUnavailable = errors.New("remote size unavailable")
