package market

import "errors"

var (
	// ErrUpstreamUnavailable marks transport failures and non-2xx replies.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	// ErrUpstreamData marks a payload missing an expected field.
	ErrUpstreamData = errors.New("upstream data error")
	// ErrParse marks a numeric conversion failure on a price or timestamp.
	ErrParse = errors.New("parse error")
)
