// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/pdiddy/citation-engine/internal/httputil"
	"github.com/pdiddy/citation-engine/internal/observe"
	"github.com/pdiddy/citation-engine/pkg/types"
)

// providerLimiters paces requests per provider. The table is shared
// process-wide so concurrent batches draw from one budget.
var providerLimiters = map[string]*rate.Limiter{
	crossrefName: rate.NewLimiter(rate.Limit(5), 1),
	inspireName:  rate.NewLimiter(rate.Limit(2), 1),
	semanticName: rate.NewLimiter(rate.Limit(1), 1),
	adsName:      rate.NewLimiter(rate.Limit(5), 1),
}

// defaultLimiter paces providers missing from the table.
var defaultLimiter = rate.NewLimiter(rate.Limit(1), 1)

func limiterFor(name string) *rate.Limiter {
	if l, ok := providerLimiters[name]; ok {
		return l
	}
	return defaultLimiter
}

// Validator performs single lookup attempts: rate-limit wait, fetch,
// status classification, then the provider's count parse. It holds no
// per-record state and is safe for concurrent use.
type Validator struct {
	client *http.Client
	cfg    types.LookupConfig
	log    zerolog.Logger
}

// NewValidator builds a Validator. A nil client gets a default one with
// the configured timeout. Library callers that want no diagnostics pass
// zerolog.Nop().
func NewValidator(client *http.Client, cfg types.LookupConfig, log zerolog.Logger) *Validator {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &Validator{client: client, cfg: cfg, log: log}
}

// Lookup runs one attempt against p and returns the count or a classified
// AttemptError. Non-2xx statuses map to failure kinds; transport errors
// are network failures; parse errors mean the response carried no usable
// count.
func (v *Validator) Lookup(ctx context.Context, p Provider, lk Lookup) (int, *AttemptError) {
	reqURL, err := p.LookupURL(lk)
	if err != nil {
		return 0, &AttemptError{Kind: FailBadRequest, Provider: p.Name(), Ident: lk.Kind, Err: err}
	}

	if err := limiterFor(p.Name()).Wait(ctx); err != nil {
		return 0, &AttemptError{Kind: FailNetwork, Provider: p.Name(), Ident: lk.Kind, Err: err}
	}

	headers := map[string]string{"User-Agent": v.cfg.UserAgent}
	for k, val := range p.Headers() {
		headers[k] = val
	}

	v.log.Debug().
		Str("provider", p.Name()).
		Str("kind", lk.Kind.String()).
		Str("url", observe.Redact(reqURL)).
		Msg("lookup request")

	resp, err := httputil.Fetch(ctx, v.client, reqURL, headers, v.cfg.MaxRetries)
	if err != nil {
		v.log.Debug().
			Str("provider", p.Name()).
			Str("kind", lk.Kind.String()).
			Str("error", observe.Redact(err.Error())).
			Msg("lookup transport failure")
		return 0, &AttemptError{Kind: FailNetwork, Provider: p.Name(), Ident: lk.Kind, Err: err}
	}

	if resp.Status < 200 || resp.Status > 299 {
		kind := classifyStatus(resp.Status)
		v.log.Debug().
			Str("provider", p.Name()).
			Str("kind", lk.Kind.String()).
			Int("status", resp.Status).
			Str("outcome", kind.String()).
			Msg("lookup rejected")
		return 0, &AttemptError{
			Kind: kind, Provider: p.Name(), Ident: lk.Kind, Status: resp.Status,
			Err: fmt.Errorf("unexpected HTTP status %d", resp.Status),
		}
	}

	n, err := p.ParseCount(ctx, lk.Kind, resp.Body)
	if err != nil {
		kind := FailNoCitationCount
		switch {
		case errors.Is(err, ErrNoSearchResults):
			kind = FailNotFound
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			kind = FailNetwork
		}
		v.log.Debug().
			Str("provider", p.Name()).
			Str("kind", lk.Kind.String()).
			Str("outcome", kind.String()).
			Str("error", observe.Redact(err.Error())).
			Msg("lookup parse failure")
		return 0, &AttemptError{Kind: kind, Provider: p.Name(), Ident: lk.Kind, Status: resp.Status, Err: err}
	}

	v.log.Debug().
		Str("provider", p.Name()).
		Str("kind", lk.Kind.String()).
		Int("count", n).
		Msg("lookup ok")
	return n, nil
}

// classifyStatus maps a non-2xx response status to a failure kind.
func classifyStatus(status int) FailureKind {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return FailAuth
	case status == http.StatusBadRequest:
		return FailBadRequest
	case status == http.StatusNotFound:
		return FailNotFound
	case status == http.StatusTooManyRequests:
		return FailRateLimited
	case status >= 500 && status <= 599:
		return FailServer
	default:
		return FailBadRequest
	}
}

// countValue validates a decoded JSON number as a citation count: an
// integer, zero or greater.
func countValue(n json.Number) (int, error) {
	v, err := n.Int64()
	if err != nil {
		return 0, fmt.Errorf("citation count %q is not an integer", n.String())
	}
	if v < 0 {
		return 0, fmt.Errorf("citation count %d is negative", v)
	}
	return int(v), nil
}
