// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	apperrors "moviecat/cli/internal/errors"
	"moviecat/cli/internal/httperrors"
	"moviecat/cli/internal/logging"
)

// maxBody caps how much of a response body is read.
const maxBody = 4 << 20

// CredentialSource supplies the bearer token for requests that carry none.
// The auth service implements it: session state first, then the store.
type CredentialSource interface {
	Credential(ctx context.Context) (string, bool)
}

// PipelineOptions configures NewPipeline.
type PipelineOptions struct {
	Timeout   time.Duration
	Source    CredentialSource
	Logger    *zap.Logger
	Registry  *prometheus.Registry
	UserAgent string
	// Transport replaces http.DefaultTransport, for tests.
	Transport http.RoundTripper
}

// Pipeline is the single path every API call takes. It stamps the bearer
// credential and request metadata on the way out and classifies every failure
// on the way back.
type Pipeline struct {
	client    *http.Client
	log       *zap.Logger
	userAgent string

	mu          sync.RWMutex
	source      CredentialSource
	defaultCred string

	registry *prometheus.Registry
	requests *prometheus.CounterVec
}

// NewPipeline builds a Pipeline and registers its request counter.
func NewPipeline(opt PipelineOptions) (*Pipeline, error) {
	timeout := opt.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	reg := opt.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	ua := opt.UserAgent
	if ua == "" {
		ua = "moviecat/dev"
	}

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "moviecat_http_requests_total",
		Help: "API requests by endpoint and outcome.",
	}, []string{"endpoint", "outcome"})
	if err := reg.Register(requests); err != nil {
		return nil, fmt.Errorf("register request metrics: %w", err)
	}

	return &Pipeline{
		client:    &http.Client{Timeout: timeout, Transport: opt.Transport},
		log:       logging.OrNop(opt.Logger),
		userAgent: ua,
		source:    opt.Source,
		registry:  reg,
		requests:  requests,
	}, nil
}

// SetSource installs the fallback credential source. The auth service is
// built after the pipeline, so it is wired in here.
func (p *Pipeline) SetSource(src CredentialSource) {
	p.mu.Lock()
	p.source = src
	p.mu.Unlock()
}

// SetDefaultCredential installs token as the credential of every following
// request that does not carry its own.
func (p *Pipeline) SetDefaultCredential(token string) {
	p.mu.Lock()
	p.defaultCred = token
	p.mu.Unlock()
}

// ClearDefaultCredential removes the installed default credential.
func (p *Pipeline) ClearDefaultCredential() { p.SetDefaultCredential("") }

// DefaultCredential returns the installed default credential, if any.
func (p *Pipeline) DefaultCredential() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.defaultCred
}

// Do sends req and returns the body of a 2xx response. endpoint is the
// metrics label for the call. Every failure comes back as an *errors.E.
func (p *Pipeline) Do(req *http.Request, endpoint string) ([]byte, error) {
	ctx := req.Context()
	if err := ctx.Err(); err != nil {
		return nil, p.fail(req, endpoint, apperrors.Wrap(apperrors.Client, "request cancelled", err))
	}
	p.prepare(ctx, req)

	start := time.Now()
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, p.fail(req, endpoint, httperrors.Classify(err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, p.fail(req, endpoint, apperrors.Wrap(apperrors.NoResponse, httperrors.MsgNetwork, err))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, p.fail(req, endpoint, httperrors.FromResponse(resp.StatusCode, body))
	}

	p.requests.WithLabelValues(endpoint, httperrors.Outcome(nil)).Inc()
	p.log.Debug("api request",
		zap.String("method", req.Method),
		zap.String("endpoint", endpoint),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)),
		zap.String("request_id", req.Header.Get("X-Request-ID")),
	)
	return body, nil
}

// prepare is the outgoing hook. It never fails: a missing credential just
// means the request goes out unauthenticated.
func (p *Pipeline) prepare(ctx context.Context, req *http.Request) {
	req.Header.Set("X-Request-ID", uuid.NewString())
	req.Header.Set("User-Agent", p.userAgent)
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}
	if parseBearerToken(req.Header.Get("Authorization")) != "" {
		return
	}
	if token := p.credential(ctx); token != "" {
		req.Header.Set("Authorization", bearer(token))
	}
}

func (p *Pipeline) credential(ctx context.Context) string {
	p.mu.RLock()
	def, src := p.defaultCred, p.source
	p.mu.RUnlock()

	if def != "" {
		return def
	}
	if src == nil {
		return ""
	}
	token, _ := src.Credential(ctx)
	return token
}

// fail is the error hook: it counts and logs the classified error and hands
// it back to the caller.
func (p *Pipeline) fail(req *http.Request, endpoint string, err error) error {
	p.requests.WithLabelValues(endpoint, httperrors.Outcome(err)).Inc()
	p.log.Warn("api request failed",
		zap.String("method", req.Method),
		zap.String("endpoint", endpoint),
		zap.String("kind", string(apperrors.KindOf(err))),
		zap.Int("status", httperrors.Status(err)),
		logging.Masked("error", err.Error()),
	)
	return err
}

// Counter is one row of the request metrics.
type Counter struct {
	Endpoint string
	Outcome  string
	Count    float64
}

// Metrics returns the request counters, sorted by endpoint then outcome.
func (p *Pipeline) Metrics() ([]Counter, error) {
	families, err := p.registry.Gather()
	if err != nil {
		return nil, err
	}
	var out []Counter
	for _, mf := range families {
		if mf.GetName() != "moviecat_http_requests_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			c := Counter{Count: m.GetCounter().GetValue()}
			for _, l := range m.GetLabel() {
				switch l.GetName() {
				case "endpoint":
					c.Endpoint = l.GetValue()
				case "outcome":
					c.Outcome = l.GetValue()
				}
			}
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Endpoint != out[j].Endpoint {
			return out[i].Endpoint < out[j].Endpoint
		}
		return strings.Compare(out[i].Outcome, out[j].Outcome) < 0
	})
	return out, nil
}
