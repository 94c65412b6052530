package util

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/elijahnyp/switcher/state"
	"github.com/google/uuid"
	"github.com/korovkin/limiter"
	"github.com/pkg/errors"
)

const defaultMaxConcurrent = 16

// HTTPError is a non-2xx response from a device endpoint.
type HTTPError struct {
	Endpoint   string
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP error! status: %d", e.StatusCode)
}

// Notifier pushes a switch state to every configured endpoint. Deliveries are
// independent and their outcome only shows up in the log.
type Notifier struct {
	mu        sync.RWMutex
	endpoints []string
	closed    bool

	client        *http.Client
	maxConcurrent int
	limitsMu      sync.Mutex
	limits        map[string]*limiter.ConcurrencyLimiter // one pool per endpoint
	inflight      sync.WaitGroup
}

// NewNotifier builds a notifier. A zero timeout leaves requests unbounded.
// maxConcurrent caps in-flight deliveries per endpoint, 16 when <= 0, so a
// hung device only holds up its own deliveries.
func NewNotifier(endpoints []string, timeout time.Duration, maxConcurrent int) *Notifier {
	if maxConcurrent <= 0 {
		maxConcurrent = defaultMaxConcurrent
	}
	n := &Notifier{
		client:        &http.Client{Timeout: timeout},
		maxConcurrent: maxConcurrent,
		limits:        make(map[string]*limiter.ConcurrencyLimiter),
	}
	n.SetEndpoints(endpoints)
	return n
}

func NewNotifierFromConfig() *Notifier {
	return NewNotifier(
		ConfiguredEndpoints(),
		Config.GetDuration("request_timeout"),
		Config.GetInt("max_concurrent"),
	)
}

func (n *Notifier) SetEndpoints(endpoints []string) {
	list := make([]string, len(endpoints))
	copy(list, endpoints)
	n.mu.Lock()
	n.endpoints = list
	n.mu.Unlock()
	Logger.Debug().Strs("endpoints", list).Msg("notifier endpoints set")
}

func (n *Notifier) Endpoints() []string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	list := make([]string, len(n.endpoints))
	copy(list, n.endpoints)
	return list
}

// Notify sends value to every endpoint and returns without waiting for any of
// them. After Close the state is dropped.
func (n *Notifier) Notify(value any) {
	body := state.Form(value).Encode()
	id := uuid.New().String()

	n.mu.RLock()
	if n.closed {
		n.mu.RUnlock()
		Logger.Warn().Str("notify_id", id).Msg("notifier closed, state dropped")
		return
	}
	endpoints := make([]string, len(n.endpoints))
	copy(endpoints, n.endpoints)
	// Add under the read lock so Close cannot start waiting in between
	n.inflight.Add(len(endpoints))
	n.mu.RUnlock()

	if len(endpoints) == 0 {
		Logger.Warn().Str("notify_id", id).Msg("no endpoints configured, state dropped")
		return
	}
	Logger.Debug().Str("notify_id", id).Msgf("sending %s to %d endpoint(s)", body, len(endpoints))
	for _, endpoint := range endpoints {
		endpoint := endpoint
		limit := n.limitFor(endpoint)
		go limit.ExecuteWithTicket(func(ticket int) {
			defer n.inflight.Done()
			Logger.Trace().Str("notify_id", id).Msgf("delivery goroutine %d: %s", ticket, endpoint)
			n.deliver(id, endpoint, body)
		})
	}
}

func (n *Notifier) limitFor(endpoint string) *limiter.ConcurrencyLimiter {
	n.limitsMu.Lock()
	defer n.limitsMu.Unlock()
	limit, ok := n.limits[endpoint]
	if !ok {
		limit = limiter.NewConcurrencyLimiter(n.maxConcurrent)
		n.limits[endpoint] = limit
	}
	return limit
}

// Close stops accepting states and blocks until every delivery already
// started has been logged.
func (n *Notifier) Close() {
	n.mu.Lock()
	n.closed = true
	n.mu.Unlock()
	n.inflight.Wait()
}

func (n *Notifier) deliver(id, endpoint, body string) {
	log := Logger.With().Str("notify_id", id).Str("endpoint", endpoint).Logger()
	data, err := n.post(context.Background(), endpoint, body)
	if err != nil {
		log.Error().Msgf("error: %v", err)
		return
	}
	log.Info().Msgf("response from %s: %s", endpoint, data)
}

func (n *Notifier) post(ctx context.Context, endpoint, body string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(body))
	if err != nil {
		return "", errors.Wrapf(err, "building request for %s", endpoint)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.client.Do(req)
	if err != nil {
		return "", errors.Wrapf(err, "posting to %s", endpoint)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			Logger.Error().Msgf("Error closing response body: %v", closeErr)
		}
	}()

	if resp.StatusCode > 299 || resp.StatusCode < 200 {
		return "", &HTTPError{Endpoint: endpoint, StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrapf(err, "reading response from %s", endpoint)
	}
	return string(data), nil
}
