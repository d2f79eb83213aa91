// SPDX-License-Identifier: GPL-3.0-or-later

package sink

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/fwtrace/reflector/internal/errclass"
	"github.com/fwtrace/reflector/internal/sinkop"
)

// HTTPTransmitter delivers flushed op batches to the downstream
// observability service's HTTP ingest endpoint (spec.md §4.7.4): one POST
// per flush, context-bound for cancellation, logging a roundTripStart/
// roundTripDone span pair the same shape every suspension point in this
// module uses.
type HTTPTransmitter struct {
	target string
	client *http.Client
	logger *slog.Logger
}

var _ Transmitter = (*HTTPTransmitter)(nil)

// NewHTTPTransmitter builds a transmitter posting to targetURL (spec.md §6
// ingest.protocol-parent-url). allowInsecureTLS disables certificate
// verification, for use against a local development ingest service.
func NewHTTPTransmitter(targetURL string, allowInsecureTLS bool, logger *slog.Logger) (*HTTPTransmitter, error) {
	if _, err := url.Parse(targetURL); err != nil {
		return nil, fmt.Errorf("sink: %w: %w", errclass.ErrConfig, err)
	}
	dialer := &net.Dialer{Timeout: 30 * time.Second}
	return &HTTPTransmitter{
		target: targetURL,
		client: &http.Client{
			Transport: &http.Transport{
				DialContext:     dialer.DialContext,
				TLSClientConfig: &tls.Config{InsecureSkipVerify: allowInsecureTLS},
			},
		},
		logger: logger,
	}, nil
}

// Transmit implements [Transmitter]: it JSON-encodes batch and POSTs it to
// the target URL, closing the response body when done. Each flush is one
// POST; the client's transport may reuse a pooled connection across
// flushes, since spec.md §4.7.4 makes no durability promise across flushes
// beyond "deliver in order".
func (t *HTTPTransmitter) Transmit(ctx context.Context, batch []sinkop.Op) error {
	payload, err := json.Marshal(toWireBatch(batch))
	if err != nil {
		return fmt.Errorf("sink: %w: %w", errclass.ErrSink, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.target, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("sink: %w: %w", errclass.ErrSink, err)
	}
	req.Header.Set("content-type", "application/json")
	req.Header.Set("x-span-id", uuid.NewString())

	t0 := time.Now()
	deadline, _ := ctx.Deadline()
	t.logger.Info("roundTripStart",
		slog.Time("deadline", deadline),
		slog.Int("batchSize", len(batch)),
		slog.String("url", t.target),
		slog.Time("t", t0),
	)

	resp, err := t.client.Do(req)

	t.logger.Info("roundTripDone",
		slog.Any("err", err),
		slog.String("errClass", errclass.New(err)),
		slog.String("url", t.target),
		slog.Time("t0", t0),
		slog.Time("t", time.Now()),
	)
	if err != nil {
		return fmt.Errorf("sink: %w: %w", errclass.ErrSink, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("sink: %w: unexpected status %d", errclass.ErrSink, resp.StatusCode)
	}
	return nil
}
