package poster

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Adda-Baaj/userpost/internal/domain"
	"github.com/Adda-Baaj/userpost/internal/logger"
	"github.com/Adda-Baaj/userpost/pkg/httpclient"
)

const (
	AcceptValue        = "*/*"
	ContentTypeValue   = "application/json; charset=utf-8"
	ContentLengthValue = "0"
)

// Headers returns a fresh copy of the fixed header mapping sent with every POST.
// The transport computes Content-Length on its own; the entry is kept so the
// mapping matches what goes over the wire.
func Headers() map[string]string {
	return map[string]string{
		"Accept":         AcceptValue,
		"Content-Type":   ContentTypeValue,
		"Content-Length": ContentLengthValue,
	}
}

// Poster issues the body-less POST to a single endpoint.
type Poster struct {
	client httpclient.Client
	url    string
	log    logger.Logger
}

// New builds a Poster for url.
func New(client httpclient.Client, url string, log logger.Logger) (*Poster, error) {
	if client == nil {
		return nil, errors.New("http client must not be nil")
	}
	if url == "" {
		return nil, errors.New("target url is empty")
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Poster{client: client, url: url, log: log}, nil
}

// Post performs exactly one POST and returns the exchange. Any HTTP status is a
// successful exchange; only transport failures are returned as errors, without retry.
func (p *Poster) Post(ctx context.Context) (domain.Exchange, error) {
	sentAt := time.Now().UTC()
	p.log.DebugObj("posting", "request", map[string]any{
		"method": http.MethodPost,
		"url":    p.url,
	})

	resp, err := p.client.Post(ctx, p.url, Headers())
	if err != nil {
		return domain.Exchange{}, fmt.Errorf("post %s: %w", p.url, err)
	}

	ex := domain.Exchange{
		Method:     http.MethodPost,
		URL:        p.url,
		StatusCode: resp.StatusCode(),
		Body:       resp.Body(),
		SentAt:     sentAt,
	}
	p.log.DebugObj("response received", "response", map[string]any{
		"status_code": ex.StatusCode,
		"body_bytes":  len(ex.Body),
		"elapsed_ms":  time.Since(sentAt).Milliseconds(),
	})
	return ex, nil
}

// Print writes the status line and the verbatim body line.
func Print(w io.Writer, ex domain.Exchange) error {
	if _, err := fmt.Fprintf(w, "Status Code: %d\n", ex.StatusCode); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Response Body: %s\n", ex.Body); err != nil {
		return err
	}
	return nil
}
