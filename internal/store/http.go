package store

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const maxBody = 16 << 20

type statusError struct {
	code   int
	status string
}

func (e statusError) Error() string { return "upstream status: " + e.status }

func fetch(ctx context.Context, raw string, opts LoadOptions) ([]byte, error) {
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	log := opts.logger()

	var lastErr error
	for attempt := 0; attempt <= opts.Retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * 250 * time.Millisecond):
			}
		}
		if opts.Limiter != nil {
			if err := opts.Limiter.WaitURL(ctx, raw); err != nil {
				return nil, err
			}
		}

		b, err := fetchOnce(ctx, client, raw, opts.Token)
		if err == nil {
			return b, nil
		}
		lastErr = err

		if se, ok := err.(statusError); ok && se.code < 500 {
			break
		}
		if ctx.Err() != nil {
			break
		}
		log.Warn("fetch failed", zap.String("url", raw), zap.Int("attempt", attempt+1), zap.Error(err))
	}
	return nil, lastErr
}

func fetchOnce(ctx context.Context, client *http.Client, raw, token string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, raw, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "jobboard/1.0 (+local)")
	req.Header.Set("Accept", "application/json, text/html;q=0.9, */*;q=0.5")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", raw, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, statusError{code: resp.StatusCode, status: resp.Status}
	}

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", raw, err)
	}
	if len(b) > maxBody {
		return nil, fmt.Errorf("%w: body exceeds %d bytes", ErrMalformed, maxBody)
	}
	return b, nil
}
