// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"context"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RequestObserver is told about every HTTP request before it is sent.
type RequestObserver func(method, url string)

type observerKey struct{}

// WithRequestObserver returns a context whose requests are reported to fn.
// The provider uses it to surface "Sending HTTP ..." lines on the verbose stream.
func WithRequestObserver(ctx context.Context, fn RequestObserver) context.Context {
	return context.WithValue(ctx, observerKey{}, fn)
}

func observerFrom(ctx context.Context) RequestObserver {
	fn, _ := ctx.Value(observerKey{}).(RequestObserver)
	return fn
}

// pacedTransport waits on a token bucket before each request and reports the
// request to the context's observer.
type pacedTransport struct {
	base    http.RoundTripper
	limiter *rate.Limiter
}

func newPacedTransport(base http.RoundTripper, perSecond float64, burst int) *pacedTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	t := &pacedTransport{base: base}
	if perSecond > 0 {
		if burst < 1 {
			burst = 1
		}
		t.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
	return t
}

func (t *pacedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}
	if fn := observerFrom(ctx); fn != nil {
		fn(req.Method, req.URL.String())
	}
	zap.L().Debug("github request", zap.String("method", req.Method), zap.String("url", req.URL.String()))
	return t.base.RoundTrip(req)
}
