package renderer

import (
	"context"
	"time"
)

// RenderTimeout caps a single render when the caller's context carries no
// deadline of its own.
const RenderTimeout = 30 * time.Second

// RenderWithTimeout runs r.Render bounded by ctx. The drawing libraries
// cannot be interrupted mid-render; on timeout the render goroutine finishes
// in the background and its result is discarded.
func RenderWithTimeout(ctx context.Context, r Renderer, data CertificateData) ([]byte, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, RenderTimeout)
		defer cancel()
	}

	type result struct {
		pdf []byte
		err error
	}
	ch := make(chan result, 1)
	go func() {
		pdf, err := r.Render(data)
		ch <- result{pdf: pdf, err: err}
	}()

	select {
	case res := <-ch:
		return res.pdf, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
