package render

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sitewell/beacon/internal/evidence"
	"github.com/sitewell/beacon/internal/types"
)

// HookFunc is a generation hook: an external collaborator that produces
// a ready-to-use asset (e.g. a JSON-LD snippet) for a generate-level
// recommendation. Hooks may perform network I/O. Returning nil with no
// error means "could not generate"; so does returning an error. Retry
// policy, if any, belongs inside the hook.
type HookFunc func(ctx context.Context, ev evidence.Evidence, pctx map[string]any) (*types.Asset, error)

// invokeHook runs one generation hook with the renderer's timeout,
// limiter, and concurrency gate applied. All failure modes — limiter
// wait failure, hook error, nil asset, panic — come back as a nil asset;
// a broken hook must never abort the render.
func (r *Renderer) invokeHook(ctx context.Context, hookKey string, hook HookFunc, ev evidence.Evidence, pctx map[string]any) (asset *types.Asset) {
	defer func() {
		if rec := recover(); rec != nil {
			fmt.Fprintf(os.Stderr, "warning: generation hook %s panicked: %v\n", hookKey, rec)
			asset = nil
		}
	}()

	if r.hookLimiter != nil {
		if err := r.hookLimiter.Wait(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "warning: rate limiter wait failed for hook %s: %v\n", hookKey, err)
			return nil
		}
	}

	hookCtx := ctx
	if r.hookTimeout > 0 {
		var cancel context.CancelFunc
		hookCtx, cancel = context.WithTimeout(ctx, r.hookTimeout)
		defer cancel()
	}

	start := time.Now()
	result, err := hook(hookCtx, ev, pctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: generation hook %s failed after %v: %v\n", hookKey, time.Since(start), err)
		return nil
	}
	return result
}
