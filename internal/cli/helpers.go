package cli

import (
	"context"
	"fmt"
	"time"

	"archview/pkg/cache"
	"archview/pkg/layout/dot"
	"archview/pkg/layout/layered"
	"archview/pkg/model"
	"archview/pkg/view"
)

// layoutWait caps how long commands wait for an asynchronous layout.
const layoutWait = 2 * time.Minute

// newEngine resolves an engine name to an implementation.
func newEngine(name string) (view.Engine, error) {
	switch name {
	case "", "layered":
		return layered.New(), nil
	case "dot":
		return dot.New(), nil
	default:
		return nil, fmt.Errorf("unknown layout engine %q (want layered or dot)", name)
	}
}

// parseDirection resolves a direction name.
func parseDirection(name string) (view.Direction, error) {
	switch name {
	case "", "down":
		return view.DirectionDown, nil
	case "right":
		return view.DirectionRight, nil
	default:
		return "", fmt.Errorf("unknown direction %q (want down or right)", name)
	}
}

// newCache builds the layout cache for CLI use. Failures fall back to the
// null cache so commands still work.
func newCache(noCache bool) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache()
	}
	c, err := cache.NewFileCache(dir)
	if err != nil {
		return cache.NewNullCache()
	}
	return c
}

// awaitLayout builds a view over the snapshot, navigates to target when
// non-empty, and blocks until the first layout is applied. The returned view
// holds positioned nodes and routed edges; callers own Close.
func awaitLayout(ctx context.Context, snap *model.Snapshot, target string, engine view.Engine, c cache.Cache, dir view.Direction) (*view.View, error) {
	updated := make(chan struct{}, 1)
	errCh := make(chan error, 1)

	v := view.New(snap, view.Options{
		Coordinator: view.CoordinatorOptions{
			Engine:    engine,
			Cache:     c,
			Logger:    loggerFromContext(ctx),
			Direction: dir,
			OnUpdate: func() {
				select {
				case updated <- struct{}{}:
				default:
				}
			},
			OnError: func(err error) {
				select {
				case errCh <- err:
				default:
				}
			},
		},
	})

	if target != "" {
		v.DrillInto(ctx, target)
		if v.State().DrillTarget != target {
			v.Close()
			return nil, fmt.Errorf("component %s not found or not drillable", target)
		}
	} else {
		v.Refresh(ctx)
	}

	select {
	case <-updated:
		return v, nil
	case err := <-errCh:
		v.Close()
		return nil, err
	case <-time.After(layoutWait):
		v.Close()
		return nil, fmt.Errorf("layout did not complete within %s", layoutWait)
	case <-ctx.Done():
		v.Close()
		return nil, ctx.Err()
	}
}
