package bootstrap

import (
	"context"
	"fmt"
)

// Hook is a lifecycle callback.
type Hook func(ctx context.Context) error

// OnReady registers hooks run once every component has started.
func (a *App[C]) OnReady(hooks ...Hook) {
	a.onReady = append(a.onReady, hooks...)
}

// OnStop registers hooks run at shutdown before any component stops, while
// the whole stack is still up.
func (a *App[C]) OnStop(hooks ...Hook) {
	a.onStop = append(a.onStop, hooks...)
}

func runHooks(ctx context.Context, hooks []Hook) error {
	for i, h := range hooks {
		if err := h(ctx); err != nil {
			return fmt.Errorf("hook %d: %w", i, err)
		}
	}
	return nil
}
