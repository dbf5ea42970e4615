package script

import (
	"context"
	"fmt"

	"tableflip.dev/anthem/pkg/app"
)

// Run applies every step to svc in order and stops at the first rejected
// request. Replies reach the service's notifier as before; the resolver sees
// them first. A step without an id uses its position as request id.
func Run(ctx context.Context, svc *app.Service, s *Script) error {
	r := &Resolver{Active: svc.Store.Active, Next: svc.Notifier}
	svc.Notifier = r
	defer func() { svc.Notifier = r.Next }()

	for i, step := range s.Requests {
		if err := ctx.Err(); err != nil {
			return err
		}
		msg, err := step.Msg(r)
		if err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, step.Op, err)
		}
		id := step.ID
		if id == 0 {
			id = uint64(i + 1)
		}
		if err := svc.Handle(ctx, id, msg); err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, step.Op, err)
		}
	}
	return nil
}
