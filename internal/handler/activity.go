package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/studentdev-hub/internal/metrics"
	"github.com/iliyamo/studentdev-hub/internal/queue"
	"github.com/iliyamo/studentdev-hub/internal/service"
)

// Activity counts every mutation attempt and publishes an event for
// those that were applied.  The zero value only counts.
type Activity struct {
	Rec *service.Recorder
}

func (a Activity) record(c echo.Context, kind, op, scope, itemID string, ok bool) {
	metrics.Mutation(kind, op, ok)
	if !ok || a.Rec == nil {
		return
	}
	u := caller(c)
	role := "guest"
	if u != nil {
		role = string(u.Role)
	}
	a.Rec.Record(queue.ActivityEvent{
		Kind:   kind,
		Op:     op,
		Scope:  scope,
		ItemID: itemID,
		Actor:  u.OwnerEmail(),
		Role:   role,
	})
}
