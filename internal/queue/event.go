// Package queue defines message payloads exchanged over the message broker.
package queue

// ActivityQueue is the durable queue activity events are published to.
const ActivityQueue = "studentdev.activity"

// ActivityEvent is published after an applied mutation. It carries enough
// context for the worker to write an audit line without calling back
// into the API.
type ActivityEvent struct {
	Kind       string `json:"kind"`            // track, module, resource, project, activity, attachment, submission, response, message, allow-list
	Op         string `json:"op"`              // create, update, delete, post, edit
	Scope      string `json:"scope,omitempty"` // board scope, track id or resource id
	ItemID     string `json:"item_id"`
	Actor      string `json:"actor"` // email of the caller, empty for guests
	Role       string `json:"role"`
	OccurredAt string `json:"occurred_at"` // RFC3339 UTC
}
