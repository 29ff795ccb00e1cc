// Package api exposes the subscription registry and the UI event stream over
// HTTP. Routes are mounted under /api/v1 on the server's Gin engine:
//
//	GET    /api/v1/subscriptions   active subscription keys
//	POST   /api/v1/subscriptions   {"server": "...", "topic": "..."}
//	DELETE /api/v1/subscriptions   {"server": "...", "topic": "..."}
//	GET    /api/v1/events          text/event-stream of UI events
//
// Subscribe and unsubscribe are idempotent and answer 200 whether or not the
// subscription already existed.
package api
