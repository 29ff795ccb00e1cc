// Package sse fans UI events out to Server-Sent Events clients.
//
// The subscription engine emits every dispatched message through an Emitter;
// the Emitter wraps it in an Envelope and the Hub delivers it to each
// connected client whose filter matches the event channel.
//
// # Architecture
//
//   - Hub: client registry and broadcast loop
//   - Emitter: event sink that JSON-encodes payloads onto the Hub
//   - ServeSSE: HTTP handler streaming one client's events
//
// # Usage
//
//	hub := sse.NewHub()
//	go hub.Run()
//	defer hub.Stop()
//
//	emitter := sse.NewEmitter(hub)
//	_ = emitter.Emit("new-message", payload)
//
//	router.GET("/events", func(c *gin.Context) {
//	    sse.ServeSSE(hub, c.Writer, c.Request, uuid.NewString())
//	})
package sse
