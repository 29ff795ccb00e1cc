package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/kbukum/ntfywatch/logger"
)

// keepAliveInterval stays under common proxy idle timeouts.
const keepAliveInterval = 30 * time.Second

// ServeSSE streams hub events to one HTTP client until it disconnects or the
// hub stops.
func ServeSSE(hub *Hub, w http.ResponseWriter, r *http.Request, clientID string, opts ...ClientOption) {
	log := logger.WithComponent("sse").WithFields(logger.Fields("client_id", clientID))

	flusher, ok := w.(http.Flusher)
	if !ok {
		log.Error("streaming not supported")
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	// Long-lived: the server WriteTimeout must not cut the stream.
	rc := http.NewResponseController(w)
	if err := rc.SetWriteDeadline(time.Time{}); err != nil {
		log.Debug("could not disable write deadline", logger.ErrorFields("set_write_deadline", err))
	}

	client := NewClient(clientID, opts...)
	if err := hub.Register(client); err != nil {
		http.Error(w, "event stream unavailable", http.StatusServiceUnavailable)
		return
	}
	defer hub.Unregister(client)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	connected, _ := json.Marshal(Envelope{Type: EventTypeConnected, Data: ConnectedEvent{
		ClientID: clientID,
		Filter:   client.Filter(),
		Metadata: client.Metadata(),
	}})
	writeFrame(w, Frame{Event: EventTypeConnected, Data: connected})
	flusher.Flush()

	log.Debug("client connected", logger.Fields("remote_addr", r.RemoteAddr))

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			log.Debug("client disconnected")
			return

		case frame, ok := <-client.Events():
			if !ok {
				return
			}
			writeFrame(w, frame)
			flusher.Flush()

		case <-keepAlive.C:
			_, _ = fmt.Fprintf(w, ": %s %d\n\n", EventTypeKeepAlive, time.Now().Unix())
			flusher.Flush()
		}
	}
}

func writeFrame(w http.ResponseWriter, f Frame) {
	if f.Event != "" {
		_, _ = fmt.Fprintf(w, "event: %s\n", f.Event)
	}
	_, _ = fmt.Fprintf(w, "data: %s\n\n", f.Data)
}
