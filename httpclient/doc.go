// Package httpclient provides the streaming HTTP client used to hold
// long-lived server-sent event connections open against message brokers.
//
// Streaming requests carry no client-wide timeout: the request context is the
// only thing that ends a healthy stream. Dial and TLS handshake are still
// bounded by ConnectTimeout so a dead host fails fast.
//
//	client, err := httpclient.New(httpclient.Config{
//	    Headers: map[string]string{"User-Agent": "ntfywatch"},
//	})
//
//	stream, err := client.DoStream(ctx, httpclient.Request{
//	    URL: "https://ntfy.sh/alerts/sse",
//	})
//	if err != nil {
//	    return err
//	}
//	defer stream.Close()
//
//	for {
//	    ev, err := stream.Events.Next()
//	    if err != nil {
//	        break
//	    }
//	    handle(ev)
//	}
//
// Status codes of 400 and above are returned as *Error values classified by
// ErrorCode; the response body is drained and closed before returning.
package httpclient
