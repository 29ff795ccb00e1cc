// Package subscription keeps live server-sent event subscriptions to
// ntfy-style brokers and forwards every received message to a desktop
// notification sink and an in-process event sink.
//
// A Registry maps each subscription Key to one running worker. Subscribe and
// Unsubscribe are idempotent: subscribing to an active key is a no-op, and
// unsubscribing an unknown key is a no-op. Each worker loops through
// connecting, streaming and a fixed backoff wait until its context is
// cancelled:
//
//	reg := subscription.NewRegistry(client, dispatcher,
//	    subscription.WithBackoff(resilience.NewFixedBackoff(5*time.Second)),
//	)
//	defer reg.Close(context.Background())
//
//	_ = reg.Subscribe("https://ntfy.sh/", "alerts")
//	_ = reg.Subscribe("https://ntfy.sh", "alerts") // same key, no second worker
//	_ = reg.Unsubscribe("https://ntfy.sh", "alerts")
//
// Failures never leave a worker: connection and stream errors lead to the
// backoff wait, malformed frames are dropped, and sink errors are logged.
package subscription
