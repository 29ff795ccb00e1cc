// Command ntfywatch keeps live subscriptions to ntfy topics and turns every
// received message into a desktop notification and a UI event.
//
//	ntfywatch run                 start the watcher and the local control API
//	ntfywatch tail                print UI events from a running watcher
//	ntfywatch config validate     check the resolved configuration
//	ntfywatch config init         write a sample config.yml
//	ntfywatch version             print build information
package main
