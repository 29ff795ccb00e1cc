package subscription

// ChannelNewMessage is the event sink channel for dispatched messages.
const ChannelNewMessage = "new-message"

// NotificationSink presents a desktop notification.
type NotificationSink interface {
	Show(title, body string, id int32) error
}

// EventSink delivers an event to UI consumers.
type EventSink interface {
	Emit(channel string, payload any) error
}

// NewMessageEvent is the payload emitted on ChannelNewMessage.
type NewMessageEvent struct {
	ServerAddress string   `json:"serverAddress"`
	Message       *Message `json:"message"`
}

// NotificationSinkFunc adapts a function to NotificationSink.
type NotificationSinkFunc func(title, body string, id int32) error

func (f NotificationSinkFunc) Show(title, body string, id int32) error { return f(title, body, id) }

// EventSinkFunc adapts a function to EventSink.
type EventSinkFunc func(channel string, payload any) error

func (f EventSinkFunc) Emit(channel string, payload any) error { return f(channel, payload) }
