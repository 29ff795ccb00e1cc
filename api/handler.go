package api

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "github.com/kbukum/ntfywatch/errors"
	"github.com/kbukum/ntfywatch/logger"
	"github.com/kbukum/ntfywatch/server"
	"github.com/kbukum/ntfywatch/sse"
	"github.com/kbukum/ntfywatch/subscription"
	"github.com/kbukum/ntfywatch/validation"
)

// Subscriptions is the part of *subscription.Registry the API drives.
type Subscriptions interface {
	Subscribe(server, topic string) error
	Unsubscribe(server, topic string) error
	Active() []subscription.Key
}

var _ Subscriptions = (*subscription.Registry)(nil)

// TopicRequest is the body of subscribe and unsubscribe calls.
type TopicRequest struct {
	Server string `json:"server" validate:"required"`
	Topic  string `json:"topic" validate:"required"`
}

// TopicResponse echoes the key a request resolved to.
type TopicResponse struct {
	Key    subscription.Key `json:"key"`
	Active bool             `json:"active"`
}

// ListResponse is the body of the list call.
type ListResponse struct {
	Subscriptions []subscription.Key `json:"subscriptions"`
	Count         int                `json:"count"`
}

// Handler serves the control API.
type Handler struct {
	subs Subscriptions
	hub  *sse.Hub
	log  *logger.Logger
}

// NewHandler creates a Handler. hub may be nil, in which case the events
// route is not registered.
func NewHandler(subs Subscriptions, hub *sse.Hub) *Handler {
	return &Handler{
		subs: subs,
		hub:  hub,
		log:  logger.WithComponent("api"),
	}
}

// Register mounts the routes on r under /api/v1.
func (h *Handler) Register(r gin.IRouter) {
	v1 := r.Group("/api/v1")
	v1.GET("/subscriptions", h.list)
	v1.POST("/subscriptions", h.subscribe)
	v1.DELETE("/subscriptions", h.unsubscribe)
	if h.hub != nil {
		v1.GET("/events", h.events)
	}
}

func (h *Handler) list(c *gin.Context) {
	keys := h.subs.Active()
	server.RespondOK(c, ListResponse{Subscriptions: keys, Count: len(keys)})
}

func (h *Handler) subscribe(c *gin.Context) {
	req, ok := h.bind(c)
	if !ok {
		return
	}
	if err := h.subs.Subscribe(req.Server, req.Topic); err != nil {
		server.RespondWithError(c, registryError(err))
		return
	}
	key := subscription.NewKey(req.Server, req.Topic)
	h.log.Info("subscribed via api", logger.Fields("key", key))
	server.RespondOK(c, TopicResponse{Key: key, Active: true})
}

func (h *Handler) unsubscribe(c *gin.Context) {
	req, ok := h.bind(c)
	if !ok {
		return
	}
	if err := h.subs.Unsubscribe(req.Server, req.Topic); err != nil {
		server.RespondWithError(c, registryError(err))
		return
	}
	key := subscription.NewKey(req.Server, req.Topic)
	h.log.Info("unsubscribed via api", logger.Fields("key", key))
	server.RespondOK(c, TopicResponse{Key: key, Active: false})
}

// events streams UI events. The optional filter query parameter is a glob
// over channels, e.g. ?filter=new-message.
func (h *Handler) events(c *gin.Context) {
	sse.ServeSSE(h.hub, c.Writer, c.Request, uuid.NewString(),
		sse.WithFilter(c.Query("filter")),
		sse.WithMetadata("remote_addr", c.ClientIP()),
		sse.WithMetadata("user_agent", c.Request.UserAgent()),
	)
}

func (h *Handler) bind(c *gin.Context) (TopicRequest, bool) {
	var req TopicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		server.RespondWithError(c, apperrors.InvalidInput("body", "malformed JSON body").WithCause(err))
		return req, false
	}
	if err := validation.Validate(req); err != nil {
		server.RespondWithError(c, err)
		return req, false
	}
	return req, true
}

func registryError(err error) error {
	if errors.Is(err, subscription.ErrRegistryClosed) {
		return apperrors.ServiceUnavailable("subscription registry").WithCause(err)
	}
	return apperrors.Internal(err)
}
