package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// BoothTopic returns the topic for a booth's slot ledger view.
func BoothTopic(boothID int64) Topic {
	return Topic(fmt.Sprintf("booth:%d", boothID))
}

// QnaTopic returns the topic for a Q&A session view.
func QnaTopic(sessionID int64) Topic {
	return Topic(fmt.Sprintf("qna:%d", sessionID))
}

// SnapshotProvider supplies the full current state of a topic. It is called
// once per (re)subscribe so a reconnecting client always starts from a
// complete snapshot instead of a cursor.
type SnapshotProvider interface {
	Snapshot(ctx context.Context, resourceID int64) (interface{}, error)
}

// Handler upgrades subscribe requests to websocket connections
type Handler struct {
	hub       *Hub
	providers map[string]SnapshotProvider
	logger    zerolog.Logger
}

// NewHandler creates a new realtime subscription handler
func NewHandler(hub *Hub, logger zerolog.Logger) *Handler {
	return &Handler{
		hub:       hub,
		providers: make(map[string]SnapshotProvider),
		logger:    logger,
	}
}

// RegisterProvider binds a topic prefix ("booth", "qna") to its snapshot source
func (h *Handler) RegisterProvider(prefix string, provider SnapshotProvider) {
	h.providers[prefix] = provider
}

// Subscribe returns a gin handler that upgrades the connection and
// subscribes it to <prefix>:<id>. The initial snapshot is sent before any
// pushed events so the client never observes a gap.
func (h *Handler) Subscribe(prefix string) gin.HandlerFunc {
	return func(c *gin.Context) {
		idStr := c.Param("id")
		resourceID, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid resource ID"})
			return
		}

		userIDValue, exists := c.Get("userID")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in context"})
			return
		}
		userID, ok := userIDValue.(int64)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user ID format"})
			return
		}

		provider, ok := h.providers[prefix]
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Unknown subscription topic"})
			return
		}

		// Fetch the snapshot before upgrading so a missing resource is
		// still reported over plain HTTP.
		snapshot, err := provider.Snapshot(c.Request.Context(), resourceID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			h.logger.Error().
				Err(err).
				Str("prefix", prefix).
				Int64("resourceID", resourceID).
				Msg("Failed to upgrade connection to WebSocket")
			return
		}

		topic := Topic(fmt.Sprintf("%s:%d", prefix, resourceID))
		client := &Client{
			hub:    h.hub,
			conn:   conn,
			send:   make(chan []byte, 256),
			userID: userID,
			topic:  topic,
			logger: h.logger,
		}

		// Queue the initial snapshot ahead of registration so it is the
		// first frame the subscriber reads.
		initial := &Event{
			Topic:   topic,
			Kind:    "snapshot",
			Payload: snapshot,
			SentAt:  time.Now(),
		}
		if data, err := json.Marshal(initial); err == nil {
			client.send <- data
		}

		client.hub.register <- client

		go client.writePump()
		go client.readPump()
	}
}
