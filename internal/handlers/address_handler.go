package handlers

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/viccabs/booking-service/internal/models"
	"github.com/viccabs/booking-service/internal/services"
	"github.com/viccabs/booking-service/internal/utils"
)

const (
	wsReadLimit    = 4 << 10
	wsWriteTimeout = 5 * time.Second
	wsPongWait     = 60 * time.Second
	wsPingInterval = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin policy is enforced by the CORS middleware on the HTTP routes
	CheckOrigin: func(r *http.Request) bool { return true },
}

// AddressHandler exposes address autocomplete over HTTP and WebSocket
type AddressHandler struct {
	addressService *services.AddressService
	debounceDelay  time.Duration
	logger         *logrus.Logger
}

// NewAddressHandler creates a new AddressHandler
func NewAddressHandler(addressService *services.AddressService, debounceDelay time.Duration, logger *logrus.Logger) *AddressHandler {
	return &AddressHandler{
		addressService: addressService,
		debounceDelay:  debounceDelay,
		logger:         logger,
	}
}

// Suggest - GET /api/v1/address/suggest?q=
func (h *AddressHandler) Suggest(c *gin.Context) {
	suggestions := h.addressService.Suggest(c.Request.Context(), c.Query("q"))
	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}

// Resolve turns a chosen candidate into the address stored in the form - POST /api/v1/address/resolve
func (h *AddressHandler) Resolve(c *gin.Context) {
	var candidate models.AddressCandidate
	if err := c.ShouldBindJSON(&candidate); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"address": h.addressService.Resolve(c.Request.Context(), candidate)})
}

type addressClientMessage struct {
	Type      string                  `json:"type"`
	Query     string                  `json:"q,omitempty"`
	Candidate models.AddressCandidate `json:"candidate"`
}

type addressServerMessage struct {
	Type    string `json:"type"`
	Address string `json:"address,omitempty"`
	Error   string `json:"error,omitempty"`
}

// suggestionsMessage always carries the list, even when empty
type suggestionsMessage struct {
	Type        string                    `json:"type"`
	Query       string                    `json:"q"`
	Suggestions []models.AddressCandidate `json:"suggestions"`
}

// addressSession serializes writes to one connection
type addressSession struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (s *addressSession) send(msg any) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	_ = s.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return s.conn.WriteJSON(msg)
}

func (s *addressSession) ping() error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	return s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteTimeout))
}

// WebSocket streams debounced suggestions while the customer types - GET /api/v1/address/ws
//
// Client frames: {"type":"query","q":"..."} and {"type":"select","candidate":{...}}.
// Server frames: "suggestions", "selected" and "error".
func (h *AddressHandler) WebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.WithError(err).Warn("Address websocket upgrade failed")
		return
	}
	defer conn.Close()

	log := h.logger.WithFields(logrus.Fields{
		"request_id": c.GetString(utils.RequestIDKey),
		"session_id": uuid.NewString(),
		"ip":         utils.GetRealIP(c),
	})
	log.Debug("Address websocket connected")

	session := &addressSession{conn: conn}
	ctx := c.Request.Context()

	debouncer := services.NewSuggestDebouncer(ctx, h.addressService, h.debounceDelay,
		func(query string, candidates []models.AddressCandidate) {
			if candidates == nil {
				candidates = []models.AddressCandidate{}
			}
			if err := session.send(suggestionsMessage{Type: "suggestions", Query: query, Suggestions: candidates}); err != nil {
				log.WithError(err).Debug("Failed to write suggestions")
			}
		})
	defer debouncer.Close()

	conn.SetReadLimit(wsReadLimit)
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(wsPingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := session.ping(); err != nil {
					// Closing unblocks the reader
					_ = conn.Close()
					return
				}
			}
		}
	}()

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.WithError(err).Debug("Address websocket closed unexpectedly")
			}
			return
		}
		if msgType != websocket.TextMessage {
			_ = session.send(addressServerMessage{Type: "error", Error: "messages must be JSON text"})
			continue
		}

		var msg addressClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			_ = session.send(addressServerMessage{Type: "error", Error: "invalid message"})
			continue
		}

		switch msg.Type {
		case "query":
			debouncer.Query(msg.Query)
		case "select":
			// Selecting closes the list; a pending lookup must not reopen it
			debouncer.Cancel()
			address := h.addressService.Resolve(ctx, msg.Candidate)
			if err := session.send(addressServerMessage{Type: "selected", Address: address}); err != nil {
				return
			}
		default:
			_ = session.send(addressServerMessage{Type: "error", Error: "unknown message type"})
		}
	}
}
