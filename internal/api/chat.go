package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/collabsphere/internal/middleware"
	"github.com/lalith-99/collabsphere/internal/models"
	"go.uber.org/zap"
)

type ChatHandler struct {
	logger *zap.Logger
}

func NewChatHandler(logger *zap.Logger) *ChatHandler {
	return &ChatHandler{logger: logger}
}

type channelsResponse struct {
	Channels []models.Channel `json:"channels"`
	Active   string           `json:"active"`
}

type selectChannelRequest struct {
	ChannelID string `json:"channelId" binding:"required"`
}

// sendMessageRequest is the JSON form of a send. Multipart sends use a
// "content" field and a "file" part instead.
type sendMessageRequest struct {
	Content string             `json:"content"`
	File    *models.Attachment `json:"file"`
}

// sendResponse reports Sent=false when the message was blank and nothing was
// appended. That is not an error.
type sendResponse struct {
	Sent    bool            `json:"sent"`
	Message *models.Message `json:"message,omitempty"`
}

// Channels handles GET /v1/chat/channels
func (h *ChatHandler) Channels(c *gin.Context) {
	store := middleware.GetSession(c).Chat
	c.JSON(http.StatusOK, channelsResponse{Channels: store.Channels(), Active: store.Active()})
}

// SelectChannel handles PUT /v1/chat/active
func (h *ChatHandler) SelectChannel(c *gin.Context) {
	var req selectChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	store := middleware.GetSession(c).Chat
	store.SelectChannel(req.ChannelID)
	c.JSON(http.StatusOK, gin.H{"active": store.Active()})
}

// Messages handles GET /v1/chat/channels/:id/messages
//
// Unknown channels answer an empty list, never 404.
func (h *ChatHandler) Messages(c *gin.Context) {
	store := middleware.GetSession(c).Chat
	c.JSON(http.StatusOK, gin.H{"messages": store.Messages(c.Param("id"))})
}

// Send handles POST /v1/chat/channels/:id/messages
func (h *ChatHandler) Send(c *gin.Context) {
	text, file, err := readSend(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	store := middleware.GetSession(c).Chat

	msg, ok := store.Send(c.Param("id"), text, file)
	if !ok {
		c.JSON(http.StatusOK, sendResponse{Sent: false})
		return
	}
	c.JSON(http.StatusCreated, sendResponse{Sent: true, Message: msg})
}

// readSend accepts either a JSON body or a multipart form. Of an uploaded file
// only the name and size are kept; the contents are never opened.
func readSend(c *gin.Context) (string, *models.Attachment, error) {
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		text := c.PostForm("content")
		fh, err := c.FormFile("file")
		switch {
		case errors.Is(err, http.ErrMissingFile):
			return text, nil, nil
		case err != nil:
			return "", nil, err
		}
		return text, &models.Attachment{Name: fh.Filename, Size: fh.Size}, nil
	}

	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return "", nil, err
	}
	if req.File != nil && req.File.Name == "" {
		req.File = nil
	}
	return req.Content, req.File, nil
}
