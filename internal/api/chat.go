package api

import (
	"errors"
	"net/http"
	"time"

	"marqueelz_backend/internal/middleware"
	"marqueelz_backend/internal/service"
	"marqueelz_backend/internal/textgen"
	"marqueelz_backend/pkg/auth"
	"marqueelz_backend/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
)

type chatRoutes struct {
	cs service.ChatServiceI
}

func NewChatRoutes(handler *gin.RouterGroup, cs service.ChatServiceI, a *auth.Service, ratePerMinute int) {
	r := &chatRoutes{cs: cs}

	h := handler.Group("/chat")
	h.Use(a.Middleware())
	{
		h.GET("", r.History)
		h.POST("", middleware.RateLimit(ratePerMinute), r.Send)
	}
}

type SendMessageRequest struct {
	Message string `json:"message" binding:"required"`
}

type ChatMessageResponse struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

func (r *chatRoutes) Send(c *gin.Context) {
	log := logger.Logger()

	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}

	reply, err := r.cs.Send(c.Request.Context(), principal.UserID, req.Message)
	if err != nil {
		log.Error("failed to send chat message", zap.Error(err))
		switch {
		case errors.Is(err, service.ErrEmptyMessage):
			c.JSON(http.StatusBadRequest, gin.H{"error": "message is empty"})
		case errors.Is(err, textgen.ErrTimeout):
			c.JSON(http.StatusGatewayTimeout, gin.H{"error": "companion is taking too long, try again"})
		default:
			c.JSON(http.StatusBadGateway, gin.H{"error": "companion is unavailable right now"})
		}
		return
	}

	c.JSON(http.StatusOK, ChatMessageResponse{
		ID:        reply.ID.String(),
		Role:      reply.Role,
		Content:   reply.Content,
		CreatedAt: reply.CreatedAt,
	})
}

func (r *chatRoutes) History(c *gin.Context) {
	log := logger.Logger()

	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	messages, err := r.cs.History(c.Request.Context(), principal.UserID)
	if err != nil {
		log.Error("failed to get chat history", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get chat history"})
		return
	}

	response := make([]ChatMessageResponse, len(messages))
	for i, msg := range messages {
		response[i] = ChatMessageResponse{
			ID:        msg.ID.String(),
			Role:      msg.Role,
			Content:   msg.Content,
			CreatedAt: msg.CreatedAt,
		}
	}

	c.JSON(http.StatusOK, response)
}
