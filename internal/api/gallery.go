package api

import (
	"errors"
	"io"
	"net/http"
	"time"

	"marqueelz_backend/internal/imghost"
	"marqueelz_backend/internal/model"
	"marqueelz_backend/internal/service"
	"marqueelz_backend/pkg/auth"
	"marqueelz_backend/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type galleryRoutes struct {
	gs service.GalleryServiceI
}

func NewGalleryRoutes(handler *gin.RouterGroup, gs service.GalleryServiceI, a *auth.Service) {
	r := &galleryRoutes{gs: gs}

	h := handler.Group("/gallery")
	h.Use(a.Middleware())
	{
		h.GET("", r.List)
		h.POST("", r.Upload)
		h.DELETE("/:id", r.Delete)
		h.POST("/:id/comments", r.AddComment)
	}
}

type ImageCommentResponse struct {
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

type GalleryImageResponse struct {
	ID           string                 `json:"id"`
	DisplayURL   string                 `json:"display_url"`
	ThumbnailURL string                 `json:"thumbnail_url"`
	Caption      string                 `json:"caption,omitempty"`
	Comments     []ImageCommentResponse `json:"comments"`
	CreatedAt    time.Time              `json:"created_at"`
}

type AddCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

func (r *galleryRoutes) Upload(c *gin.Context) {
	log := logger.Logger()

	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}
	defer file.Close()

	if header.Size > imghost.MaxUploadSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image too large (max 32MB)"})
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, imghost.MaxUploadSize+1))
	if err != nil {
		log.Error("failed to read uploaded file", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read image"})
		return
	}

	img, err := r.gs.Upload(c.Request.Context(), principal.UserID, data,
		header.Header.Get("Content-Type"), c.PostForm("caption"))
	if err != nil {
		log.Error("failed to upload image", zap.Error(err))
		switch {
		case errors.Is(err, imghost.ErrTooLarge):
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image too large (max 32MB)"})
		case errors.Is(err, imghost.ErrNotImage):
			c.JSON(http.StatusBadRequest, gin.H{"error": "only image files are allowed"})
		case errors.Is(err, imghost.ErrTimeout):
			c.JSON(http.StatusGatewayTimeout, gin.H{"error": "image host is taking too long, try again"})
		default:
			c.JSON(http.StatusBadGateway, gin.H{"error": "failed to upload image"})
		}
		return
	}

	c.JSON(http.StatusOK, toGalleryImageResponse(img))
}

func (r *galleryRoutes) List(c *gin.Context) {
	log := logger.Logger()

	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	images, err := r.gs.List(c.Request.Context(), principal.UserID)
	if err != nil {
		log.Error("failed to list gallery", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load gallery"})
		return
	}

	response := make([]GalleryImageResponse, len(images))
	for i, img := range images {
		response[i] = toGalleryImageResponse(img)
	}

	c.JSON(http.StatusOK, response)
}

func (r *galleryRoutes) Delete(c *gin.Context) {
	log := logger.Logger()

	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid image id"})
		return
	}

	if err := r.gs.Delete(c.Request.Context(), principal.UserID, id); err != nil {
		if errors.Is(err, service.ErrImageNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "image not found"})
			return
		}
		log.Error("failed to delete image", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete image"})
		return
	}

	c.JSON(http.StatusOK, gin.H{})
}

func (r *galleryRoutes) AddComment(c *gin.Context) {
	log := logger.Logger()

	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid image id"})
		return
	}

	var req AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "comment text is required"})
		return
	}

	comment, err := r.gs.AddComment(c.Request.Context(), principal.UserID, id, req.Text)
	if err != nil {
		log.Error("failed to add comment", zap.Error(err))
		switch {
		case errors.Is(err, service.ErrEmptyComment):
			c.JSON(http.StatusBadRequest, gin.H{"error": "comment is empty"})
		case errors.Is(err, service.ErrImageNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "image not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add comment"})
		}
		return
	}

	c.JSON(http.StatusOK, ImageCommentResponse{
		Text:      comment.Text,
		CreatedAt: comment.CreatedAt,
	})
}

func toGalleryImageResponse(img *model.GalleryImage) GalleryImageResponse {
	comments := make([]ImageCommentResponse, len(img.Comments))
	for i, comment := range img.Comments {
		comments[i] = ImageCommentResponse{
			Text:      comment.Text,
			CreatedAt: comment.CreatedAt,
		}
	}
	return GalleryImageResponse{
		ID:           img.ID.String(),
		DisplayURL:   img.DisplayURL,
		ThumbnailURL: img.ThumbnailURL,
		Caption:      img.Caption,
		Comments:     comments,
		CreatedAt:    img.CreatedAt,
	}
}
