package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"marqueelz_backend/internal/middleware"
	"marqueelz_backend/internal/service"
	"marqueelz_backend/pkg/auth"
	"marqueelz_backend/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
)

type voucherRoutes struct {
	vs service.VoucherServiceI
}

func NewVoucherRoutes(handler *gin.RouterGroup, vs service.VoucherServiceI, a *auth.Service, authz *middleware.Authorization) {
	r := &voucherRoutes{vs: vs}

	h := handler.Group("/admin/vouchers")
	h.Use(a.Middleware())
	h.Use(authz.AdminOnly())
	{
		h.GET("", r.GetPool)
		h.POST("", r.AddVoucher)
		h.DELETE("/:index", r.RemoveVoucher)
	}
}

type ClaimRecordResponse struct {
	VoucherCode   string    `json:"voucher_code"`
	ClaimedBy     string    `json:"claimed_by"`
	ClaimedAt     time.Time `json:"claimed_at"`
	StreakAtClaim int       `json:"streak_at_claim"`
}

type VoucherPoolResponse struct {
	Available []string              `json:"available"`
	Claimed   []ClaimRecordResponse `json:"claimed"`
}

type AddVoucherRequest struct {
	Code string `json:"code" binding:"required"`
}

func (r *voucherRoutes) GetPool(c *gin.Context) {
	log := logger.Logger()

	pool, err := r.vs.GetPool(c.Request.Context())
	if err != nil {
		log.Error("failed to get voucher pool", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get vouchers"})
		return
	}

	claimed := make([]ClaimRecordResponse, len(pool.Claimed))
	for i, claim := range pool.Claimed {
		claimed[i] = ClaimRecordResponse{
			VoucherCode:   claim.VoucherCode,
			ClaimedBy:     claim.ClaimedBy.String(),
			ClaimedAt:     claim.ClaimedAt,
			StreakAtClaim: claim.StreakAtClaim,
		}
	}

	c.JSON(http.StatusOK, VoucherPoolResponse{
		Available: pool.Available,
		Claimed:   claimed,
	})
}

func (r *voucherRoutes) AddVoucher(c *gin.Context) {
	log := logger.Logger()

	var req AddVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "voucher code is required"})
		return
	}

	err := r.vs.AddVoucherCode(c.Request.Context(), req.Code)
	if err != nil {
		log.Error("failed to add voucher", zap.Error(err))
		switch {
		case errors.Is(err, service.ErrEmptyVoucherCode):
			c.JSON(http.StatusBadRequest, gin.H{"error": "voucher code is empty"})
		case errors.Is(err, service.ErrDuplicateVoucher):
			c.JSON(http.StatusConflict, gin.H{"error": "voucher code already exists"})
		case errors.Is(err, service.ErrPoolContention):
			c.JSON(http.StatusBadGateway, gin.H{"error": "voucher pool is busy, try again"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add voucher"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{})
}

func (r *voucherRoutes) RemoveVoucher(c *gin.Context) {
	log := logger.Logger()

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid voucher index"})
		return
	}

	err = r.vs.RemoveVoucherCode(c.Request.Context(), index)
	if err != nil {
		log.Error("failed to remove voucher", zap.Error(err))
		switch {
		case errors.Is(err, service.ErrInvalidIndex):
			c.JSON(http.StatusNotFound, gin.H{"error": "voucher index out of range"})
		case errors.Is(err, service.ErrPoolContention):
			c.JSON(http.StatusBadGateway, gin.H{"error": "voucher pool is busy, try again"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove voucher"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{})
}
