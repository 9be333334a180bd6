package api

import (
	"errors"
	"net/http"
	"time"

	"marqueelz_backend/internal/service"
	"marqueelz_backend/pkg/auth"
	"marqueelz_backend/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
)

type streakRoutes struct {
	ss       service.StreakServiceI
	vs       service.VoucherServiceI
	notifier *service.Notifications
}

func NewStreakRoutes(handler *gin.RouterGroup, ss service.StreakServiceI, vs service.VoucherServiceI, notifier *service.Notifications, a *auth.Service) {
	r := &streakRoutes{ss: ss, vs: vs, notifier: notifier}

	h := handler.Group("/streak")
	h.Use(a.Middleware())
	{
		h.GET("", r.GetStreak)
		h.POST("/advance", r.AdvanceStreak)
	}
}

type StreakResponse struct {
	StreakCount     int    `json:"streak_count"`
	RewardEligible  bool   `json:"reward_eligible"`
	ActiveSlots     int    `json:"active_slots"`
	DaysUntilReward int    `json:"days_until_reward"`
	VoucherCode     string `json:"voucher_code,omitempty"`
}

func (r *streakRoutes) GetStreak(c *gin.Context) {
	log := logger.Logger()

	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	status, err := r.ss.GetStatus(c.Request.Context(), principal.UserID, time.Now())
	if err != nil {
		log.Error("failed to get streak status", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get streak"})
		return
	}

	c.JSON(http.StatusOK, StreakResponse{
		StreakCount:     status.StreakCount,
		RewardEligible:  status.RewardEligible,
		ActiveSlots:     status.ActiveSlots,
		DaysUntilReward: status.DaysUntilReward,
	})
}

// AdvanceStreak applies today's login and, when the advance crossed a
// reward threshold, claims a voucher from the shared pool. An exhausted
// pool is not an error: the streak still advances, just without a reward.
func (r *streakRoutes) AdvanceStreak(c *gin.Context) {
	log := logger.Logger()

	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	status, err := r.ss.AdvanceStreak(c.Request.Context(), principal.UserID, time.Now())
	if err != nil {
		log.Error("failed to advance streak", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to advance streak"})
		return
	}

	response := StreakResponse{
		StreakCount:     status.StreakCount,
		RewardEligible:  status.RewardEligible,
		ActiveSlots:     status.ActiveSlots,
		DaysUntilReward: status.DaysUntilReward,
	}

	if status.RewardEligible {
		code, err := r.vs.ClaimVoucher(c.Request.Context(), principal.UserID, status.StreakCount)
		switch {
		case err == nil:
			response.VoucherCode = code
			r.notifier.Publish(principal.UserID, service.Event{
				Type: "streak.reward",
				Payload: map[string]any{
					"voucher_code": code,
					"streak":       status.StreakCount,
				},
			})
		case errors.Is(err, service.ErrNoVoucherAvailable):
			log.Info("reward earned but voucher pool is empty",
				zap.String("user_id", principal.UserID.String()))
		default:
			log.Error("failed to claim voucher", zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "failed to claim voucher"})
			return
		}
	}

	c.JSON(http.StatusOK, response)
}
