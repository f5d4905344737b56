package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	goaldomain "github.com/nutrilog/nutrilog/internal/goal/domain"
	"github.com/nutrilog/nutrilog/internal/projection"
	"github.com/shopspring/decimal"
)

type upsertGoalRequest struct {
	TargetWeightKg     decimal.Decimal  `json:"target_weight_kg"`
	TargetBodyFatPct   *decimal.Decimal `json:"target_body_fat_pct"`
	TargetLeanMassKg   *decimal.Decimal `json:"target_lean_mass_kg"`
	TargetMuscleMassKg *decimal.Decimal `json:"target_muscle_mass_kg"`
	WeeklyRateKg       decimal.Decimal  `json:"weekly_rate_kg"`
	CalorieTarget      int64            `json:"calorie_target"`
}

func (s *Server) UpsertGoal(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	var req upsertGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("request", "invalid_request", "invalid request body"))
		return
	}

	goal, err := s.goalSvc.Upsert(c.Request.Context(), goaldomain.UpsertRequest{
		UserID:             uid,
		TargetWeightKg:     req.TargetWeightKg,
		TargetBodyFatPct:   req.TargetBodyFatPct,
		TargetLeanMassKg:   req.TargetLeanMassKg,
		TargetMuscleMassKg: req.TargetMuscleMassKg,
		WeeklyRateKg:       req.WeeklyRateKg,
		CalorieTarget:      req.CalorieTarget,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": goal})
}

func (s *Server) GetGoal(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	goal, err := s.goalSvc.Get(c.Request.Context(), uid)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": goal})
}

func (s *Server) GetGoalProjection(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	proj, err := s.goalSvc.ProjectDate(c.Request.Context(), uid)
	if err != nil {
		// A flat trend is a legitimate answer, not a failure.
		if errors.Is(err, projection.ErrNoProjection) {
			c.JSON(http.StatusOK, gin.H{"data": nil, "reason": "no_projection"})
			return
		}
		if errors.Is(err, goaldomain.ErrNoWeightHistory) {
			c.JSON(http.StatusOK, gin.H{"data": nil, "reason": "no_weight_history"})
			return
		}
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": proj})
}
