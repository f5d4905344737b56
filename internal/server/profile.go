package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	profiledomain "github.com/nutrilog/nutrilog/internal/profile/domain"
	"github.com/shopspring/decimal"
)

type upsertProfileRequest struct {
	HeightCm      decimal.Decimal `json:"height_cm"`
	BirthDate     string          `json:"birth_date"`
	Gender        string          `json:"gender"`
	ActivityLevel int             `json:"activity_level"`
}

func (s *Server) UpsertProfile(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	var req upsertProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("request", "invalid_request", "invalid request body"))
		return
	}
	birth, err := time.Parse("2006-01-02", req.BirthDate)
	if err != nil {
		AbortWithError(c, newValidationError("birth_date", "invalid_birth_date", "expected YYYY-MM-DD"))
		return
	}

	resp, err := s.profileSvc.Upsert(c.Request.Context(), profiledomain.UpsertRequest{
		UserID:        uid,
		HeightCm:      req.HeightCm,
		BirthDate:     birth,
		Gender:        req.Gender,
		ActivityLevel: req.ActivityLevel,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetProfile(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	resp, err := s.profileSvc.Get(c.Request.Context(), uid)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
