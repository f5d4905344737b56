package server

import (
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	bodydomain "github.com/nutrilog/nutrilog/internal/bodyrecord/domain"
	exercisedomain "github.com/nutrilog/nutrilog/internal/exercise/domain"
	intakedomain "github.com/nutrilog/nutrilog/internal/foodintake/domain"
	"github.com/nutrilog/nutrilog/internal/nutrition"
	sleepdomain "github.com/nutrilog/nutrilog/internal/sleep/domain"
	"github.com/shopspring/decimal"
)

// recordedAt parses the record timestamp, defaulting to now when absent.
func recordedAt(c *gin.Context, raw string) (time.Time, bool) {
	if raw == "" {
		return time.Now(), true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		AbortWithError(c, newValidationError("recorded_at", "invalid_recorded_at", "expected RFC3339 timestamp"))
		return time.Time{}, false
	}
	return t, true
}

type saveBodyRecordRequest struct {
	RecordedAt   string           `json:"recorded_at"`
	WeightKg     decimal.Decimal  `json:"weight_kg"`
	BodyFatPct   *decimal.Decimal `json:"body_fat_pct"`
	MuscleMassKg *decimal.Decimal `json:"muscle_mass_kg"`
}

func (s *Server) SaveBodyRecord(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	var req saveBodyRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("request", "invalid_request", "invalid request body"))
		return
	}
	at, ok := recordedAt(c, req.RecordedAt)
	if !ok {
		return
	}

	res, err := s.bodySvc.Save(c.Request.Context(), bodydomain.SaveRequest{
		UserID:       uid,
		RecordedAt:   at,
		WeightKg:     req.WeightKg,
		BodyFatPct:   req.BodyFatPct,
		MuscleMassKg: req.MuscleMassKg,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": res})
}

func (s *Server) DeleteBodyRecord(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	res, err := s.bodySvc.Delete(c.Request.Context(), uid, id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": res})
}

type saveFoodIntakeRequest struct {
	ID         string          `json:"id"`
	RecordedAt string          `json:"recorded_at"`
	FoodID     string          `json:"food_id"`
	MealType   string          `json:"meal_type"`
	Quantity   decimal.Decimal `json:"quantity"`
	Unit       string          `json:"unit"`
}

func (s *Server) SaveFoodIntake(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	var req saveFoodIntakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("request", "invalid_request", "invalid request body"))
		return
	}
	at, ok := recordedAt(c, req.RecordedAt)
	if !ok {
		return
	}
	foodID, err := snowflake.ParseString(req.FoodID)
	if err != nil || foodID == 0 {
		AbortWithError(c, newValidationError("food_id", "invalid_food_id", "malformed food id"))
		return
	}
	var recID snowflake.ID
	if req.ID != "" {
		recID, err = snowflake.ParseString(req.ID)
		if err != nil {
			AbortWithError(c, newValidationError("id", "invalid_id", "malformed id"))
			return
		}
	}

	res, err := s.intakeSvc.Save(c.Request.Context(), intakedomain.SaveRequest{
		ID:         recID,
		UserID:     uid,
		RecordedAt: at,
		FoodID:     foodID,
		MealType:   req.MealType,
		Quantity:   req.Quantity,
		Unit:       nutrition.Unit(req.Unit),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": res})
}

func (s *Server) DeleteFoodIntake(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	res, err := s.intakeSvc.Delete(c.Request.Context(), uid, id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": res})
}

type saveExerciseRecordRequest struct {
	ID              string `json:"id"`
	RecordedAt      string `json:"recorded_at"`
	ExerciseType    string `json:"exercise_type"`
	Intensity       string `json:"intensity"`
	DurationMinutes int    `json:"duration_minutes"`
}

func (s *Server) SaveExerciseRecord(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	var req saveExerciseRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("request", "invalid_request", "invalid request body"))
		return
	}
	at, ok := recordedAt(c, req.RecordedAt)
	if !ok {
		return
	}
	var recID snowflake.ID
	if req.ID != "" {
		var err error
		recID, err = snowflake.ParseString(req.ID)
		if err != nil {
			AbortWithError(c, newValidationError("id", "invalid_id", "malformed id"))
			return
		}
	}

	res, err := s.exerciseSvc.Save(c.Request.Context(), exercisedomain.SaveRequest{
		ID:              recID,
		UserID:          uid,
		RecordedAt:      at,
		ExerciseType:    exercisedomain.ExerciseType(req.ExerciseType),
		Intensity:       exercisedomain.Intensity(req.Intensity),
		DurationMinutes: req.DurationMinutes,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": res})
}

func (s *Server) DeleteExerciseRecord(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	res, err := s.exerciseSvc.Delete(c.Request.Context(), uid, id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": res})
}

type saveSleepRecordRequest struct {
	ID              string `json:"id"`
	RecordedAt      string `json:"recorded_at"`
	DurationMinutes int    `json:"duration_minutes"`
	Status          string `json:"status"`
}

func (s *Server) SaveSleepRecord(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	var req saveSleepRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("request", "invalid_request", "invalid request body"))
		return
	}
	at, ok := recordedAt(c, req.RecordedAt)
	if !ok {
		return
	}
	var recID snowflake.ID
	if req.ID != "" {
		var err error
		recID, err = snowflake.ParseString(req.ID)
		if err != nil {
			AbortWithError(c, newValidationError("id", "invalid_id", "malformed id"))
			return
		}
	}

	res, err := s.sleepSvc.Save(c.Request.Context(), sleepdomain.SaveRequest{
		ID:              recID,
		UserID:          uid,
		RecordedAt:      at,
		DurationMinutes: req.DurationMinutes,
		Status:          sleepdomain.SleepStatus(req.Status),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": res})
}

func (s *Server) DeleteSleepRecord(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	res, err := s.sleepSvc.Delete(c.Request.Context(), uid, id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": res})
}
