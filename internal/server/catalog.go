package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	catalogdomain "github.com/nutrilog/nutrilog/internal/catalog/domain"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type createFoodRequest struct {
	Name             string            `json:"name"`
	Brand            string            `json:"brand"`
	ServingSizeGrams decimal.Decimal   `json:"serving_size_grams"`
	Calories         decimal.Decimal   `json:"calories"`
	CarbsG           decimal.Decimal   `json:"carbs_g"`
	ProteinG         decimal.Decimal   `json:"protein_g"`
	FatG             decimal.Decimal   `json:"fat_g"`
	SodiumMg         *decimal.Decimal  `json:"sodium_mg"`
	FiberG           *decimal.Decimal  `json:"fiber_g"`
	SugarG           *decimal.Decimal  `json:"sugar_g"`
	Extras           datatypes.JSONMap `json:"extras"`
}

func (s *Server) CreateFood(c *gin.Context) {
	var req createFoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("request", "invalid_request", "invalid request body"))
		return
	}

	food, err := s.catalogSvc.Create(c.Request.Context(), catalogdomain.CreateRequest{
		Name:             req.Name,
		Brand:            req.Brand,
		ServingSizeGrams: req.ServingSizeGrams,
		Calories:         req.Calories,
		CarbsG:           req.CarbsG,
		ProteinG:         req.ProteinG,
		FatG:             req.FatG,
		SodiumMg:         req.SodiumMg,
		FiberG:           req.FiberG,
		SugarG:           req.SugarG,
		Extras:           req.Extras,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": food})
}

func (s *Server) SearchFoods(c *gin.Context) {
	query := strings.TrimSpace(c.Query("query"))
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			AbortWithError(c, newValidationError("limit", "invalid_limit", "limit must be a positive integer"))
			return
		}
		limit = n
	}

	foods, err := s.catalogSvc.Search(c.Request.Context(), query, limit)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": foods})
}

func (s *Server) GetFood(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	food, err := s.catalogSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": food})
}
