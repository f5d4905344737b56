package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// parseDate parses a YYYY-MM-DD logical date.
func parseDate(c *gin.Context, field, raw string) (time.Time, bool) {
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		AbortWithError(c, newValidationError(field, "invalid_date", "expected YYYY-MM-DD"))
		return time.Time{}, false
	}
	return t, true
}

func (s *Server) GetDailyLog(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	date, ok := parseDate(c, "date", c.Param("date"))
	if !ok {
		return
	}

	log, err := s.dailyLogSvc.Get(c.Request.Context(), uid, date)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": log})
}

func (s *Server) ListDailyLogs(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	from, ok := parseDate(c, "from", c.Query("from"))
	if !ok {
		return
	}
	to, ok := parseDate(c, "to", c.Query("to"))
	if !ok {
		return
	}
	if to.Before(from) {
		AbortWithError(c, newValidationError("to", "invalid_range", "to precedes from"))
		return
	}

	logs, err := s.dailyLogSvc.Range(c.Request.Context(), uid, from, to)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": logs})
}

func (s *Server) RebuildDailyLog(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	date, ok := parseDate(c, "date", c.Param("date"))
	if !ok {
		return
	}

	log, err := s.dailyLogSvc.Rebuild(c.Request.Context(), uid, date)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": log})
}
