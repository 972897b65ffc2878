package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/ajaypar09/Projects/internal/models"
)

// respondError maps an error onto a status code. Validation and data errors
// are the caller's fault; anything else is a storage failure.
func respondError(c *gin.Context, err error) {
	var recErr *models.RecordError
	switch {
	case errors.As(err, &recErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": recErr.Error(), "record": recErr})
	case errors.Is(err, models.ErrValidation), errors.Is(err, models.ErrInvalidData):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func parseCardID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "card id must be a positive integer"})
		return 0, false
	}
	return uint(id), true
}

// queryInt reads an optional integer query parameter. Missing means 0.
func queryInt(c *gin.Context, key string) (int, bool) {
	raw := c.Query(key)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": key + " must be a non-negative integer"})
		return 0, false
	}
	return n, true
}
