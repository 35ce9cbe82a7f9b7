package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pizzadelicia/pizzeria-api/internal/models"
)

// respondError maps service-layer errors onto HTTP status codes.
// Unknown errors are reported as 500 without leaking internals.
func respondError(ctx *gin.Context, err error) {
	switch {
	case models.IsValidation(err):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case models.IsNotFound(err):
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case models.IsConflict(err):
		ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// parseIDParam reads a positive numeric path parameter
func parseIDParam(ctx *gin.Context, name string) (uint, bool) {
	raw, exists := ctx.Params.Get(name)
	if !exists {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Missing " + name + " parameter"})
		return 0, false
	}

	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name + " format"})
		return 0, false
	}
	return uint(id), true
}

// parseDateRange reads optional date_from / date_to query parameters in
// YYYY-MM-DD form. date_to is widened to the end of its day.
func parseDateRange(ctx *gin.Context) (from, to *time.Time, ok bool) {
	if raw := ctx.Query("date_from"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date_from format, expected YYYY-MM-DD"})
			return nil, nil, false
		}
		from = &parsed
	}
	if raw := ctx.Query("date_to"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date_to format, expected YYYY-MM-DD"})
			return nil, nil, false
		}
		endOfDay := parsed.Add(24*time.Hour - time.Nanosecond)
		to = &endOfDay
	}
	return from, to, true
}

// currentUser returns the authenticated user's ID and role from the context
func currentUser(ctx *gin.Context) (uint, string, bool) {
	rawID, exists := ctx.Get("userID")
	if !exists {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return 0, "", false
	}
	userID, ok := rawID.(uint)
	if !ok {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Unexpected user ID type"})
		return 0, "", false
	}

	role, _ := ctx.Get("userRole")
	userRole, _ := role.(string)
	return userID, userRole, true
}
