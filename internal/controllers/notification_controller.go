package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pizzadelicia/pizzeria-api/internal/notify"
	"gorm.io/gorm"
)

// NotificationController exposes the notification outbox for inspection
type NotificationController struct {
	db *gorm.DB
}

// NewNotificationController creates a new instance of NotificationController
func NewNotificationController(db *gorm.DB) *NotificationController {
	return &NotificationController{db: db}
}

// ListOutbox returns outbox messages, optionally filtered by ?status=
func (c *NotificationController) ListOutbox(ctx *gin.Context) {
	messages, err := notify.ListMessages(c.db, ctx.Query("status"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, messages)
}
