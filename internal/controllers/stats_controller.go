package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pizzadelicia/pizzeria-api/internal/services"
)

// StatsController feeds the admin dashboard
type StatsController struct {
	service services.StatsService
}

// NewStatsController creates a new instance of StatsController
func NewStatsController(service services.StatsService) *StatsController {
	return &StatsController{service: service}
}

func (c *StatsController) RevenueByMonth(ctx *gin.Context) {
	points, err := c.service.RevenueByMonth()
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, points)
}

func (c *StatsController) OrdersByWeekday(ctx *gin.Context) {
	points, err := c.service.OrdersByWeekday()
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, points)
}

func (c *StatsController) SalesByCategory(ctx *gin.Context) {
	points, err := c.service.SalesByCategory()
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, points)
}

func (c *StatsController) Summary(ctx *gin.Context) {
	summary, err := c.service.GetSummary()
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, summary)
}

func (c *StatsController) RecentOrders(ctx *gin.Context) {
	orders, err := c.service.RecentOrders()
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, orders)
}
