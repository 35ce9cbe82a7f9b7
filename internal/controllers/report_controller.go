package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pizzadelicia/pizzeria-api/internal/reports"
	"github.com/pizzadelicia/pizzeria-api/internal/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportController streams spreadsheet exports for the back office
type ReportController struct {
	service services.ReportService
}

// NewReportController creates a new instance of ReportController
func NewReportController(service services.ReportService) *ReportController {
	return &ReportController{service: service}
}

// SalesReport streams the one-row-per-order workbook, optionally limited to a
// date_from / date_to window
func (c *ReportController) SalesReport(ctx *gin.Context) {
	from, to, ok := parseDateRange(ctx)
	if !ok {
		return
	}

	rows, err := c.service.SalesReport(from, to)
	if err != nil {
		respondError(ctx, err)
		return
	}

	workbook, err := reports.SalesWorkbook(rows)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build report"})
		return
	}

	filename := fmt.Sprintf("ventas-%s.xlsx", time.Now().Format("2006-01-02"))
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	ctx.Data(http.StatusOK, xlsxContentType, workbook)
}

// ProductsReport streams the per-product aggregate workbook
func (c *ReportController) ProductsReport(ctx *gin.Context) {
	from, to, ok := parseDateRange(ctx)
	if !ok {
		return
	}

	rows, err := c.service.ProductsReport(from, to)
	if err != nil {
		respondError(ctx, err)
		return
	}

	workbook, err := reports.ProductsWorkbook(rows)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build report"})
		return
	}

	filename := fmt.Sprintf("productos-%s.xlsx", time.Now().Format("2006-01-02"))
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	ctx.Data(http.StatusOK, xlsxContentType, workbook)
}
