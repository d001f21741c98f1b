package controller

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/emptyfist/crypto-portfolio/internal/middleware"
	"github.com/emptyfist/crypto-portfolio/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

var holdingsExportColumns = []string{
	"Symbol", "Total Amount", "Average Price",
	"Current Value (USD)", "Cost Basis (USD)", "P&L (USD)", "P&L (%)",
}

func (c *Controller) computeHoldings(userID string) (*service.HoldingsSummary, error) {
	txs, err := c.repo.TransactionsForUser(userID)
	if err != nil {
		return nil, err
	}
	prices, err := c.repo.PricesBySymbol()
	if err != nil {
		return nil, err
	}
	return service.ComputeHoldings(txs, prices), nil
}

// Holdings returns the caller's current portfolio
// @Summary Portfolio holdings
// @Description Per-symbol positions with cost basis, value and P&L, plus portfolio totals
// @Tags holdings
// @Produce json
// @Success 200 {object} service.HoldingsSummary
// @Failure 401 {object} APIError
// @Router /api/holdings [get]
func (c *Controller) Holdings(ctx *gin.Context) {
	summary, err := c.computeHoldings(middleware.UserID(ctx))
	if err != nil {
		c.logger.Error("failed to compute holdings", "error", err)
		internalError(ctx, "failed to compute holdings")
		return
	}
	ctx.JSON(http.StatusOK, summary)
}

// ExportHoldings downloads the portfolio as CSV or XLSX
// @Summary Export portfolio
// @Description Export current holdings with a leading summary row, as CSV or XLSX
// @Tags holdings
// @Produce octet-stream
// @Param format query string false "Export format (csv or xlsx, default csv)"
// @Success 200 {file} file
// @Failure 400 {object} APIError
// @Failure 401 {object} APIError
// @Router /api/holdings/export [get]
func (c *Controller) ExportHoldings(ctx *gin.Context) {
	format := strings.ToLower(ctx.DefaultQuery("format", "csv"))
	if format != "csv" && format != "xlsx" {
		badRequest(ctx, "format must be csv or xlsx")
		return
	}

	summary, err := c.computeHoldings(middleware.UserID(ctx))
	if err != nil {
		c.logger.Error("failed to compute holdings", "error", err)
		internalError(ctx, "failed to compute holdings")
		return
	}

	filename := fmt.Sprintf("portfolio_holdings_%s.%s", time.Now().Format("2006-01-02"), format)
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))

	if format == "xlsx" {
		c.writeHoldingsXLSX(ctx, summary)
		return
	}
	ctx.Data(http.StatusOK, "text/csv", holdingsToCSV(summary))
}

// holdingsRows renders the export layout: a PORTFOLIO SUMMARY row with the
// totals, a blank separator, then one row per holding.
func holdingsRows(summary *service.HoldingsSummary) [][]string {
	rows := [][]string{
		holdingsExportColumns,
		{
			"PORTFOLIO SUMMARY", "", "",
			money(summary.TotalValue),
			money(summary.TotalCost),
			money(summary.TotalProfitLoss),
			percent(summary.TotalProfitLossPercent),
		},
		{"", "", "", "", "", "", ""},
	}
	for _, h := range summary.Holdings {
		rows = append(rows, []string{
			h.Symbol,
			strconv.FormatFloat(h.Amount, 'f', -1, 64),
			money(h.AveragePrice),
			money(h.Value),
			money(h.CostBasis),
			money(h.ProfitLoss),
			percent(h.ProfitLossPercent),
		})
	}
	return rows
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func percent(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func holdingsToCSV(summary *service.HoldingsSummary) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.WriteAll(holdingsRows(summary))
	return buf.Bytes()
}

func (c *Controller) writeHoldingsXLSX(ctx *gin.Context, summary *service.HoldingsSummary) {
	f := excelize.NewFile()
	defer f.Close()

	const sheetName = "Holdings"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		internalError(ctx, "failed to create worksheet")
		return
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for rowIdx, row := range holdingsRows(summary) {
		for colIdx, value := range row {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
			if err != nil {
				internalError(ctx, "failed to build worksheet")
				return
			}
			f.SetCellValue(sheetName, cell, value)
		}
	}

	ctx.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := f.Write(ctx.Writer); err != nil {
		c.logger.Error("failed to write xlsx export", "error", err)
	}
}
