package controller

import (
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/emptyfist/crypto-portfolio/internal/middleware"
	"github.com/emptyfist/crypto-portfolio/internal/models"
	"github.com/emptyfist/crypto-portfolio/internal/repo"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

type TransactionInput struct {
	Symbol        string  `json:"symbol" binding:"required"`
	Type          string  `json:"type" binding:"required"`
	Amount        float64 `json:"amount" binding:"required"`
	Price         float64 `json:"price" binding:"required"`
	DateTime      string  `json:"dateTime" binding:"required"`
	Network       string  `json:"network" binding:"required"`
	TransactionID string  `json:"transactionId" binding:"required"`
}

type UploadRequest struct {
	Transactions []TransactionInput `json:"transactions" binding:"required"`
	FileName     string             `json:"fileName"`
}

type UploadResponse struct {
	Imported int        `json:"imported"`
	Failed   int        `json:"failed"`
	Total    int        `json:"total"`
	Status   string     `json:"status"`
	Errors   []RowError `json:"errors,omitempty"`
}

func (in TransactionInput) toRecord() map[string]string {
	side := in.Type
	switch strings.ToLower(side) {
	case "buy":
		side = "Buy"
	case "sell":
		side = "Sell"
	}
	return map[string]string{
		"Symbol":        in.Symbol,
		"Type":          side,
		"Amount":        strconv.FormatFloat(in.Amount, 'f', -1, 64),
		"Price":         strconv.FormatFloat(in.Price, 'f', -1, 64),
		"Date Time":     in.DateTime,
		"Network":       in.Network,
		"TransactionId": in.TransactionID,
	}
}

func auditMeta(ctx *gin.Context) repo.AuditMeta {
	return repo.AuditMeta{
		IPAddress: ctx.ClientIP(),
		UserAgent: ctx.Request.UserAgent(),
	}
}

func importStatus(imported, failed int) string {
	switch {
	case imported == 0 && failed > 0:
		return "failed"
	case failed > 0:
		return "partial"
	default:
		return "completed"
	}
}

// UploadTransactions stores a pre-validated batch
// @Summary Upload transactions
// @Description Upsert a batch of transactions keyed on (user, transaction id)
// @Tags transactions
// @Accept json
// @Produce json
// @Param request body UploadRequest true "Transaction batch"
// @Success 200 {object} UploadResponse
// @Failure 400 {object} APIError
// @Failure 401 {object} APIError
// @Router /api/transactions/upload [post]
func (c *Controller) UploadTransactions(ctx *gin.Context) {
	var req UploadRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequestWithDetails(ctx, "invalid input", err.Error())
		return
	}
	if len(req.Transactions) == 0 {
		badRequest(ctx, "transactions cannot be empty")
		return
	}

	var valid []models.Transaction
	var rowErrors []RowError
	for i, input := range req.Transactions {
		tx, errs := validateTransactionRecord(i+1, input.toRecord())
		if len(errs) > 0 {
			rowErrors = append(rowErrors, errs...)
			continue
		}
		valid = append(valid, tx)
	}

	c.persistBatch(ctx, valid, rowErrors, req.FileName)
}

// ImportTransactions imports a CSV file
// @Summary Import transactions from CSV
// @Description Parse and validate an uploaded CSV; valid rows are upserted, invalid rows reported per field
// @Tags transactions
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV file"
// @Param fileName formData string false "Logical file name stored with the batch"
// @Success 200 {object} UploadResponse
// @Failure 400 {object} APIError
// @Failure 401 {object} APIError
// @Router /api/transactions/import [post]
func (c *Controller) ImportTransactions(ctx *gin.Context) {
	file, header, err := ctx.Request.FormFile("file")
	if err != nil {
		badRequest(ctx, "file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		badRequest(ctx, "failed to read file")
		return
	}

	fileName := ctx.PostForm("fileName")
	if fileName == "" {
		fileName = header.Filename
	}
	if !strings.HasSuffix(strings.ToLower(fileName), ".csv") {
		badRequest(ctx, "file name must end with .csv")
		return
	}

	valid, rowErrors := parseTransactionsFromCSV(data)
	c.persistBatch(ctx, valid, rowErrors, fileName)
}

func (c *Controller) persistBatch(ctx *gin.Context, valid []models.Transaction, rowErrors []RowError, fileName string) {
	userID := middleware.UserID(ctx)

	imported := 0
	if len(valid) > 0 {
		count, err := c.repo.UpsertTransactions(userID, valid, fileName, time.Now().UTC(), auditMeta(ctx))
		if err != nil {
			if errors.Is(err, repo.ErrDuplicateTransaction) {
				conflict(ctx, "duplicate transaction id in batch")
				return
			}
			c.logger.Error("failed to store transactions", "user", userID, "error", err)
			internalError(ctx, "failed to store transactions")
			return
		}
		imported = count
	}

	failed := len(rowErrors)
	ctx.JSON(http.StatusOK, UploadResponse{
		Imported: imported,
		Failed:   failed,
		Total:    imported + failed,
		Status:   importStatus(imported, failed),
		Errors:   rowErrors,
	})
}

// TransactionHistory lists the caller's transactions
// @Summary Transaction history
// @Description Filtered, paginated list of the caller's transactions, newest first
// @Tags transactions
// @Produce json
// @Param symbol query string false "Filter by symbol (case-insensitive)"
// @Param type query string false "Filter by side (buy or sell)"
// @Param startDate query string false "Inclusive start date (yyyy-MM-dd)"
// @Param endDate query string false "Inclusive end date (yyyy-MM-dd)"
// @Param fileName query string false "Filter by originating file name (substring)"
// @Param page query int false "Page number (1-based)"
// @Param limit query int false "Page size"
// @Success 200 {object} repo.TransactionListResult
// @Failure 401 {object} APIError
// @Router /api/transactions/history [get]
func (c *Controller) TransactionHistory(ctx *gin.Context) {
	filter, err := transactionFilterFromQuery(ctx)
	if err != nil {
		badRequest(ctx, err.Error())
		return
	}

	result, err := c.repo.ListTransactions(middleware.UserID(ctx), filter)
	if err != nil {
		c.logger.Error("failed to list transactions", "error", err)
		internalError(ctx, "failed to fetch transactions")
		return
	}
	ctx.JSON(http.StatusOK, result)
}

func transactionFilterFromQuery(ctx *gin.Context) (repo.TransactionFilter, error) {
	filter := repo.TransactionFilter{
		Symbol:   ctx.Query("symbol"),
		Type:     strings.ToLower(ctx.Query("type")),
		FileName: ctx.Query("fileName"),
	}

	if pageStr := ctx.Query("page"); pageStr != "" {
		if page, err := strconv.Atoi(pageStr); err == nil {
			filter.Page = page
		}
	}
	if limitStr := ctx.Query("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil {
			filter.Limit = limit
		}
	}
	if startStr := ctx.Query("startDate"); startStr != "" {
		start, err := time.Parse("2006-01-02", startStr)
		if err != nil {
			return filter, errors.New("startDate must be yyyy-MM-dd")
		}
		filter.StartDate = &start
	}
	if endStr := ctx.Query("endDate"); endStr != "" {
		end, err := time.Parse("2006-01-02", endStr)
		if err != nil {
			return filter, errors.New("endDate must be yyyy-MM-dd")
		}
		end = end.Add(24*time.Hour - time.Second)
		filter.EndDate = &end
	}

	return filter, nil
}

// UpdateTransaction edits fields of one transaction
// @Summary Update transaction
// @Description Partially update one of the caller's transactions
// @Tags transactions
// @Accept json
// @Produce json
// @Param id path string true "Transaction ID"
// @Param request body object true "Fields to update"
// @Success 200 {object} models.Transaction
// @Failure 400 {object} APIError
// @Failure 401 {object} APIError
// @Failure 404 {object} APIError
// @Router /api/transactions/{id} [put]
func (c *Controller) UpdateTransaction(ctx *gin.Context) {
	var body map[string]any
	if err := ctx.ShouldBindJSON(&body); err != nil {
		badRequestWithDetails(ctx, "invalid input", err.Error())
		return
	}

	fields, err := updateFieldsFromBody(body)
	if err != nil {
		badRequest(ctx, err.Error())
		return
	}
	if len(fields) == 0 {
		badRequest(ctx, "no updatable fields in request")
		return
	}

	updated, err := c.repo.UpdateTransaction(middleware.UserID(ctx), ctx.Param("id"), fields, auditMeta(ctx))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			notFound(ctx, "transaction not found")
			return
		}
		c.logger.Error("failed to update transaction", "error", err)
		internalError(ctx, "failed to update transaction")
		return
	}
	ctx.JSON(http.StatusOK, updated)
}

// updateFieldsFromBody maps the JSON edit payload onto store columns,
// validating each supplied field the same way the importer does.
func updateFieldsFromBody(body map[string]any) (map[string]any, error) {
	fields := make(map[string]any, len(body))

	if v, ok := body["symbol"]; ok {
		symbol, _ := v.(string)
		symbol = strings.TrimSpace(symbol)
		if len(symbol) != 3 {
			return nil, errors.New("symbol must be exactly 3 characters")
		}
		fields["symbol"] = strings.ToUpper(symbol)
	}
	if v, ok := body["type"]; ok {
		side, _ := v.(string)
		side = strings.ToLower(strings.TrimSpace(side))
		if side != "buy" && side != "sell" {
			return nil, errors.New("type must be buy or sell")
		}
		fields["type"] = side
	}
	if v, ok := body["amount"]; ok {
		amount, isNum := v.(float64)
		if !isNum || amount <= 0 {
			return nil, errors.New("amount must be a positive number")
		}
		fields["amount"] = amount
	}
	if v, ok := body["price"]; ok {
		price, isNum := v.(float64)
		if !isNum || price <= 0 {
			return nil, errors.New("price must be a positive number")
		}
		fields["price"] = price
	}
	if v, ok := body["dateTime"]; ok {
		raw, _ := v.(string)
		dateTime, err := time.Parse(csvDateTimeLayout, raw)
		if err != nil {
			return nil, errors.New("dateTime must match yyyy-MM-dd HH:mm:ss")
		}
		fields["date_time"] = dateTime
	}
	if v, ok := body["network"]; ok {
		network, _ := v.(string)
		network = strings.TrimSpace(network)
		if network == "" {
			return nil, errors.New("network is required")
		}
		fields["network"] = network
	}

	return fields, nil
}

// DeleteTransaction removes one transaction
// @Summary Delete transaction
// @Description Permanently delete one of the caller's transactions
// @Tags transactions
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} map[string]string
// @Failure 401 {object} APIError
// @Failure 404 {object} APIError
// @Router /api/transactions/{id} [delete]
func (c *Controller) DeleteTransaction(ctx *gin.Context) {
	err := c.repo.DeleteTransaction(middleware.UserID(ctx), ctx.Param("id"), auditMeta(ctx))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			notFound(ctx, "transaction not found")
			return
		}
		c.logger.Error("failed to delete transaction", "error", err)
		internalError(ctx, "failed to delete transaction")
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// ExportTransactions downloads the caller's history as CSV
// @Summary Export transactions
// @Description Export the caller's (optionally filtered) transactions as a CSV file
// @Tags transactions
// @Produce octet-stream
// @Param symbol query string false "Filter by symbol"
// @Param type query string false "Filter by side"
// @Success 200 {file} file
// @Failure 401 {object} APIError
// @Router /api/transactions/export [get]
func (c *Controller) ExportTransactions(ctx *gin.Context) {
	filter, err := transactionFilterFromQuery(ctx)
	if err != nil {
		badRequest(ctx, err.Error())
		return
	}
	// Export ignores pagination and emits everything matching.
	filter.Page = 1
	filter.Limit = math.MaxInt32

	result, err := c.repo.ListTransactions(middleware.UserID(ctx), filter)
	if err != nil {
		c.logger.Error("failed to export transactions", "error", err)
		internalError(ctx, "failed to fetch transactions")
		return
	}

	filename := fmt.Sprintf("transactions_%s.csv", time.Now().Format("2006-01-02"))
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	ctx.Data(http.StatusOK, "text/csv", transactionsToCSV(result.Transactions))
}

// TransactionTemplate downloads an import template
// @Summary Download CSV template
// @Description A one-row CSV showing the expected import format
// @Tags transactions
// @Produce octet-stream
// @Success 200 {file} file
// @Router /api/transactions/template [get]
func (c *Controller) TransactionTemplate(ctx *gin.Context) {
	ctx.Header("Content-Disposition", "attachment; filename=transaction_template.csv")
	ctx.Data(http.StatusOK, "text/csv", transactionTemplateCSV())
}
