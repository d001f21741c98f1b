package controller

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/emptyfist/crypto-portfolio/internal/models"
)

const csvDateTimeLayout = "2006-01-02 15:04:05"

// transactionColumns is the exact header a transaction CSV must carry.
var transactionColumns = []string{"Symbol", "Type", "Amount", "Price", "Date Time", "Network", "TransactionId"}

type RowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// validateTransactionRecord coerces one CSV record into a transaction
// candidate. Every field is checked independently so the caller gets the
// full list of problems for the row, not just the first.
func validateTransactionRecord(rowNum int, record map[string]string) (models.Transaction, []RowError) {
	var rowErrors []RowError
	fail := func(field, message string) {
		rowErrors = append(rowErrors, RowError{Row: rowNum, Field: field, Message: message})
	}

	tx := models.Transaction{}

	symbol := strings.TrimSpace(record["Symbol"])
	if len(symbol) != 3 {
		fail("Symbol", "symbol must be exactly 3 characters")
	} else {
		tx.Symbol = strings.ToUpper(symbol)
	}

	switch strings.TrimSpace(record["Type"]) {
	case "Buy":
		tx.Type = "buy"
	case "Sell":
		tx.Type = "sell"
	default:
		fail("Type", "type must be Buy or Sell")
	}

	amountStr := strings.TrimSpace(record["Amount"])
	if amount, err := strconv.ParseFloat(amountStr, 64); err != nil || amount <= 0 {
		fail("Amount", "amount must be a positive number")
	} else {
		tx.Amount = amount
	}

	priceStr := strings.TrimSpace(record["Price"])
	if price, err := strconv.ParseFloat(priceStr, 64); err != nil || price <= 0 {
		fail("Price", "price must be a positive number")
	} else {
		tx.Price = price
	}

	dateStr := strings.TrimSpace(record["Date Time"])
	if dateTime, err := time.Parse(csvDateTimeLayout, dateStr); err != nil {
		fail("Date Time", "date time must match yyyy-MM-dd HH:mm:ss")
	} else {
		tx.DateTime = dateTime
	}

	network := strings.TrimSpace(record["Network"])
	if network == "" {
		fail("Network", "network is required")
	} else {
		tx.Network = network
	}

	txID := strings.TrimSpace(record["TransactionId"])
	if len(txID) != 66 || !strings.HasPrefix(txID, "0x") {
		fail("TransactionId", "transaction id must be 66 characters starting with 0x")
	} else {
		tx.TransactionID = txID
	}

	return tx, rowErrors
}

// parseTransactionsFromCSV splits an uploaded file into valid transaction
// candidates and per-row errors. Rows validate independently; one bad row
// never blocks the rest of the batch.
func parseTransactionsFromCSV(data []byte) ([]models.Transaction, []RowError) {
	r := csv.NewReader(bytes.NewReader(data))
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, []RowError{{Row: 0, Message: "invalid CSV format: " + err.Error()}}
	}
	if len(records) < 2 {
		return nil, []RowError{{Row: 0, Message: "CSV file must have a header and at least one data row"}}
	}

	header := records[0]
	colIndex := make(map[string]int, len(header))
	for i, col := range header {
		colIndex[strings.TrimSpace(col)] = i
	}
	for _, col := range transactionColumns {
		if _, ok := colIndex[col]; !ok {
			return nil, []RowError{{Row: 1, Field: col, Message: fmt.Sprintf("missing required column %q", col)}}
		}
	}

	var valid []models.Transaction
	var rowErrors []RowError

	for i, row := range records[1:] {
		rowNum := i + 2

		record := make(map[string]string, len(transactionColumns))
		for _, col := range transactionColumns {
			if idx := colIndex[col]; idx < len(row) {
				record[col] = row[idx]
			}
		}

		tx, errs := validateTransactionRecord(rowNum, record)
		if len(errs) > 0 {
			rowErrors = append(rowErrors, errs...)
			continue
		}
		valid = append(valid, tx)
	}

	return valid, rowErrors
}

func transactionsToCSV(txs []models.Transaction) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	w.Write(transactionColumns)
	for _, tx := range txs {
		sideLabel := "Buy"
		if strings.EqualFold(tx.Type, "sell") {
			sideLabel = "Sell"
		}
		w.Write([]string{
			tx.Symbol,
			sideLabel,
			strconv.FormatFloat(tx.Amount, 'f', -1, 64),
			strconv.FormatFloat(tx.Price, 'f', -1, 64),
			tx.DateTime.Format(csvDateTimeLayout),
			tx.Network,
			tx.TransactionID,
		})
	}
	w.Flush()

	return buf.Bytes()
}

func transactionTemplateCSV() []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	w.Write(transactionColumns)
	w.Write([]string{
		"BTC",
		"Buy",
		"0.5",
		"43250.00",
		"2024-01-15 14:30:00",
		"Bitcoin",
		"0x" + strings.Repeat("1234abcd", 8),
	})
	w.Flush()

	return buf.Bytes()
}
