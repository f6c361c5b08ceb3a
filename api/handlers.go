/*
handlers.go - HTTP API handlers for the inventory ledger

PURPOSE:
  Exposes the inventory service via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to the service.

ENDPOINTS:
  Products:
    GET    /api/products                    List the catalog in display order
    POST   /api/products                    Add a product (optional initial stock)
    PUT    /api/products/{id}               Edit a product
    DELETE /api/products/{id}               Delete a product (history kept)
    POST   /api/products/batch-delete       Delete several products
    POST   /api/products/batch-category     Set the category of several products
    POST   /api/products/{id}/move          Reorder the catalog
    PUT    /api/products/{id}/stock         Override the calculated stock of a day

  Days ({date} is YYYY-MM-DD or "today"):
    GET    /api/days/{date}/table?q=        Table rows, optionally filtered
    PATCH  /api/days/{date}/products/{id}   Set one log field
    GET    /api/days/{date}/operations      Audit records written that day
    GET    /api/days/{date}/summary         Sales summary and 7-day trend
    GET    /api/days/{date}/export.xlsx     Spreadsheet of the table

  Backup:
    GET    /api/backup                      Download the whole ledger
    POST   /api/backup                      Replace the ledger with a backup

ARCHITECTURE:
  Handler holds the service and a logger. All state lives in the service;
  handlers only parse, delegate and serialize.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input, rejected imports
  - 404: Product not found
  - 500: Internal errors

SECURITY NOTE:
  No authentication. The service is meant to run on the shop's own machine.

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
	"github.com/warp/inventory-ledger/inventory"
	"github.com/warp/inventory-ledger/ledger"
	"github.com/warp/inventory-ledger/report"
)

// maxBackupSize caps the body of a backup import.
const maxBackupSize = 32 << 20

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Service *inventory.Service
	Log     logrus.FieldLogger

	scenarioState
}

// NewHandler creates a new handler over svc.
func NewHandler(svc *inventory.Service, log logrus.FieldLogger) *Handler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Handler{Service: svc, Log: log}
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// PRODUCT HANDLERS
// =============================================================================

// ListProducts returns the catalog in display order.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Service.Products())
}

// CreateProduct adds a product. A positive initialStock opens it on date
// (default today).
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if !decodeBody(w, r, &req) {
		return
	}
	date, err := h.dateOrToday(req.Date)
	if err != nil {
		writeServiceError(w, "Invalid date", err)
		return
	}

	p, err := h.Service.AddProduct(req.product(), req.InitialStock.Float(), date)
	if err != nil {
		writeServiceError(w, "Failed to create product", err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// UpdateProduct edits the product named in the URL.
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if !decodeBody(w, r, &req) {
		return
	}
	p := req.product()
	p.ID = productID(r)

	updated, err := h.Service.EditProduct(p)
	if err != nil {
		writeServiceError(w, "Failed to update product", err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteProduct removes one product from the catalog.
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if h.Service.DeleteProducts(productID(r)) == 0 {
		writeError(w, http.StatusNotFound, "Product not found", nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// BatchDeleteProducts removes every listed product that exists.
func (h *Handler) BatchDeleteProducts(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if !decodeBody(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, CountDTO{Count: h.Service.DeleteProducts(req.IDs...)})
}

// BatchSetCategory assigns req.Category to every listed product.
func (h *Handler) BatchSetCategory(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if !decodeBody(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, CountDTO{Count: h.Service.SetCategory(req.IDs, req.Category)})
}

// MoveProduct moves a product to a new position in the catalog.
func (h *Handler) MoveProduct(w http.ResponseWriter, r *http.Request) {
	var req MoveRequest
	if !decodeBody(w, r, &req) {
		return
	}
	p, err := h.Service.MoveProduct(productID(r), req.Index)
	if err != nil {
		writeServiceError(w, "Failed to move product", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// OverrideStock sets the day's calculated stock of a product by adjusting
// its opening stock. The date comes from the body, then ?date=, then today.
func (h *Handler) OverrideStock(w http.ResponseWriter, r *http.Request) {
	var req StockOverrideRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Date == "" {
		req.Date = r.URL.Query().Get("date")
	}
	date, err := h.dateOrToday(req.Date)
	if err != nil {
		writeServiceError(w, "Invalid date", err)
		return
	}

	row, err := h.Service.OverrideStock(productID(r), date, req.Stock.Float())
	if err != nil {
		writeServiceError(w, "Failed to override stock", err)
		return
	}
	writeJSON(w, http.StatusOK, row)
}

// =============================================================================
// DAY HANDLERS
// =============================================================================

// GetTable returns the day's table, filtered by ?q= on name or category.
func (h *Handler) GetTable(w http.ResponseWriter, r *http.Request) {
	date, ok := h.pathDate(w, r)
	if !ok {
		return
	}
	q := r.URL.Query().Get("q")
	writeJSON(w, http.StatusOK, TableResponse{Date: date, Query: q, Rows: h.Service.Table(date, q)})
}

// UpdateField sets one field of the (date, product) log entry.
func (h *Handler) UpdateField(w http.ResponseWriter, r *http.Request) {
	date, ok := h.pathDate(w, r)
	if !ok {
		return
	}
	var req FieldUpdateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	u, err := ledger.ParseUpdate(req.Field, req.Value)
	if err != nil {
		writeServiceError(w, "Invalid field update", err)
		return
	}

	res := h.Service.UpdateField(date, productID(r), u)
	dto := FieldUpdateDTO{Entry: res.Entry, Stock: res.Stock}
	if res.Operation != nil {
		op := toOperationDTO(*res.Operation)
		dto.Operation = &op
	}
	writeJSON(w, http.StatusOK, dto)
}

// ListOperations returns the audit records written on the day, newest first.
func (h *Handler) ListOperations(w http.ResponseWriter, r *http.Request) {
	date, ok := h.pathDate(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toOperationDTOs(h.Service.Operations(date)))
}

// GetSummary returns the day's sales summary.
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	date, ok := h.pathDate(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.Service.Summary(date))
}

// ExportXLSX downloads the day's (filtered) table as a spreadsheet.
func (h *Handler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	date, ok := h.pathDate(w, r)
	if !ok {
		return
	}
	raw, err := h.Service.ExportXLSX(date, r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to export spreadsheet", err)
		return
	}
	writeAttachment(w, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		report.ExportFileName(date), raw)
}

// =============================================================================
// BACKUP HANDLERS
// =============================================================================

// ExportBackup downloads the whole ledger as JSON.
func (h *Handler) ExportBackup(w http.ResponseWriter, r *http.Request) {
	raw, err := h.Service.ExportBackup()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to export backup", err)
		return
	}
	writeAttachment(w, "application/json", BackupFileName(h.Service.Today()), raw)
}

// ImportBackup replaces the ledger with the uploaded document. A document
// without products and logs is rejected and the ledger is left untouched.
func (h *Handler) ImportBackup(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBackupSize))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read backup", err)
		return
	}
	if err := h.Service.ImportBackup(raw); err != nil {
		writeServiceError(w, "Failed to import backup", err)
		return
	}
	h.setCurrentScenario("")
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "imported",
		"products": len(h.Service.Products()),
	})
}

// BackupFileName is the download name of a backup taken on date.
func BackupFileName(date ledger.Date) string {
	return fmt.Sprintf("inventory-backup-%s.json", date)
}

// =============================================================================
// HELPERS
// =============================================================================

func productID(r *http.Request) ledger.ProductID {
	return ledger.ProductID(chi.URLParam(r, "id"))
}

// pathDate parses the {date} URL parameter, writing a 400 on failure.
func (h *Handler) pathDate(w http.ResponseWriter, r *http.Request) (ledger.Date, bool) {
	date, err := h.dateOrToday(chi.URLParam(r, "date"))
	if err != nil {
		writeServiceError(w, "Invalid date", err)
		return "", false
	}
	return date, true
}

// dateOrToday parses s, treating "" and "today" as the service's current day.
func (h *Handler) dateOrToday(s string) (ledger.Date, error) {
	if s == "" || s == "today" {
		return h.Service.Today(), nil
	}
	return ledger.ParseDate(s)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeAttachment(w http.ResponseWriter, contentType, filename string, raw []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.WriteHeader(http.StatusOK)
	w.Write(raw)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeServiceError maps ledger errors onto HTTP status codes.
func writeServiceError(w http.ResponseWriter, message string, err error) {
	switch {
	case ledger.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case ledger.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}
