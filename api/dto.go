/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. Ledger types that are
  already part of the persisted document (Product, DailyLogEntry,
  OperationLog, Row) are returned as-is so the API and the backup file speak
  the same field names. Everything else gets a DTO here.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

TYPES:
  Products:
    ProductRequest, BatchRequest, MoveRequest, StockOverrideRequest

  Days:
    FieldUpdateRequest, FieldUpdateDTO, TableResponse, OperationDTO

  Scenarios:
    ScenarioDTO, LoadScenarioRequest

VALIDATION:
  Validation is done in handlers and the ledger package, not in DTOs.
  Numeric fields use ledger.Quantity so "12", 12 and "" decode the same way
  the stored document does.

SEE ALSO:
  - handlers.go: Uses these types
  - ledger/types.go: Persisted document types
*/
package api

import (
	"encoding/json"

	"github.com/warp/inventory-ledger/ledger"
)

// =============================================================================
// PRODUCT REQUESTS
// =============================================================================

// ProductRequest is the body of product create and edit.
// InitialStock and Date are only read on create.
type ProductRequest struct {
	ID           ledger.ProductID `json:"id,omitempty"`
	Name         string           `json:"name"`
	Unit         string           `json:"unit"`
	Price        ledger.Quantity  `json:"price"`
	Category     string           `json:"category,omitempty"`
	InitialStock ledger.Quantity  `json:"initialStock,omitempty"`
	Date         string           `json:"date,omitempty"`
}

func (r ProductRequest) product() ledger.Product {
	return ledger.Product{
		ID:       r.ID,
		Name:     r.Name,
		Unit:     r.Unit,
		Price:    r.Price,
		Category: r.Category,
	}
}

// BatchRequest selects several products at once.
type BatchRequest struct {
	IDs      []ledger.ProductID `json:"ids"`
	Category string             `json:"category,omitempty"`
}

// MoveRequest moves a product to Index in the catalog order.
type MoveRequest struct {
	Index int `json:"index"`
}

// StockOverrideRequest sets the calculated stock of a product on Date.
type StockOverrideRequest struct {
	Date  string          `json:"date,omitempty"`
	Stock ledger.Quantity `json:"stock"`
}

// CountDTO reports how many products a batch operation touched.
type CountDTO struct {
	Count int `json:"count"`
}

// =============================================================================
// DAY REQUESTS/RESPONSES
// =============================================================================

// FieldUpdateRequest sets one field of a product's daily log entry.
type FieldUpdateRequest struct {
	Field string          `json:"field"`
	Value json.RawMessage `json:"value"`
}

// FieldUpdateDTO is the entry after a field update, with its derived stock
// and the audit record written for it (if any).
type FieldUpdateDTO struct {
	Entry     ledger.DailyLogEntry `json:"entry"`
	Stock     ledger.Stock         `json:"stock"`
	Operation *OperationDTO        `json:"operation,omitempty"`
}

// TableResponse is one day's table.
type TableResponse struct {
	Date  ledger.Date  `json:"date"`
	Query string       `json:"query,omitempty"`
	Rows  []ledger.Row `json:"rows"`
}

// OperationDTO is an audit record with its display label.
type OperationDTO struct {
	ledger.OperationLog
	Label string `json:"label"`
}

func toOperationDTO(op ledger.OperationLog) OperationDTO {
	return OperationDTO{OperationLog: op, Label: op.Type.Label()}
}

func toOperationDTOs(ops []ledger.OperationLog) []OperationDTO {
	dtos := make([]OperationDTO, len(ops))
	for i, op := range ops {
		dtos[i] = toOperationDTO(op)
	}
	return dtos
}

// =============================================================================
// SCENARIOS
// =============================================================================

// ScenarioDTO describes a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadScenarioRequest is the body of POST /api/scenarios/load.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
