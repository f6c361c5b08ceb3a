/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built ledgers for demos and manual testing. Loading a
	scenario replaces the whole ledger, exactly like importing a backup.

AVAILABLE SCENARIOS:

	daily-chain:     One product over three days: purchases, sales, a
	                 physical count and the count carried into the next day
	default-catalog: The shop's standard product list with no history
	empty:           No products, no history

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "daily-chain"}

ADDING NEW SCENARIOS:
 1. Add to 'scenarios' slice with ID, name, description
 2. Create builder function: buildXxxScenario() ledger.AppData
 3. Add case to scenarioData

NOTE:

	Scenarios overwrite the ledger. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: ImportBackup, the other way to replace the ledger
  - factory/catalog.go: The default product list
*/
package api

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/warp/inventory-ledger/factory"
	"github.com/warp/inventory-ledger/ledger"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "daily-chain",
		Name:        "Daily Chain",
		Description: "One beer over three days: stock carried forward, then overridden by a physical count",
	},
	{
		ID:          "default-catalog",
		Name:        "Default Catalog",
		Description: "The standard shop catalog with no movements",
	},
	{
		ID:          "empty",
		Name:        "Empty Ledger",
		Description: "No products and no history",
	},
}

// scenarioState tracks the last loaded scenario.
type scenarioState struct {
	mu      sync.Mutex
	current string
}

func (s *scenarioState) setCurrentScenario(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = id
}

func (s *scenarioState) currentScenario() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	current := h.currentScenario()
	if current == "" {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	for _, s := range scenarios {
		if s.ID == current {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, ScenarioDTO{ID: current, Name: current})
}

// LoadScenario replaces the ledger with a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if !decodeBody(w, r, &req) {
		return
	}

	data, err := scenarioData(req.ScenarioID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Unknown scenario", err)
		return
	}

	h.Service.Replace(data)
	h.setCurrentScenario(req.ScenarioID)
	h.Log.WithField("scenario", req.ScenarioID).Info("scenario loaded")

	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario": req.ScenarioID})
}

func scenarioData(id string) (ledger.AppData, error) {
	switch id {
	case "daily-chain":
		return buildDailyChainScenario(), nil
	case "default-catalog":
		return factory.NewDocumentFactory().Default(), nil
	case "empty":
		return ledger.AppData{}.Normalized(), nil
	default:
		return ledger.AppData{}, fmt.Errorf("no scenario %q", id)
	}
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

// DailyChainProductID is the product of the daily-chain scenario.
const DailyChainProductID ledger.ProductID = "p1"

// buildDailyChainScenario records:
//
//	2024-01-01: purchase 10, sell 3       -> stock 7
//	2024-01-02: opens at 7, purchase 5, sell 2 -> stock 10, counted 9
//	2024-01-03: opens at 9 (the count, not the calculated 10)
func buildDailyChainScenario() ledger.AppData {
	en := ledger.NewEngine()
	data := ledger.AppData{Products: []ledger.Product{
		{ID: DailyChainProductID, Name: "雪花纯生", Unit: "瓶", Price: 18, Category: "啤酒"},
	}}.Normalized()

	day1 := ledger.MustParseDate("2024-01-01")
	day2 := day1.Next()

	steps := []struct {
		date ledger.Date
		u    ledger.Update
	}{
		{day1, ledger.SetPurchaseIn(10)},
		{day1, ledger.SetSalesOut(3)},
		{day2, ledger.SetPurchaseIn(5)},
		{day2, ledger.SetSalesOut(2)},
		{day2, ledger.SetManualCheck{Value: ledger.Q(9)}},
	}
	for _, s := range steps {
		data, _ = en.ApplyFieldUpdate(data, s.date, DailyChainProductID, s.u)
	}
	return data
}
