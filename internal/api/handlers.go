package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/pitgo/regime-calculator/internal/calculation"
	"github.com/pitgo/regime-calculator/internal/config"
	"github.com/pitgo/regime-calculator/internal/domain"
	"github.com/pitgo/regime-calculator/internal/store"
)

func init() {
	// The wire envelope carries bare JSON numbers, not quoted decimals.
	decimal.MarshalJSONWithoutQuotes = true
}

// Handler exposes the engine and store over HTTP.
type Handler struct {
	store  *store.Store
	engine *calculation.Engine
	log    *logrus.Logger
}

// NewHandler creates a Handler around a store and a calculation engine.
func NewHandler(st *store.Store, engine *calculation.Engine, log *logrus.Logger) *Handler {
	return &Handler{store: st, engine: engine, log: log}
}

// createSimulationRequest is the POST /api/simulation body.
type createSimulationRequest struct {
	Name                   string                   `json:"name"`
	ContributionClass      domain.ContributionClass `json:"contributionClass"`
	CustomContributionBase *decimal.Decimal         `json:"customContributionBase,omitempty"`
	SicknessOptIn          bool                     `json:"sicknessOptIn"`
	VATPayer               bool                     `json:"vatPayer"`
	VATRecoverableFraction decimal.Decimal          `json:"vatRecoverableFraction"`
	LumpSumFlatRate        decimal.Decimal          `json:"lumpSumFlatRate"`
}

func (h *Handler) handleCreateSimulation(w http.ResponseWriter, r *http.Request) {
	var req createSimulationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ContributionClass == "" {
		req.ContributionClass = domain.ClassStandard
	}
	if !req.ContributionClass.Valid() {
		respondWithError(w, http.StatusBadRequest, "unknown contribution class")
		return
	}
	if req.VATPayer && req.VATRecoverableFraction.IsZero() {
		req.VATRecoverableFraction = decimal.NewFromInt(1)
	}

	sim := h.store.CreateSimulation(store.Simulation{
		Name:                   req.Name,
		ContributionClass:      req.ContributionClass,
		CustomContributionBase: req.CustomContributionBase,
		SicknessOptIn:          req.SicknessOptIn,
		VATPayer:               req.VATPayer,
		VATRecoverableFraction: req.VATRecoverableFraction,
		LumpSumFlatRate:        req.LumpSumFlatRate,
	})
	respondWithJSON(w, http.StatusCreated, sim)
}

func (h *Handler) handleGetSimulation(w http.ResponseWriter, r *http.Request) {
	sim, err := h.store.GetSimulation(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusNotFound, err.Error())
		return
	}
	respondWithJSON(w, http.StatusOK, sim)
}

func (h *Handler) handleListSimulations(w http.ResponseWriter, _ *http.Request) {
	respondWithJSON(w, http.StatusOK, h.store.ListSimulations())
}

func (h *Handler) handleAddInvestment(w http.ResponseWriter, r *http.Request) {
	simID := chi.URLParam(r, "id")

	var inv domain.Investment
	if err := json.NewDecoder(r.Body).Decode(&inv); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := config.ValidateInvestment(&inv); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	rec := store.InvestmentRecord{
		Type:          inv.Type,
		Name:          inv.Name,
		Cost:          inv.Cost,
		PurchaseMonth: inv.PurchaseMonth,
	}
	var vehicle *store.VehicleRecord
	if inv.IsVehicle() {
		vehicle = &store.VehicleRecord{
			EngineClass:         inv.EngineClass,
			Financing:           inv.Financing,
			Usage:               inv.Usage,
			DownPaymentFraction: inv.DownPaymentFraction,
			LeaseTermMonths:     inv.LeaseTermMonths,
			BuyoutFraction:      inv.BuyoutFraction,
		}
	}

	created, err := h.store.AddInvestment(simID, rec, vehicle)
	if err != nil {
		respondWithError(w, http.StatusNotFound, err.Error())
		return
	}
	respondWithJSON(w, http.StatusCreated, created)
}

func (h *Handler) handleListInvestments(w http.ResponseWriter, r *http.Request) {
	records, err := h.store.ListInvestments(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusNotFound, err.Error())
		return
	}
	respondWithJSON(w, http.StatusOK, records)
}

// calculateRequest is the POST /api/simulation/{id}/calculate body.
type calculateRequest struct {
	YearlyRevenueNetto decimal.Decimal `json:"yearlyRevenueNetto"`
	YearlyFixedCosts   decimal.Decimal `json:"yearlyFixedCosts"`
	SelectedTaxYear    *int            `json:"selectedTaxYear,omitempty"`
}

func (h *Handler) handleCalculate(w http.ResponseWriter, r *http.Request) {
	simID := chi.URLParam(r, "id")

	var req calculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sim, err := h.store.GetSimulation(simID)
	if err != nil {
		respondWithError(w, http.StatusNotFound, err.Error())
		return
	}

	year := config.DefaultRateYear
	if req.SelectedTaxYear != nil {
		year = *req.SelectedTaxYear
	}
	rates, err := h.store.RatesForYear(year)
	if err != nil {
		respondWithError(w, http.StatusNotFound, "configuration not found")
		return
	}

	investments, err := h.store.DomainInvestments(simID)
	if err != nil {
		respondWithError(w, http.StatusNotFound, err.Error())
		return
	}

	scenario := domain.Scenario{
		YearlyRevenueNet:       req.YearlyRevenueNetto,
		YearlyFixedCosts:       req.YearlyFixedCosts,
		VATPayer:               sim.VATPayer,
		VATRecoverableFraction: sim.VATRecoverableFraction,
		ContributionClass:      sim.ContributionClass,
		CustomContributionBase: sim.CustomContributionBase,
		SicknessOptIn:          sim.SicknessOptIn,
		LumpSumFlatRate:        sim.LumpSumFlatRate,
		Investments:            investments,
		Rates:                  rates,
	}
	if err := config.ValidateScenario(&scenario); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.engine.CompareAll(&scenario)
	if err != nil {
		if errors.Is(err, calculation.ErrMissingLeaseParameters) {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.log.WithError(err).WithField("simulation", simID).Error("comparison failed")
		respondWithError(w, http.StatusInternalServerError, "calculation failed")
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

func (h *Handler) handleListRates(w http.ResponseWriter, _ *http.Request) {
	respondWithJSON(w, http.StatusOK, h.store.ListRates())
}

func (h *Handler) handleGetRates(w http.ResponseWriter, r *http.Request) {
	year, err := yearParam(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid year")
		return
	}
	rc, err := h.store.RatesForYear(year)
	if err != nil {
		respondWithError(w, http.StatusNotFound, "configuration not found")
		return
	}
	respondWithJSON(w, http.StatusOK, rc)
}

func respondWithJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, status int, message string) {
	respondWithJSON(w, status, map[string]string{"error": message})
}
