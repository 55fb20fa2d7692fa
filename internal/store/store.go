package store

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/pitgo/regime-calculator/internal/domain"
)

// ErrNotFound is returned when a simulation, investment, or rate table does
// not exist.
var ErrNotFound = errors.New("not found")

// Simulation is a stored what-if case: the business profile that investments
// attach to. Revenue and costs arrive with each calculate request, not here.
type Simulation struct {
	ID                     string                   `json:"id"`
	Name                   string                   `json:"name"`
	ContributionClass      domain.ContributionClass `json:"contributionClass"`
	CustomContributionBase *decimal.Decimal         `json:"customContributionBase,omitempty"`
	SicknessOptIn          bool                     `json:"sicknessOptIn"`
	VATPayer               bool                     `json:"vatPayer"`
	VATRecoverableFraction decimal.Decimal          `json:"vatRecoverableFraction"`
	LumpSumFlatRate        decimal.Decimal          `json:"lumpSumFlatRate"`
	CreatedAt              time.Time                `json:"createdAt"`
}

// InvestmentRecord is the persisted investment row, discriminated by type.
type InvestmentRecord struct {
	ID            string                `json:"id"`
	SimulationID  string                `json:"simulationId"`
	Type          domain.InvestmentType `json:"type"`
	Name          string                `json:"name,omitempty"`
	Cost          decimal.Decimal       `json:"cost"`
	PurchaseMonth int                   `json:"purchaseMonth"`
	CreatedAt     time.Time             `json:"createdAt"`
}

// VehicleRecord is the satellite row holding vehicle-specific fields, keyed
// by the investment identifier.
type VehicleRecord struct {
	InvestmentID        string             `json:"investmentId"`
	EngineClass         domain.EngineClass `json:"engineClass"`
	Financing           domain.Financing   `json:"financing"`
	Usage               domain.Usage       `json:"usage"`
	DownPaymentFraction *decimal.Decimal   `json:"downPaymentFraction,omitempty"`
	LeaseTermMonths     *int               `json:"leaseTermMonths,omitempty"`
	BuyoutFraction      *decimal.Decimal   `json:"buyoutFraction,omitempty"`
}

// Store is an in-memory repository for simulations, their investments, and
// the per-year rate tables. Safe for concurrent use.
type Store struct {
	mu          sync.RWMutex
	simulations map[string]Simulation
	investments map[string][]InvestmentRecord // keyed by simulation ID
	vehicles    map[string]VehicleRecord      // keyed by investment ID
	rates       map[int]domain.RateConfig
}

// New creates a store seeded with the supplied rate tables.
func New(rateConfigs []domain.RateConfig) *Store {
	s := &Store{
		simulations: make(map[string]Simulation),
		investments: make(map[string][]InvestmentRecord),
		vehicles:    make(map[string]VehicleRecord),
		rates:       make(map[int]domain.RateConfig),
	}
	for _, rc := range rateConfigs {
		s.rates[rc.Year] = rc
	}
	return s
}

// CreateSimulation persists a simulation and assigns its identifier.
func (s *Store) CreateSimulation(sim Simulation) Simulation {
	s.mu.Lock()
	defer s.mu.Unlock()

	sim.ID = uuid.New().String()
	sim.CreatedAt = time.Now().UTC()
	s.simulations[sim.ID] = sim
	return sim
}

// GetSimulation fetches one simulation by ID.
func (s *Store) GetSimulation(id string) (Simulation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sim, ok := s.simulations[id]
	if !ok {
		return Simulation{}, fmt.Errorf("simulation %s: %w", id, ErrNotFound)
	}
	return sim, nil
}

// ListSimulations returns all simulations, oldest first.
func (s *Store) ListSimulations() []Simulation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sims := lo.Values(s.simulations)
	sort.Slice(sims, func(i, j int) bool { return sims[i].CreatedAt.Before(sims[j].CreatedAt) })
	return sims
}

// AddInvestment persists an investment record under a simulation, writing
// the satellite vehicle row when the record is a car.
func (s *Store) AddInvestment(simulationID string, rec InvestmentRecord, vehicle *VehicleRecord) (InvestmentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.simulations[simulationID]; !ok {
		return InvestmentRecord{}, fmt.Errorf("simulation %s: %w", simulationID, ErrNotFound)
	}

	rec.ID = uuid.New().String()
	rec.SimulationID = simulationID
	rec.CreatedAt = time.Now().UTC()
	s.investments[simulationID] = append(s.investments[simulationID], rec)

	if vehicle != nil {
		v := *vehicle
		v.InvestmentID = rec.ID
		s.vehicles[rec.ID] = v
	}
	return rec, nil
}

// ListInvestments returns a simulation's investment records in insertion
// order.
func (s *Store) ListInvestments(simulationID string) ([]InvestmentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.simulations[simulationID]; !ok {
		return nil, fmt.Errorf("simulation %s: %w", simulationID, ErrNotFound)
	}
	return append([]InvestmentRecord(nil), s.investments[simulationID]...), nil
}

// Vehicle fetches the satellite record for a car investment.
func (s *Store) Vehicle(investmentID string) (VehicleRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.vehicles[investmentID]
	return v, ok
}

// DomainInvestments joins investment and vehicle records into the engine's
// input shape.
func (s *Store) DomainInvestments(simulationID string) ([]domain.Investment, error) {
	records, err := s.ListInvestments(simulationID)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return lo.Map(records, func(rec InvestmentRecord, _ int) domain.Investment {
		inv := domain.Investment{
			Type:          rec.Type,
			Name:          rec.Name,
			Cost:          rec.Cost,
			PurchaseMonth: rec.PurchaseMonth,
		}
		if v, ok := s.vehicles[rec.ID]; ok {
			inv.EngineClass = v.EngineClass
			inv.Financing = v.Financing
			inv.Usage = v.Usage
			inv.DownPaymentFraction = v.DownPaymentFraction
			inv.LeaseTermMonths = v.LeaseTermMonths
			inv.BuyoutFraction = v.BuyoutFraction
		}
		return inv
	}), nil
}

// RatesForYear fetches the rate table for a fiscal year.
func (s *Store) RatesForYear(year int) (domain.RateConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rc, ok := s.rates[year]
	if !ok {
		return domain.RateConfig{}, fmt.Errorf("rate configuration for year %d: %w", year, ErrNotFound)
	}
	return rc, nil
}

// ListRates returns all rate tables sorted by year.
func (s *Store) ListRates() []domain.RateConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()

	configs := lo.Values(s.rates)
	sort.Slice(configs, func(i, j int) bool { return configs[i].Year < configs[j].Year })
	return configs
}

// UpsertRates inserts or replaces the rate table for its year.
func (s *Store) UpsertRates(rc domain.RateConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rates[rc.Year] = rc
}
