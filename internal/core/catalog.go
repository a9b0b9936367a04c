package core

import (
	"sakanacore/pkg/domain"
)

// Signal-detection thresholds in dB, taken from a documented detectability case.
const (
	ThresholdUndetectableLimit = "undetectable_limit_db"
	ThresholdMinimumDetectable = "minimum_detectable_db"
	UndetectableLimitDB        = -15.54
	MinimumDetectableDB        = 0.0
)

// defaultCatalogEntries is the static constraint table. Range order matters: the
// first range whose key fragments match a parameter name wins.
func defaultCatalogEntries() []CatalogEntry {
	return []CatalogEntry{
		{
			Domain: DomainChemicalComposition,
			Ranges: []ParameterRange{
				{Key: "concentration_percent", Min: 0, Max: 100},
				{Key: "temperature_k", Min: 180, Max: 300},
				{Key: "ph_acidity", Min: -1, Max: 14},
				{Key: "pressure_hpa", Min: 1, Max: 250},
				{Key: "water_vapor_ppmv", Min: 1, Max: 10},
			},
			RequiredEvidence:    []string{"concentration", "measurement"},
			PhysicalConstraints: []string{"mass_conservation", "charge_balance"},
		},
		{
			Domain: DomainParticleDynamics,
			Ranges: []ParameterRange{
				{Key: "radius_um", Min: 0.01, Max: 10},
				{Key: "number_density_cm3", Min: 0.1, Max: 10000},
				{Key: "sedimentation_velocity_m_s", Min: 1e-6, Max: 0.1},
				{Key: "coagulation_kernel", Min: 0, Max: 1},
				{Key: "distribution_width", Min: 1, Max: 3},
			},
			RequiredEvidence:    []string{"particle", "size distribution"},
			PhysicalConstraints: []string{"mass_conservation", "stokes_settling"},
		},
		{
			Domain: DomainSignalDetection,
			Ranges: []ParameterRange{
				{Key: "snr_db", Min: -30, Max: 60},
				{Key: "detection_probability", Min: 0, Max: 1},
				{Key: "false_alarm_rate", Min: 0, Max: 0.5},
				{Key: "integration_time_s", Min: 0.001, Max: 1e6},
				{Key: "bandwidth_hz", Min: 1e-3, Max: 1e9},
			},
			RequiredEvidence:    []string{"signal", "noise"},
			PhysicalConstraints: []string{"noise_floor", "instrument_resolution"},
			CriticalThresholds: map[string]float64{
				ThresholdUndetectableLimit: UndetectableLimitDB,
				ThresholdMinimumDetectable: MinimumDetectableDB,
			},
		},
		{
			Domain: DomainClimateResponse,
			Ranges: []ParameterRange{
				{Key: "temperature_anomaly_k", Min: -5, Max: 5},
				{Key: "radiative_forcing_w_m2", Min: -10, Max: 5},
				{Key: "precipitation_percent", Min: -20, Max: 20},
				{Key: "sensitivity_k", Min: 1.5, Max: 4.5},
			},
			RequiredEvidence:    []string{"temperature", "forcing"},
			PhysicalConstraints: []string{"energy_balance"},
		},
		{
			Domain: DomainAtmosphericTransport,
			Ranges: []ParameterRange{
				{Key: "altitude_km", Min: 15, Max: 30},
				{Key: "lifetime_months", Min: 1, Max: 36},
				{Key: "wind_speed_m_s", Min: 0, Max: 100},
				{Key: "mass_rate_tg_yr", Min: 0, Max: 20},
			},
			RequiredEvidence:    []string{"transport", "altitude"},
			PhysicalConstraints: []string{"mass_conservation", "tracer_continuity"},
		},
		{
			Domain: DomainPolicyGovernance,
			Ranges: []ParameterRange{
				{Key: "cost_billion_usd", Min: 0, Max: 100},
				{Key: "implementation_years", Min: 1, Max: 100},
				{Key: "participating_countries", Min: 1, Max: 195},
				{Key: "support_percent", Min: 0, Max: 100},
			},
			RequiredEvidence:    []string{"policy", "stakeholder"},
			PhysicalConstraints: []string{},
		},
	}
}

// Catalog is an immutable lookup of constraint entries keyed by domain.
type Catalog struct {
	entries map[Domain]CatalogEntry
}

// DefaultCatalog returns the built-in constraint catalog.
func DefaultCatalog() *Catalog {
	return NewCatalog(defaultCatalogEntries())
}

// NewCatalog builds a catalog from entries. Entries for DomainUnknown or
// unrecognised domains are ignored; a later entry replaces an earlier one.
func NewCatalog(entries []CatalogEntry) *Catalog {
	c := &Catalog{entries: make(map[Domain]CatalogEntry, len(entries))}
	for _, e := range entries {
		if !e.Domain.Known() {
			continue
		}
		c.entries[e.Domain] = cloneEntry(e)
	}
	return c
}

// Entry returns a copy of the entry for d.
func (c *Catalog) Entry(d Domain) (CatalogEntry, bool) {
	e, ok := c.entries[d]
	if !ok {
		return CatalogEntry{}, false
	}
	return cloneEntry(e), true
}

// Entries returns copies of all entries in domain declaration order.
func (c *Catalog) Entries() []CatalogEntry {
	var out []CatalogEntry
	for _, d := range domain.Domains() {
		if e, ok := c.Entry(d); ok {
			out = append(out, e)
		}
	}
	return out
}

// RangesFor returns the parameter ranges of d in match order.
func (c *Catalog) RangesFor(d Domain) []ParameterRange {
	e, _ := c.Entry(d)
	return e.Ranges
}

// RequiredEvidenceFor returns the evidence tags required for d.
func (c *Catalog) RequiredEvidenceFor(d Domain) []string {
	e, _ := c.Entry(d)
	return e.RequiredEvidence
}

// CriticalThresholdsFor returns the domain thresholds; empty for most domains.
func (c *Catalog) CriticalThresholdsFor(d Domain) map[string]float64 {
	e, _ := c.Entry(d)
	if e.CriticalThresholds == nil {
		return map[string]float64{}
	}
	return e.CriticalThresholds
}

func cloneEntry(e CatalogEntry) CatalogEntry {
	cp := CatalogEntry{
		Domain:              e.Domain,
		Ranges:              append([]ParameterRange(nil), e.Ranges...),
		RequiredEvidence:    append([]string(nil), e.RequiredEvidence...),
		PhysicalConstraints: append([]string(nil), e.PhysicalConstraints...),
	}
	if e.CriticalThresholds != nil {
		cp.CriticalThresholds = make(map[string]float64, len(e.CriticalThresholds))
		for k, v := range e.CriticalThresholds {
			cp.CriticalThresholds[k] = v
		}
	}
	return cp
}
