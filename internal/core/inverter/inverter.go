// Package inverter derives power flows and battery timings from one telemetry reading
package inverter

import (
	"fmt"
	"math"
)

// DefaultBatteryWh is the installed battery capacity
const DefaultBatteryWh = 5120

// gridVoltageMin is the AC input voltage above which the grid counts as present
const gridVoltageMin = 50

// Reading is the telemetry record as reported by the inverter API
// Missing numbers stay nil
type Reading struct {
	ExhibitionTime     string   `json:"exhibitionTime,omitempty"`
	States             string   `json:"states,omitempty"`
	ACVoltage          *float64 `json:"acVoltage,omitempty"`
	ACFrequency        *float64 `json:"acFrequency,omitempty"`
	OutputVoltage      *float64 `json:"outputVoltage,omitempty"`
	OutputFrequency    *float64 `json:"outputFrequency,omitempty"`
	LoadPower          *float64 `json:"loadPower,omitempty"`
	BatteryVoltage     *float64 `json:"batteryVoltage,omitempty"`
	BatteryCurrent     *float64 `json:"batteryCurrent,omitempty"`
	BatteryPower       *float64 `json:"batteryPower,omitempty"`
	CapacityPercentage *float64 `json:"capacityPercentage,omitempty"`
	LastUpdate         string   `json:"lastUpdate,omitempty"`
}

// Derived are the values the dashboard shows next to the raw reading
type Derived struct {
	HasGrid        bool    `json:"has_grid"`
	GridPowerW     float64 `json:"grid_power_w"`
	InverterPowerW float64 `json:"inverter_power_w"`
	ChargingPowerW float64 `json:"charging_power_w"`
	Charging       bool    `json:"charging"`
	CapacityPct    float64 `json:"capacity_pct"`
	StoredWh       float64 `json:"stored_wh"`
	TimeToFullS    float64 `json:"time_to_full_s"`
	TimeToEmptyS   float64 `json:"time_to_empty_s"`
	TimeToFull     string  `json:"time_to_full"`
	TimeToEmpty    string  `json:"time_to_empty"`
}

func val(p *float64) float64 {
	if p == nil || math.IsNaN(*p) {
		return 0
	}
	return *p
}

// Derive computes power flows. Positive battery power is discharge; negative is charge.
// batteryWh <= 0 uses DefaultBatteryWh
func Derive(r Reading, batteryWh float64) Derived {
	if batteryWh <= 0 {
		batteryWh = DefaultBatteryWh
	}
	load := val(r.LoadPower)
	batt := val(r.BatteryPower)
	capPct := math.Max(0, math.Min(100, val(r.CapacityPercentage)))

	d := Derived{
		HasGrid:     r.ACVoltage != nil && *r.ACVoltage > gridVoltageMin,
		CapacityPct: capPct,
		StoredWh:    capPct / 100 * batteryWh,
	}
	if d.HasGrid {
		d.GridPowerW = math.Max(0, load-batt)
	}
	if batt > 0 {
		d.InverterPowerW = batt
		d.TimeToEmptyS = d.StoredWh / batt * 3600
	}
	if batt < 0 {
		d.ChargingPowerW = -batt
		d.Charging = true
		d.TimeToFullS = (100 - capPct) / 100 * batteryWh / d.ChargingPowerW * 3600
	}
	d.TimeToFull = FormatDuration(d.TimeToFullS)
	d.TimeToEmpty = FormatDuration(d.TimeToEmptyS)
	return d
}

// FormatDuration renders seconds as "N год M хв", "N год", "M хв", "< 1 хв", or "—"
// for zero, negative or non-finite input
func FormatDuration(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds <= 0 {
		return "—"
	}
	total := int64(seconds)
	h := total / 3600
	m := (total % 3600) / 60
	switch {
	case h > 0 && m > 0:
		return fmt.Sprintf("%d год %d хв", h, m)
	case h > 0:
		return fmt.Sprintf("%d год", h)
	case m > 0:
		return fmt.Sprintf("%d хв", m)
	default:
		return "< 1 хв"
	}
}
