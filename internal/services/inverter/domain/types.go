// Package domain holds the inverter telemetry view
package domain

import (
	"encoding/json"
	"time"

	"gridwatch/internal/core/inverter"
)

// MsgNoToken explains how to configure the bridge token
const MsgNoToken = "INVERTER_API_TOKEN не налаштовано. Створіть token-inverter.txt з токеном або задайте змінну середовища INVERTER_API_TOKEN."

// Telemetry is GET /inverter
type Telemetry struct {
	Status    string           `json:"status"    example:"success"`
	Timestamp json.RawMessage  `json:"timestamp,omitempty" swaggertype:"string"`
	Data      map[string]any   `json:"data"`
	Derived   inverter.Derived `json:"derived"`
	FetchedAt *time.Time       `json:"fetched_at"`
	Stale     bool             `json:"stale"`
	Error     string           `json:"error,omitempty"`
}
