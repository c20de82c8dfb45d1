// Package domain holds the alert view types
package domain

import (
	"time"

	"gridwatch/internal/core/alertmap"
)

// Messages returned in place of data
const (
	MsgNoKey      = "API ключ не налаштовано"
	MsgNoWebhook  = "WEBHOOK_URL або PUBLIC_BASE_URL не налаштовано"
	MsgRegistered = "Webhook зареєстровано успішно"
	MsgNotSet     = "Не налаштовано"
)

// AlertData is one oblast as the dashboard shows it
type AlertData struct {
	RegionID    string   `json:"regionId"    example:"31"`
	RegionName  string   `json:"regionName"  example:"м. Київ"`
	ActiveAlert bool     `json:"activeAlert"`
	LastUpdate  string   `json:"lastUpdate"  example:"2026-10-16T06:12:00Z"`
	AlertTypes  []string `json:"alertTypes"`
}

// Overview is GET /alerts
type Overview struct {
	OK           bool        `json:"ok"`
	Alerts       []AlertData `json:"alerts"`
	OblastString *string     `json:"oblastString"`
	LastUpdate   *time.Time  `json:"lastUpdate,omitempty"`
	Stale        bool        `json:"stale"`
	Error        string      `json:"error,omitempty"`
}

// LocalRegion is a configured region of interest, oblast or community
type LocalRegion struct {
	ID          string   `json:"regionId"   example:"701"`
	Name        string   `json:"regionName" example:"Борщагівська ТГ"`
	ActiveAlert bool     `json:"activeAlert"`
	AlertTypes  []string `json:"alertTypes"`
}

// Local is GET /alerts/local
type Local struct {
	OK         bool          `json:"ok"`
	Regions    []LocalRegion `json:"regions"`
	AnyActive  bool          `json:"anyActive"`
	LastUpdate *time.Time    `json:"lastUpdate,omitempty"`
	Error      string        `json:"error,omitempty"`
}

// Map is GET and POST /alerts/map
type Map struct {
	Regions    []alertmap.Status `json:"regions"`
	Active     int               `json:"active"`
	LastUpdate *time.Time        `json:"lastUpdate,omitempty"`
}

// Received acknowledges a webhook delivery
type Received struct {
	OK       bool   `json:"ok"`
	Received string `json:"received" example:"14"`
}

// WebhookStatus is GET /webhook/alerts
type WebhookStatus struct {
	Status    string    `json:"status"  example:"ok"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Registration is POST /webhook/register
type Registration struct {
	OK         bool   `json:"ok"`
	Message    string `json:"message"`
	WebhookURL string `json:"webhookUrl"`
	Response   string `json:"response"`
}

// RegisterStatus is GET /webhook/register
type RegisterStatus struct {
	Status       string `json:"status"     example:"ready"`
	WebhookURL   string `json:"webhookUrl"`
	HasAPIKey    bool   `json:"hasApiKey"`
	Instructions string `json:"instructions"`
}
