package view

import (
	"strings"
	"testing"
	"time"

	"gridwatch/internal/core/inverter"
	"gridwatch/internal/core/outage"
	adomain "gridwatch/internal/services/alerts/domain"
	idomain "gridwatch/internal/services/inverter/domain"
	odomain "gridwatch/internal/services/outage/domain"
	wdomain "gridwatch/internal/services/weather/domain"
)

var kyiv = time.FixedZone("EEST", 3*3600)

func render(t *testing.T, b Board) string {
	t.Helper()
	var sb strings.Builder
	if err := Page(b).Render(&sb); err != nil {
		t.Fatalf("render: %v", err)
	}
	return sb.String()
}

func mustContain(t *testing.T, html string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(html, w) {
			t.Fatalf("missing %q in page", w)
		}
	}
}

func TestPage_AllSections(t *testing.T) {
	day := outage.Build(time.Date(2026, 10, 16, 0, 0, 0, 0, kyiv), "GPV5.2", map[string]string{"11": "no"})
	b := Board{
		Now:     time.Date(2026, 10, 16, 6, 40, 0, 0, time.UTC),
		Loc:     kyiv,
		Refresh: 60,
		Outage: &odomain.Overview{
			GroupLabel: "5.2",
			Today: odomain.Day{Weekday: "пʼятниця", Label: "16 жовтня", HasData: true,
				Intervals: day.Intervals, Stats: day.Stats()},
			Tomorrow: odomain.Day{Weekday: "субота", Label: "17 жовтня",
				Note: "Дані на 17 жовтня для групи 5.2 відсутні."},
			Current:   &odomain.Current{HasPower: true, Status: "СВІТЛО Є"},
			Countdown: odomain.Countdown{Remaining: outage.Remaining{Minutes: 20, Known: true}, Title: "До вимкнення світла", Text: "20 хв."},
		},
		Weather: &wdomain.Weather{Current: wdomain.Current{Temperature: -2, Description: "Сніг", Icon: "snow"}},
		Alerts: &adomain.Local{OK: true, AnyActive: true, Regions: []adomain.LocalRegion{
			{Name: "м. Київ", ActiveAlert: true}, {Name: "Київська область"},
		}},
		Inverter: &idomain.Telemetry{Status: "success", Derived: inverter.Derived{HasGrid: true, GridPowerW: 420, CapacityPct: 80, StoredWh: 4096}},
	}
	html := render(t, b)
	mustContain(t, html,
		"<!DOCTYPE html>", `http-equiv="refresh"`, ">09:40<", "пʼятниця, 16 жовтня",
		"СВІТЛО Є", "До вимкнення світла: ", "20 хв.",
		"10:00-11:00 світла немає", "Світло є 96% доби", "Дані на 17 жовтня для групи 5.2 відсутні.",
		"ПОВІТРЯНА ТРИВОГА", `<li class="alarm">м. Київ</li>`,
		"-2°", "Сніг",
		"Мережа: 420 Вт", "Батарея: 80% (4096 Вт·год)",
	)
}

func TestPage_UnavailableSections(t *testing.T) {
	html := render(t, Board{
		Now:         time.Date(2026, 10, 16, 6, 40, 0, 0, time.UTC),
		Alerts:      &adomain.Local{Error: adomain.MsgNoKey},
		InverterErr: idomain.MsgNoToken,
	})
	mustContain(t, html, "Дані недоступні", adomain.MsgNoKey, "INVERTER_API_TOKEN")
	if strings.Contains(html, "http-equiv") {
		t.Fatal("refresh must be off when not requested")
	}
}
