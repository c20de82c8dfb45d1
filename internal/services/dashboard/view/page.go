// Package view renders the dashboard page
package view

import (
	"fmt"
	"strconv"
	"time"

	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html" // Using . import for the html tags

	"gridwatch/internal/core/calendar"
	"gridwatch/internal/core/outage"
	adomain "gridwatch/internal/services/alerts/domain"
	idomain "gridwatch/internal/services/inverter/domain"
	odomain "gridwatch/internal/services/outage/domain"
	wdomain "gridwatch/internal/services/weather/domain"
)

// Board is everything the page shows; a nil section renders as unavailable
type Board struct {
	Now time.Time
	Loc *time.Location
	// Refresh reloads the page every N seconds, 0 disables it
	Refresh int

	Outage      *odomain.Overview
	Weather     *wdomain.Weather
	WeatherErr  string
	Alerts      *adomain.Local
	Inverter    *idomain.Telemetry
	InverterErr string
}

// Page renders the whole dashboard
func Page(b Board) g.Node {
	if b.Loc == nil {
		b.Loc = time.UTC
	}
	return g.Group([]g.Node{
		g.Raw("<!DOCTYPE html>"),
		HTML(Lang("uk"),
			Head(
				Meta(Charset("UTF-8")),
				Meta(Name("viewport"), Content("width=device-width, initial-scale=1.0")),
				g.If(b.Refresh > 0, Meta(g.Attr("http-equiv", "refresh"), Content(strconv.Itoa(b.Refresh)))),
				TitleEl(g.Text("Світло, тривоги, погода")),
				StyleEl(g.Raw(css)),
			),
			Body(
				Header(Class("top"),
					Div(Class("clock"), g.Text(calendar.Clock(b.Now, b.Loc))),
					Div(Class("date"), g.Text(calendar.LongLabel(b.Now.In(b.Loc)))),
				),
				Main(
					outageCard(b.Outage),
					alertsCard(b.Alerts),
					weatherCard(b.Weather, b.WeatherErr),
					inverterCard(b.Inverter, b.InverterErr),
				),
				Footer(P(g.Text("Дані оновлюються автоматично"))),
			),
		),
	})
}

func card(title string, body ...g.Node) g.Node {
	return Section(Class("card"), H2(g.Text(title)), g.Group(body))
}

func notice(text string) g.Node {
	return g.If(text != "", P(Class("notice"), g.Text(text)))
}

func unavailable(title, msg string) g.Node {
	if msg == "" {
		msg = "Дані недоступні"
	}
	return card(title, P(Class("notice"), g.Text(msg)))
}

func outageCard(o *odomain.Overview) g.Node {
	if o == nil {
		return unavailable("Графік відключень", "")
	}
	var banner g.Node
	if o.Current != nil {
		state := "off"
		if o.Current.HasPower {
			state = "on"
		}
		banner = Div(Class("banner "+state), g.Text(o.Current.Status))
	}
	return card("Графік відключень · група "+o.GroupLabel,
		banner,
		g.If(o.Countdown.Known,
			Div(Class("countdown"), Span(g.Text(o.Countdown.Title+": ")), Strong(g.Text(o.Countdown.Text))),
		),
		notice(o.Error),
		dayBlock(o.Today),
		dayBlock(o.Tomorrow),
	)
}

func dayBlock(d odomain.Day) g.Node {
	head := H3(g.Textf("%s, %s", d.Weekday, d.Label))
	if !d.HasData {
		return Div(Class("day"), head, P(Class("notice"), g.Text(d.Note)))
	}
	return Div(Class("day"),
		head,
		Div(Class("timeline"), g.Map(d.Intervals, segment)),
		Ul(Class("intervals"), g.Map(d.Intervals, func(iv outage.Interval) g.Node {
			return Li(Class(stateClass(iv.State)), g.Textf("%s-%s %s", iv.StartClock(), iv.EndClock(), stateText(iv.State)))
		})),
		P(Class("stats"), g.Textf("Світло є %d%% доби", d.Stats.AvailabilityPct)),
	)
}

func segment(iv outage.Interval) g.Node {
	width := float64(iv.Duration()) / float64(outage.DayMinutes) * 100
	return Div(Class("seg "+stateClass(iv.State)),
		Style(fmt.Sprintf("width:%.4f%%", width)),
		Title(iv.StartClock()+"-"+iv.EndClock()),
	)
}

func stateClass(s outage.State) string {
	if s == outage.Absent {
		return "off"
	}
	return "on"
}

func stateText(s outage.State) string {
	if s == outage.Absent {
		return "світла немає"
	}
	return "світло є"
}

func alertsCard(l *adomain.Local) g.Node {
	if l == nil {
		return unavailable("Повітряна тривога", "")
	}
	if !l.OK {
		return unavailable("Повітряна тривога", l.Error)
	}
	status, cls := "Тривоги немає", "banner on"
	if l.AnyActive {
		status, cls = "ПОВІТРЯНА ТРИВОГА", "banner alarm"
	}
	return card("Повітряна тривога",
		Div(Class(cls), g.Text(status)),
		Ul(Class("regions"), g.Map(l.Regions, func(r adomain.LocalRegion) g.Node {
			return Li(g.If(r.ActiveAlert, Class("alarm")), g.Text(r.Name))
		})),
	)
}

func weatherCard(w *wdomain.Weather, errText string) g.Node {
	if w == nil {
		return unavailable("Погода", errText)
	}
	return card("Погода",
		Div(Class("temp icon-"+w.Current.Icon),
			Strong(g.Textf("%+d°", w.Current.Temperature)),
			Span(g.Text(" "+w.Current.Description)),
		),
		notice(w.Error),
		Ul(Class("forecast"), g.Map(w.Daily, func(d wdomain.Day) g.Node {
			return Li(Class("icon-"+d.Icon), g.Textf("%s %s: %+d° / %+d°, %s", d.Weekday, d.Label, d.Max, d.Min, d.Description))
		})),
	)
}

func inverterCard(t *idomain.Telemetry, errText string) g.Node {
	if t == nil {
		return unavailable("Інвертор", errText)
	}
	d := t.Derived
	grid := "Мережа відсутня"
	if d.HasGrid {
		grid = fmt.Sprintf("Мережа: %.0f Вт", d.GridPowerW)
	}
	rows := []g.Node{
		Li(g.Text(grid)),
		Li(g.Textf("Батарея: %.0f%% (%.0f Вт·год)", d.CapacityPct, d.StoredWh)),
	}
	if d.Charging {
		rows = append(rows, Li(g.Textf("Заряджання: %.0f Вт, до повного %s", d.ChargingPowerW, d.TimeToFull)))
	}
	if d.InverterPowerW > 0 {
		rows = append(rows, Li(g.Textf("Від батареї: %.0f Вт, вистачить на %s", d.InverterPowerW, d.TimeToEmpty)))
	}
	return card("Інвертор", Ul(Class("inverter"), g.Group(rows)), notice(t.Error))
}

const css = `
body { margin: 0; font-family: system-ui, sans-serif; background: #0f172a; color: #e2e8f0; }
.top { display: flex; align-items: baseline; gap: 1rem; padding: 1rem 1.5rem; }
.clock { font-size: 3rem; font-weight: 700; font-variant-numeric: tabular-nums; }
.date { color: #94a3b8; }
main { display: grid; grid-template-columns: repeat(auto-fit, minmax(320px, 1fr)); gap: 1rem; padding: 0 1.5rem; }
.card { background: #1e293b; border-radius: 12px; padding: 1rem 1.25rem; }
.card h2 { margin: 0 0 .75rem; font-size: 1.1rem; }
.banner { padding: .5rem .75rem; border-radius: 8px; font-weight: 700; margin-bottom: .5rem; }
.banner.on { background: #166534; }
.banner.off, .banner.alarm { background: #991b1b; }
.timeline { display: flex; height: 14px; border-radius: 4px; overflow: hidden; }
.seg.on { background: #22c55e; }
.seg.off { background: #ef4444; }
.intervals, .regions, .forecast, .inverter { list-style: none; padding: 0; margin: .5rem 0; }
li.off, li.alarm { color: #fca5a5; }
.notice { color: #fbbf24; font-size: .9rem; }
footer { color: #64748b; font-size: .8rem; padding: 1rem 1.5rem; }
`
