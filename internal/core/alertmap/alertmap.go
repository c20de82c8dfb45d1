// Package alertmap folds alert records into per-oblast map state
package alertmap

import (
	"errors"

	"github.com/tidwall/gjson"
)

// Region is one oblast on the map with its label anchor
type Region struct {
	ID     int    `json:"id"`
	Title  string `json:"title"`
	TitleX int    `json:"title_x"`
	TitleY int    `json:"title_y"`
}

// Regions are the 25 map oblasts in map id order
var Regions = []Region{
	{1, "Вінницька", 320, 310},
	{2, "Волинська", 115, 115},
	{3, "Дніпропетровська", 650, 350},
	{4, "Донецька", 790, 415},
	{5, "Житомирська", 320, 160},
	{6, "Закарпатська", 45, 340},
	{7, "Запорізька", 680, 460},
	{8, "Івано-Франківська", 145, 340},
	{9, "Київська", 450, 190},
	{10, "Кіровоградська", 500, 340},
	{11, "Луганська", 880, 310},
	{12, "Львівська", 95, 240},
	{13, "Миколаївська", 490, 465},
	{14, "Одеська", 370, 510},
	{15, "Полтавська", 600, 250},
	{16, "Рівненська", 230, 115},
	{17, "Сумська", 635, 130},
	{18, "Тернопільська", 142, 275},
	{19, "Харківська", 750, 240},
	{20, "Херсонська", 570, 540},
	{21, "Хмельницька", 240, 255},
	{22, "Черкаська", 485, 280},
	{23, "Чернівецька", 210, 370},
	{24, "Чернігівська", 500, 90},
	{25, "АР Крим", 690, 650},
}

// LocationMapping maps alert API location uids to map region ids.
// Kyiv city folds into Kyiv oblast and Sevastopol into Crimea
var LocationMapping = map[string]int{
	"4": 1, "8": 2, "9": 3, "28": 4, "10": 5, "11": 6, "12": 7, "13": 8,
	"14": 9, "31": 9,
	"15": 10, "16": 11, "27": 12, "17": 13, "18": 14, "19": 15, "5": 16,
	"20": 17, "21": 18, "22": 19, "23": 20, "3": 21, "24": 22, "26": 23,
	"25": 24,
	"29": 25, "30": 25,
}

// Alert is one alert record in any of the shapes the feeds deliver
type Alert struct {
	UID string
	// Active is an explicit flag; it wins over everything else
	Active *bool
	// Finished reports that a finished_at key was present; FinishedAt nil means still running
	Finished   bool
	FinishedAt *string
	AlertType  string
}

// UnmarshalJSON accepts location_uid or regionId (string or number), activeAlert,
// finished_at and alertType or alert_type
func (a *Alert) UnmarshalJSON(b []byte) error {
	r := gjson.ParseBytes(b)
	*a = Alert{}
	for _, k := range []string{"location_uid", "regionId"} {
		if v := r.Get(k); v.Exists() && v.Type != gjson.Null {
			a.UID = v.String()
			break
		}
	}
	if v := r.Get("activeAlert"); v.Type == gjson.True || v.Type == gjson.False {
		on := v.Bool()
		a.Active = &on
	}
	if v := r.Get("finished_at"); v.Exists() {
		a.Finished = true
		if v.Type != gjson.Null {
			s := v.String()
			a.FinishedAt = &s
		}
	}
	a.AlertType = r.Get("alertType").String()
	if a.AlertType == "" {
		a.AlertType = r.Get("alert_type").String()
	}
	return nil
}

// IsActive applies the precedence: explicit flag, then an unset finished_at,
// then an AIR_RAID type
func (a Alert) IsActive() bool {
	switch {
	case a.Active != nil:
		return *a.Active
	case a.Finished:
		return a.FinishedAt == nil
	default:
		return a.AlertType == "AIR_RAID"
	}
}

// FromFlag builds an Alert carrying only an explicit flag
func FromFlag(uid string, active bool) Alert {
	return Alert{UID: uid, Active: &active}
}

// Records is a batch of alert records, sent as a bare list or as an object
// holding them under "alerts" the way GET /alerts answers
type Records struct {
	Alerts []Alert
}

// UnmarshalJSON decodes each record with Alert's loose rules
func (rs *Records) UnmarshalJSON(b []byte) error {
	r := gjson.ParseBytes(b)
	if !r.IsArray() {
		r = r.Get("alerts")
	}
	if !r.IsArray() {
		return errors.New("alertmap: want a list of alerts or an object with an alerts list")
	}
	list := r.Array()
	rs.Alerts = make([]Alert, len(list))
	for i, v := range list {
		if err := rs.Alerts[i].UnmarshalJSON([]byte(v.Raw)); err != nil {
			return err
		}
	}
	return nil
}

// Status is a region with its alert flag
type Status struct {
	Region
	IsAlert bool `json:"is_alert"`
}

// StatusOf marks every region that has at least one active alert among the uids
// mapped to it. Records without a uid or with an unmapped uid are ignored
func StatusOf(alerts []Alert, regions []Region) []Status {
	byRegion := make(map[int]bool, len(regions))
	for _, a := range alerts {
		if a.UID == "" {
			continue
		}
		id, ok := LocationMapping[a.UID]
		if !ok {
			continue
		}
		byRegion[id] = byRegion[id] || a.IsActive()
	}
	out := make([]Status, len(regions))
	for i, r := range regions {
		out[i] = Status{Region: r, IsAlert: byRegion[r.ID]}
	}
	return out
}
