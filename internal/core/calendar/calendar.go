// Package calendar renders Ukrainian date labels
package calendar

import (
	"fmt"
	"time"
)

var months = [12]string{
	"січня", "лютого", "березня", "квітня", "травня", "червня",
	"липня", "серпня", "вересня", "жовтня", "листопада", "грудня",
}

var weekdays = [7]string{"неділя", "понеділок", "вівторок", "середа", "четвер", "пʼятниця", "субота"}

var weekdaysShort = [7]string{"Нд", "Пн", "Вт", "Ср", "Чт", "Пт", "Сб"}

// Month returns the genitive month name, e.g. "жовтня"
func Month(m time.Month) string { return months[m-1] }

// Weekday returns the lower-case weekday name
func Weekday(d time.Weekday) string { return weekdays[d] }

// WeekdayShort returns the two-letter weekday
func WeekdayShort(d time.Weekday) string { return weekdaysShort[d] }

// Label renders "16 жовтня" for t in its own location
func Label(t time.Time) string {
	return fmt.Sprintf("%d %s", t.Day(), Month(t.Month()))
}

// LongLabel renders "пʼятниця, 16 жовтня"
func LongLabel(t time.Time) string {
	return Weekday(t.Weekday()) + ", " + Label(t)
}

// Clock renders "HH:MM" in loc
func Clock(t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format("15:04")
}
