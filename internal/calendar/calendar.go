// Package calendar renders the upcoming birthdays of an address book as an
// iCalendar feed.
package calendar

import (
	"bytes"
	"fmt"
	"log/slog"
	"time"

	"github.com/emersion/go-ical"
	"github.com/tartampluch/go-addressbook/internal/config"
	"github.com/tartampluch/go-addressbook/internal/engine"
)

// Generator turns the upcoming-birthdays window of a book into iCalendar data.
type Generator struct {
	Clock engine.Clock // Nil means engine.RealClock.

	// ReminderTrigger is an ISO8601 duration (e.g. "-P1D"). Empty disables alarms.
	ReminderTrigger string

	// FormatSummary lets callers inject the catalog's event title.
	FormatSummary func(name string) string
}

// Render returns the feed and the number of congratulations due today.
func (g *Generator) Render(book *engine.AddressBook) ([]byte, int, error) {
	start := time.Now()

	clock := g.Clock
	if clock == nil {
		clock = engine.RealClock{}
	}
	// Local time decides which day it is; UTC is only used for stamping.
	now := clock.Now()
	today := engine.StartOfDay(now)

	upcoming := book.UpcomingBirthdays(now)
	if len(upcoming) == 0 {
		g.logSuccess(0, 0, start)
		return []byte(config.StubVCalendar), 0, nil
	}

	cal := newCalendar()

	dtStampProp := ical.NewProp(config.PropDTStamp)
	dtStampProp.SetDateTime(now.UTC())

	dueToday := 0
	for _, u := range upcoming {
		event := g.createEvent(u)
		event.Props.Set(dtStampProp)
		cal.Children = append(cal.Children, event.Component)

		if u.CongratulationDate.Equal(today) {
			dueToday++
			slog.Info(config.MsgBdayToday,
				config.LogKeyComponent, config.CompCalendar,
				config.LogKeyName, u.Name)
		}
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}

	g.logSuccess(len(upcoming), dueToday, start)
	return buf.Bytes(), dueToday, nil
}

func newCalendar() *ical.Calendar {
	cal := ical.NewCalendar()
	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, config.ICalCalName)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	// RFC 7986
	refreshProp := ical.NewProp(config.PropRefresh)
	refreshProp.SetDuration(config.DefaultICalRefresh)
	cal.Props.Set(refreshProp)
	return cal
}

// createEvent builds the all-day event of one congratulation.
func (g *Generator) createEvent(u engine.UpcomingBirthday) *ical.Event {
	event := ical.NewEvent()
	event.Props.SetText(config.PropUID,
		fmt.Sprintf(config.FormatUID, u.UID, u.CongratulationDate.Year(), config.ICalDomain))

	summary := fmt.Sprintf(config.FallbackSummary, u.Name)
	if g.FormatSummary != nil {
		summary = g.FormatSummary(u.Name)
	}
	event.Props.SetText(config.PropSummary, summary)

	dtStartProp := ical.NewProp(config.PropDTStart)
	dtStartProp.SetDate(u.CongratulationDate)
	event.Props.Set(dtStartProp)

	if g.ReminderTrigger != "" {
		addAlarm(event, g.ReminderTrigger, summary)
	}
	return event
}

// addAlarm appends a DISPLAY alarm (notification) to the event.
func addAlarm(event *ical.Event, trigger, description string) {
	alarm := ical.NewComponent(config.ICalComponent)
	alarm.Props.SetText(config.PropAction, config.ICalAction)
	alarm.Props.SetText(config.PropDescription, description)

	// Set trigger manually to avoid "VALUE=TEXT" param
	triggerProp := ical.NewProp(config.PropTrigger)
	triggerProp.Value = trigger
	alarm.Props.Set(triggerProp)

	event.Children = append(event.Children, alarm)
}

func (g *Generator) logSuccess(events, today int, start time.Time) {
	slog.Info(config.MsgFeedRendered,
		config.LogKeyComponent, config.CompCalendar,
		config.LogKeyCount, events,
		config.LogKeyToday, today,
		config.LogKeyDuration, time.Since(start).Milliseconds())
}
