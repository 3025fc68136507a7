package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"stopshot/pkg/model"
)

const fallbackDurationMin = 60

// Venue holds the operating constants the reservation and availability
// engines are built with.
type Venue struct {
	TimeZone          string
	Location          *time.Location
	BusinessDayStart  model.TimeOfDay
	BusinessDayEnd    model.TimeOfDay
	TimeSlots         []model.TimeOfDay
	BusyThreshold     float64
	RoomTypes         []model.RoomType
	DefaultDurations  map[model.RoomType]int
	MinimumDurations  map[model.RoomType]int
	SpecialEventDates []model.Date
}

// DefaultVenue is the StopShot bar: hourly slots from 4 PM to 1 AM and a
// business day that runs from 16:00 to 01:00 the next morning.
func DefaultVenue() Venue {
	v, errs := parseVenue(
		DefaultVenueTimeZone,
		DefaultBusinessDayStart,
		DefaultBusinessDayEnd,
		DefaultTimeSlots,
		DefaultBusyThreshold,
		DefaultRoomTypes,
		DefaultDefaultDurations,
		DefaultMinimumDurations,
		"",
	)
	if len(errs) > 0 {
		panic(strings.Join(errs, "; "))
	}
	return v
}

func loadVenue() (Venue, []string) {
	threshold := DefaultBusyThreshold
	var errs []string
	if raw := getEnvStr(EnvBusyThreshold, ""); raw != "" {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			errs = append(errs, fmt.Sprintf("BusyThreshold must be a number, got: %s", raw))
		} else {
			threshold = f
		}
	}

	v, parseErrs := parseVenue(
		getEnvStr(EnvVenueTimeZone, DefaultVenueTimeZone),
		getEnvStr(EnvBusinessDayStart, DefaultBusinessDayStart),
		getEnvStr(EnvBusinessDayEnd, DefaultBusinessDayEnd),
		getEnvStr(EnvTimeSlots, DefaultTimeSlots),
		threshold,
		getEnvStr(EnvRoomTypes, DefaultRoomTypes),
		getEnvStr(EnvDefaultDurations, DefaultDefaultDurations),
		getEnvStr(EnvMinimumDurations, DefaultMinimumDurations),
		getEnvStr(EnvSpecialEventDates, ""),
	)
	return v, append(errs, parseErrs...)
}

func parseVenue(tz, start, end, slots string, threshold float64, roomTypes, defaults, minimums, specialDates string) (Venue, []string) {
	var errs []string
	v := Venue{
		TimeZone:         tz,
		BusyThreshold:    threshold,
		DefaultDurations: map[model.RoomType]int{},
		MinimumDurations: map[model.RoomType]int{},
	}

	loc, err := time.LoadLocation(tz)
	if err != nil {
		errs = append(errs, fmt.Sprintf("VenueTimeZone is not a known IANA zone, got: %s", tz))
		loc = time.UTC
	}
	v.Location = loc

	if v.BusinessDayStart, err = model.ParseTimeOfDay(start); err != nil {
		errs = append(errs, fmt.Sprintf("BusinessDayStart must be in HH:MM format, got: %s", start))
	}
	if v.BusinessDayEnd, err = model.ParseTimeOfDay(end); err != nil {
		errs = append(errs, fmt.Sprintf("BusinessDayEnd must be in HH:MM format, got: %s", end))
	}

	for _, raw := range splitList(slots) {
		slot, err := model.ParseTimeOfDay(raw)
		if err != nil {
			errs = append(errs, fmt.Sprintf("TimeSlots entry must be in HH:MM format, got: %s", raw))
			continue
		}
		v.TimeSlots = append(v.TimeSlots, slot)
	}

	for _, raw := range splitList(roomTypes) {
		v.RoomTypes = append(v.RoomTypes, model.RoomType(strings.ToUpper(raw)))
	}

	errs = append(errs, parseDurations(defaults, "DefaultDurations", v.DefaultDurations)...)
	errs = append(errs, parseDurations(minimums, "MinimumDurations", v.MinimumDurations)...)

	for _, raw := range splitList(specialDates) {
		d, err := model.ParseDate(raw)
		if err != nil {
			errs = append(errs, fmt.Sprintf("SpecialEventDates entry must be YYYY-MM-DD, got: %s", raw))
			continue
		}
		v.SpecialEventDates = append(v.SpecialEventDates, d)
	}

	return v, errs
}

// parseDurations reads "TYPE=minutes" pairs into dst.
func parseDurations(raw, name string, dst map[model.RoomType]int) []string {
	var errs []string
	for _, pair := range splitList(raw) {
		key, value, ok := strings.Cut(pair, "=")
		minutes, err := strconv.Atoi(strings.TrimSpace(value))
		if !ok || err != nil || minutes <= 0 {
			errs = append(errs, fmt.Sprintf("%s entry must look like TYPE=minutes with positive minutes, got: %s", name, pair))
			continue
		}
		dst[model.RoomType(strings.ToUpper(strings.TrimSpace(key)))] = minutes
	}
	return errs
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (v Venue) Loc() *time.Location {
	if v.Location == nil {
		return time.UTC
	}
	return v.Location
}

// Today is the venue-local civil date at instant now.
func (v Venue) Today(now time.Time) model.Date {
	return model.DateOf(now.In(v.Loc()))
}

func (v Venue) KnowsRoomType(t model.RoomType) bool {
	for _, known := range v.RoomTypes {
		if known == t {
			return true
		}
	}
	return false
}

func (v Venue) DefaultDuration(t model.RoomType) int {
	if d, ok := v.DefaultDurations[t]; ok {
		return d
	}
	return fallbackDurationMin
}

// MinimumDuration returns 0 when the room type has no minimum.
func (v Venue) MinimumDuration(t model.RoomType) int {
	return v.MinimumDurations[t]
}

func (v Venue) validate() []string {
	var errs []string
	if v.BusyThreshold <= 0 || v.BusyThreshold > 1 {
		errs = append(errs, fmt.Sprintf("BusyThreshold must be in (0, 1], got: %v", v.BusyThreshold))
	}
	if v.BusinessDayStart == v.BusinessDayEnd {
		errs = append(errs, "BusinessDayStart and BusinessDayEnd cannot be equal")
	}
	if len(v.TimeSlots) == 0 {
		errs = append(errs, "TimeSlots cannot be empty")
	}
	if len(v.RoomTypes) == 0 {
		errs = append(errs, "RoomTypes cannot be empty")
	}
	for t := range v.MinimumDurations {
		if !v.KnowsRoomType(t) {
			errs = append(errs, fmt.Sprintf("MinimumDurations names unknown room type %s", t))
		}
	}
	return errs
}
