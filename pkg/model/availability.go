package model

type DayAvailability struct {
	IsAvailable    bool `json:"is_available"`
	IsBusy         bool `json:"is_busy"`
	IsSpecialEvent bool `json:"is_special_event"`
}

// MonthGrid maps a day of the month (1-based) to its availability.
type MonthGrid map[int]DayAvailability

type TimeSlot struct {
	Time  TimeOfDay `json:"time"`
	Label string    `json:"label"`
}

type OccupancyStatus string

const (
	OccupancyAvailable   OccupancyStatus = "AVAILABLE"
	OccupancyLimited     OccupancyStatus = "LIMITED_AVAILABILITY"
	OccupancyUnavailable OccupancyStatus = "UNAVAILABLE"
)

type Occupancy struct {
	PercentBooked float64         `json:"percent_booked"`
	Status        OccupancyStatus `json:"status"`
	Message       string          `json:"message,omitempty"`
}
