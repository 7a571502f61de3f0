package models

// MaxBookingImages caps the reference images a visitor may attach.
const MaxBookingImages = 6

// BookingDraft is the transient form state of one booking attempt. It is
// never stored; reference images are only counted.
type BookingDraft struct {
	Name       string   `json:"name"`
	Phone      string   `json:"phone"`
	Branch     string   `json:"branch"`
	Birthday   string   `json:"birthday"`
	Services   []string `json:"services"`
	Date       string   `json:"date"`
	Time       string   `json:"time"`
	Style      string   `json:"style"`
	Matte      string   `json:"matte"`
	Note       string   `json:"note"`
	ImageCount int      `json:"imageCount"`
}

// TimeClass classifies a requested time against business hours.
type TimeClass string

const (
	TimeUnset  TimeClass = "unset"
	TimeEarly  TimeClass = "early"
	TimeLate   TimeClass = "late"
	TimeNormal TimeClass = "normal"
)

// NeedsWarning reports whether the slot is outside regular hours.
func (t TimeClass) NeedsWarning() bool {
	return t == TimeEarly || t == TimeLate
}
