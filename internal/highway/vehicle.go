package highway

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrInvalidVehicle is returned by NewVehicle for out-of-range attributes.
var ErrInvalidVehicle = errors.New("invalid vehicle")

// Vehicle waits in a toll lane. Only the time left changes after creation; it
// goes down one unit per tick while the vehicle is at the head of its lane.
type Vehicle struct {
	arrival  int
	duration int
	timeLeft int
	toll     float64
}

// NewVehicle requires arrival > 0, duration > 0 and toll >= 0.
func NewVehicle(arrival, duration int, toll float64) (*Vehicle, error) {
	switch {
	case arrival <= 0:
		return nil, errors.Wrapf(ErrInvalidVehicle, "arrival must be positive, got %d", arrival)
	case duration <= 0:
		return nil, errors.Wrapf(ErrInvalidVehicle, "duration must be positive, got %d", duration)
	case toll < 0:
		return nil, errors.Wrapf(ErrInvalidVehicle, "toll must not be negative, got %.2f", toll)
	}
	return &Vehicle{arrival: arrival, duration: duration, timeLeft: duration, toll: toll}, nil
}

func (v *Vehicle) DecreaseOneTimeUnit() {
	if v.timeLeft > 0 {
		v.timeLeft--
	}
}

func (v *Vehicle) Arrival() int { return v.arrival }
func (v *Vehicle) Duration() int { return v.duration }
func (v *Vehicle) TimeLeft() int { return v.timeLeft }
func (v *Vehicle) Toll() float64 { return v.toll }
func (v *Vehicle) String() string { return fmt.Sprintf("(%d,%d:%d)", v.arrival, v.duration, v.timeLeft) }
