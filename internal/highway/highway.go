package highway

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"highway-tolls/internal/queue"
)

// ErrInvalidConfig is returned by New for a non-positive lane floor or capacity.
var ErrInvalidConfig = errors.New("invalid highway configuration")

// Highway is a set of toll lanes where arriving vehicles wait for their toll to
// be processed. It is driven one tick at a time: AddVehicle for every arrival
// of the tick, then UpdateActiveQueues, then UpdateNumberActiveQueues.
//
// A Highway is not safe for concurrent use.
type Highway struct {
	minActiveQueues     int
	maxVehiclesPerQueue int
	lanes               *queue.System[*Vehicle]

	elapsedTime       int
	totalWaitTime     int
	vehiclesProcessed int
	tollsCollected    float64
}

func New(minActiveQueues, maxVehiclesPerQueue int) (*Highway, error) {
	if minActiveQueues <= 0 {
		return nil, errors.Wrapf(ErrInvalidConfig, "minimum active queues must be positive, got %d", minActiveQueues)
	}
	if maxVehiclesPerQueue <= 0 {
		return nil, errors.Wrapf(ErrInvalidConfig, "maximum vehicles per queue must be positive, got %d", maxVehiclesPerQueue)
	}
	return &Highway{
		minActiveQueues:     minActiveQueues,
		maxVehiclesPerQueue: maxVehiclesPerQueue,
		lanes:               queue.NewSystem[*Vehicle](minActiveQueues),
	}, nil
}

// AddVehicle puts v in the active lane with the fewest vehicles. When even
// that lane is full, the lowest indexed inactive lane is reopened for v, and
// only if there is none a new lane is created.
func (h *Highway) AddVehicle(v *Vehicle) error {
	if v == nil {
		return errors.Wrap(ErrInvalidVehicle, "nil vehicle")
	}
	if h.lanes.FocusMin() >= h.maxVehiclesPerQueue {
		idx := h.openLane()
		if err := h.lanes.Focus(idx); err != nil {
			return errors.Wrap(err, "focus opened lane")
		}
	}
	return h.lanes.Enqueue(v)
}

// openLane activates the first inactive lane, creating one at the end when
// all lanes are active, and returns its index.
func (h *Highway) openLane() int {
	for i := 0; i < h.lanes.HowManyQueues(); i++ {
		if !h.lanes.IsActivated(i) {
			h.lanes.Activate(i)
			return i
		}
	}
	h.lanes.Create()
	idx := h.lanes.HowManyQueues() - 1
	h.lanes.Activate(idx)
	return idx
}

// UpdateActiveQueues advances the clock one tick and serves the vehicle at the
// head of every active lane. Vehicles whose time runs out leave their lane and
// are accounted for.
func (h *Highway) UpdateActiveQueues() error {
	h.elapsedTime++
	for i := 0; i < h.lanes.HowManyQueues(); i++ {
		if !h.lanes.IsActivated(i) {
			continue
		}
		if err := h.lanes.Focus(i); err != nil {
			return err
		}
		empty, err := h.lanes.IsEmpty()
		if err != nil {
			return err
		}
		if empty {
			continue
		}
		v, err := h.lanes.Front()
		if err != nil {
			return err
		}
		v.DecreaseOneTimeUnit()
		if v.TimeLeft() > 0 {
			continue
		}
		if err := h.lanes.Dequeue(); err != nil {
			return err
		}
		h.totalWaitTime += h.elapsedTime - v.Arrival() - v.Duration() + 1
		h.tollsCollected += v.Toll()
		h.vehiclesProcessed++
	}
	return nil
}

// UpdateNumberActiveQueues closes the least occupied lane when more than one
// active lane is empty and the minimum number of active lanes is kept.
func (h *Highway) UpdateNumberActiveQueues() error {
	emptyLanes := 0
	for i := 0; i < h.lanes.HowManyQueues(); i++ {
		if h.lanes.IsActivated(i) && h.lanes.QueueSize(i) == 0 {
			emptyLanes++
		}
	}
	if emptyLanes <= 1 || h.lanes.HowManyActiveQueues() <= h.minActiveQueues {
		return nil
	}
	h.lanes.FocusMin()
	empty, err := h.lanes.IsEmpty()
	if err != nil || !empty {
		return err
	}
	return h.lanes.Deactivate(h.lanes.Current())
}

// TotalNrVehicles counts the vehicles in all lanes, including those being served.
func (h *Highway) TotalNrVehicles() int { return h.lanes.Size() }

func (h *Highway) NrActiveQueues() int { return h.lanes.HowManyActiveQueues() }

func (h *Highway) NrQueues() int { return h.lanes.HowManyQueues() }

func (h *Highway) AverageVehiclesPerQueue() float64 {
	return float64(h.TotalNrVehicles()) / float64(h.NrActiveQueues())
}

// AverageWaitingTime is the mean wait of processed vehicles. ok is false
// while no vehicle has been processed.
func (h *Highway) AverageWaitingTime() (avg float64, ok bool) {
	if h.vehiclesProcessed == 0 {
		return 0, false
	}
	return float64(h.totalWaitTime) / float64(h.vehiclesProcessed), true
}

func (h *Highway) TotalTolls() float64 { return h.tollsCollected }

// AverageTolls is the mean toll per processed vehicle. ok is false while no
// vehicle has been processed.
func (h *Highway) AverageTolls() (avg float64, ok bool) {
	if h.vehiclesProcessed == 0 {
		return 0, false
	}
	return h.tollsCollected / float64(h.vehiclesProcessed), true
}

func (h *Highway) ElapsedTime() int { return h.elapsedTime }

func (h *Highway) TotalWaitTime() int { return h.totalWaitTime }

func (h *Highway) VehiclesProcessed() int { return h.vehiclesProcessed }

func (h *Highway) MinActiveQueues() int { return h.minActiveQueues }

func (h *Highway) MaxVehiclesPerQueue() int { return h.maxVehiclesPerQueue }

// LaneSizes returns the number of vehicles per lane and whether each lane is
// active, indexed by lane.
func (h *Highway) LaneSizes() (sizes []int, active []bool) {
	n := h.lanes.HowManyQueues()
	sizes = make([]int, n)
	active = make([]bool, n)
	for i := 0; i < n; i++ {
		sizes[i] = h.lanes.QueueSize(i)
		active[i] = h.lanes.IsActivated(i)
	}
	return sizes, active
}

func (h *Highway) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Minimum number of activated queues %d\n", h.minActiveQueues)
	fmt.Fprintf(&b, "Maximum number of vehicles per queue %d\n", h.maxVehiclesPerQueue)
	b.WriteString(h.lanes.String())
	fmt.Fprintf(&b, "Elapsed time %d\n", h.elapsedTime)
	fmt.Fprintf(&b, "Total waiting time %d\n", h.totalWaitTime)
	fmt.Fprintf(&b, "Number of vehicles processed %d\n", h.vehiclesProcessed)
	fmt.Fprintf(&b, "Total tolls collected %.2f\n", h.tollsCollected)
	return b.String()
}
