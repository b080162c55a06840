package highway

// Stats is a point-in-time summary of a Highway. The averages over processed
// vehicles are nil until the first vehicle leaves.
type Stats struct {
	ElapsedTime             int      `json:"elapsedTime"`
	MinActiveQueues         int      `json:"minActiveQueues"`
	MaxVehiclesPerQueue     int      `json:"maxVehiclesPerQueue"`
	Queues                  int      `json:"queues"`
	ActiveQueues            int      `json:"activeQueues"`
	Vehicles                int      `json:"vehicles"`
	VehiclesProcessed       int      `json:"vehiclesProcessed"`
	TotalWaitTime           int      `json:"totalWaitTime"`
	TotalTolls              float64  `json:"totalTolls"`
	AverageVehiclesPerQueue float64  `json:"averageVehiclesPerQueue"`
	AverageWaitingTime      *float64 `json:"averageWaitingTime,omitempty"`
	AverageTolls            *float64 `json:"averageTolls,omitempty"`
}

func (h *Highway) Stats() Stats {
	st := Stats{
		ElapsedTime:             h.elapsedTime,
		MinActiveQueues:         h.minActiveQueues,
		MaxVehiclesPerQueue:     h.maxVehiclesPerQueue,
		Queues:                  h.NrQueues(),
		ActiveQueues:            h.NrActiveQueues(),
		Vehicles:                h.TotalNrVehicles(),
		VehiclesProcessed:       h.vehiclesProcessed,
		TotalWaitTime:           h.totalWaitTime,
		TotalTolls:              h.tollsCollected,
		AverageVehiclesPerQueue: h.AverageVehiclesPerQueue(),
	}
	if avg, ok := h.AverageWaitingTime(); ok {
		st.AverageWaitingTime = &avg
	}
	if avg, ok := h.AverageTolls(); ok {
		st.AverageTolls = &avg
	}
	return st
}
