package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"highway-tolls/internal/highway"
)

const (
	namespace    = "highway"
	highwayLabel = "highway"
)

// Collector exports the Stats of every highway as gauges labelled by id.
type Collector struct {
	activeQueues      *prometheus.GaugeVec
	queues            *prometheus.GaugeVec
	vehicles          *prometheus.GaugeVec
	vehiclesProcessed *prometheus.GaugeVec
	tollsCollected    *prometheus.GaugeVec
	elapsedTicks      *prometheus.GaugeVec
	highways          prometheus.Gauge
}

func NewCollector() *Collector {
	gauge := func(name, help string) *prometheus.GaugeVec {
		return prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		}, []string{highwayLabel})
	}
	return &Collector{
		activeQueues:      gauge("active_queues", "Number of active toll lanes."),
		queues:            gauge("queues", "Number of toll lanes, active or not."),
		vehicles:          gauge("vehicles", "Vehicles currently waiting or being served."),
		vehiclesProcessed: gauge("vehicles_processed", "Vehicles whose toll has been processed."),
		tollsCollected:    gauge("tolls_collected", "Sum of the tolls of processed vehicles."),
		elapsedTicks:      gauge("elapsed_ticks", "Simulated ticks elapsed."),
		highways: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "highways",
			Help:      "Number of highways being simulated.",
		}),
	}
}

// Register adds all metrics to reg.
func (c *Collector) Register(reg prometheus.Registerer) error {
	for _, m := range []prometheus.Collector{
		c.activeQueues, c.queues, c.vehicles, c.vehiclesProcessed, c.tollsCollected, c.elapsedTicks, c.highways,
	} {
		if err := reg.Register(m); err != nil {
			return err
		}
	}
	return nil
}

// Observe records the state of highway id.
func (c *Collector) Observe(id string, st highway.Stats) {
	c.activeQueues.WithLabelValues(id).Set(float64(st.ActiveQueues))
	c.queues.WithLabelValues(id).Set(float64(st.Queues))
	c.vehicles.WithLabelValues(id).Set(float64(st.Vehicles))
	c.vehiclesProcessed.WithLabelValues(id).Set(float64(st.VehiclesProcessed))
	c.tollsCollected.WithLabelValues(id).Set(st.TotalTolls)
	c.elapsedTicks.WithLabelValues(id).Set(float64(st.ElapsedTime))
}

// Forget drops every series of highway id.
func (c *Collector) Forget(id string) {
	for _, v := range []*prometheus.GaugeVec{
		c.activeQueues, c.queues, c.vehicles, c.vehiclesProcessed, c.tollsCollected, c.elapsedTicks,
	} {
		v.DeleteLabelValues(id)
	}
}

func (c *Collector) SetHighways(n int) { c.highways.Set(float64(n)) }
