package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"highway-tolls/internal/highway"
)

func TestCollector_ObserveAndForget(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector()
	require.NoError(t, c.Register(reg))

	c.SetHighways(1)
	c.Observe("h1", highway.Stats{ActiveQueues: 3, Queues: 4, Vehicles: 5, VehiclesProcessed: 6, TotalTolls: 7.5, ElapsedTime: 8})

	want := `
# HELP highway_active_queues Number of active toll lanes.
# TYPE highway_active_queues gauge
highway_active_queues{highway="h1"} 3
# HELP highway_tolls_collected Sum of the tolls of processed vehicles.
# TYPE highway_tolls_collected gauge
highway_tolls_collected{highway="h1"} 7.5
# HELP highway_highways Number of highways being simulated.
# TYPE highway_highways gauge
highway_highways 1
`
	err := testutil.GatherAndCompare(reg, strings.NewReader(want),
		"highway_active_queues", "highway_tolls_collected", "highway_highways")
	assert.NoError(t, err)
	assert.Equal(t, 5.0, testutil.ToFloat64(c.vehicles.WithLabelValues("h1")))

	c.Forget("h1")
	assert.Equal(t, 0, testutil.CollectAndCount(c.activeQueues))
}

func TestCollector_RegisterTwiceFails(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, NewCollector().Register(reg))
	assert.Error(t, NewCollector().Register(reg))
}
