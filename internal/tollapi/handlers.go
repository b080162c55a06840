package tollapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"highway-tolls/internal/config"
	"highway-tolls/internal/highway"
	"highway-tolls/internal/metrics"
	"highway-tolls/internal/queue"
)

// ErrArrivalOutOfOrder rejects a vehicle whose arrival is not the tick the
// highway is about to run.
var ErrArrivalOutOfOrder = errors.New("arrival does not match the next tick")

type CreateHighwayRequest struct {
	MinActiveQueues     int `json:"minActiveQueues"`
	MaxVehiclesPerQueue int `json:"maxVehiclesPerQueue"`
}

type CreateHighwayResponse struct {
	ID string `json:"id"`
}

type AddVehicleRequest struct {
	Arrival  int     `json:"arrival"`
	Duration int     `json:"duration"`
	Toll     float64 `json:"toll"`
}

type ListHighwaysResponse struct {
	IDs []string `json:"ids"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type Handler struct {
	Highways *Registry
	Defaults config.Highway
	Metrics  *metrics.Collector
	Logger   *logrus.Logger
}

func NewHandler(defaults config.Highway, m *metrics.Collector, logger *logrus.Logger) *Handler {
	return &Handler{
		Highways: NewRegistry(),
		Defaults: defaults,
		Metrics:  m,
		Logger:   logger,
	}
}

func (h *Handler) CreateHighway(c echo.Context) error {
	var req CreateHighwayRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{"invalid request body"})
	}
	if req.MinActiveQueues == 0 {
		req.MinActiveQueues = h.Defaults.MinActiveQueues
	}
	if req.MaxVehiclesPerQueue == 0 {
		req.MaxVehiclesPerQueue = h.Defaults.MaxVehiclesPerQueue
	}
	id, err := h.Highways.Create(req.MinActiveQueues, req.MaxVehiclesPerQueue)
	if err != nil {
		return h.fail(c, err)
	}
	h.Logger.WithFields(logrus.Fields{
		"highway":             id,
		"minActiveQueues":     req.MinActiveQueues,
		"maxVehiclesPerQueue": req.MaxVehiclesPerQueue,
	}).Info("highway created")
	h.observe(id)
	return c.JSON(http.StatusCreated, CreateHighwayResponse{ID: id})
}

func (h *Handler) ListHighways(c echo.Context) error {
	return c.JSON(http.StatusOK, ListHighwaysResponse{IDs: h.Highways.IDs()})
}

func (h *Handler) GetHighway(c echo.Context) error {
	var st highway.Stats
	err := h.Highways.With(c.Param("id"), func(hw *highway.Highway) error {
		st = hw.Stats()
		return nil
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, st)
}

func (h *Handler) AddVehicle(c echo.Context) error {
	var req AddVehicleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{"invalid request body"})
	}
	v, err := highway.NewVehicle(req.Arrival, req.Duration, req.Toll)
	if err != nil {
		return h.fail(c, err)
	}
	id := c.Param("id")
	err = h.Highways.With(id, func(hw *highway.Highway) error {
		if next := hw.ElapsedTime() + 1; v.Arrival() != next {
			return errors.Wrapf(ErrArrivalOutOfOrder, "arrival %d, next tick %d", v.Arrival(), next)
		}
		if err := hw.AddVehicle(v); err != nil {
			return err
		}
		h.Metrics.Observe(id, hw.Stats())
		return nil
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.NoContent(http.StatusAccepted)
}

// Tick serves every active lane once and then lets the highway close a
// surplus empty lane.
func (h *Handler) Tick(c echo.Context) error {
	id := c.Param("id")
	var st highway.Stats
	err := h.Highways.With(id, func(hw *highway.Highway) error {
		if err := hw.UpdateActiveQueues(); err != nil {
			return err
		}
		if err := hw.UpdateNumberActiveQueues(); err != nil {
			return err
		}
		st = hw.Stats()
		h.Metrics.Observe(id, st)
		return nil
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, st)
}

func (h *Handler) DeleteHighway(c echo.Context) error {
	id := c.Param("id")
	if !h.Highways.Delete(id) {
		return c.JSON(http.StatusNotFound, ErrorResponse{"highway not found"})
	}
	h.Metrics.Forget(id)
	h.Metrics.SetHighways(h.Highways.Len())
	h.Logger.WithField("highway", id).Info("highway deleted")
	return c.NoContent(http.StatusNoContent)
}

// observe publishes a freshly created highway. A concurrent DELETE may have
// removed it already.
func (h *Handler) observe(id string) {
	h.Metrics.SetHighways(h.Highways.Len())
	err := h.Highways.With(id, func(hw *highway.Highway) error {
		h.Metrics.Observe(id, hw.Stats())
		return nil
	})
	if err != nil {
		h.Logger.WithError(err).WithField("highway", id).Warn("highway gone before its metrics were published")
	}
}

func (h *Handler) fail(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrHighwayNotFound):
		status = http.StatusNotFound
	case errors.Is(err, highway.ErrInvalidVehicle), errors.Is(err, highway.ErrInvalidConfig):
		status = http.StatusBadRequest
	case errors.Is(err, queue.ErrInvalidQueueOperation), errors.Is(err, ErrArrivalOutOfOrder):
		status = http.StatusConflict
	}
	if status >= http.StatusInternalServerError || errors.Is(err, queue.ErrInvalidQueueOperation) {
		h.Logger.WithError(err).WithField("path", c.Path()).Error("highway request failed")
	}
	return c.JSON(status, ErrorResponse{err.Error()})
}
