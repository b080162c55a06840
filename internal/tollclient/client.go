package tollclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"highway-tolls/internal/highway"
	"highway-tolls/internal/simulation"
)

// Client talks to the toll service for a single highway. Create sets
// HighwayID; the other calls need it.
type Client struct {
	BaseURL    string
	HighwayID  string
	HttpClient *http.Client
	Logger     *logrus.Logger
}

func New(baseURL string, timeout time.Duration, logger *logrus.Logger) *Client {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Client{
		BaseURL:    baseURL,
		HttpClient: &http.Client{Timeout: timeout},
		Logger:     logger,
	}
}

type createRequest struct {
	MinActiveQueues     int `json:"minActiveQueues,omitempty"`
	MaxVehiclesPerQueue int `json:"maxVehiclesPerQueue,omitempty"`
}

type createResponse struct {
	ID string `json:"id"`
}

type vehicleRequest struct {
	Arrival  int     `json:"arrival"`
	Duration int     `json:"duration"`
	Toll     float64 `json:"toll"`
}

// Create asks the service for a new highway; zero parameters take the service
// defaults.
func (c *Client) Create(ctx context.Context, minActiveQueues, maxVehiclesPerQueue int) (string, error) {
	var resp createResponse
	err := c.do(ctx, http.MethodPost, "/highways", createRequest{minActiveQueues, maxVehiclesPerQueue}, http.StatusCreated, &resp)
	if err != nil {
		return "", errors.Wrap(err, "create highway")
	}
	c.HighwayID = resp.ID
	return resp.ID, nil
}

func (c *Client) AddVehicle(ctx context.Context, a simulation.Arrival) error {
	body := vehicleRequest{Arrival: a.Tick, Duration: a.Duration, Toll: a.Toll}
	return errors.Wrap(c.do(ctx, http.MethodPost, c.highwayPath("/vehicles"), body, http.StatusAccepted, nil), "add vehicle")
}

// Tick advances the remote highway one tick and returns its state afterwards.
func (c *Client) Tick(ctx context.Context) (highway.Stats, error) {
	var st highway.Stats
	err := c.do(ctx, http.MethodPost, c.highwayPath("/ticks"), nil, http.StatusOK, &st)
	return st, errors.Wrap(err, "tick")
}

func (c *Client) Stats(ctx context.Context) (highway.Stats, error) {
	var st highway.Stats
	err := c.do(ctx, http.MethodGet, c.highwayPath(""), nil, http.StatusOK, &st)
	return st, errors.Wrap(err, "stats")
}

func (c *Client) Delete(ctx context.Context) error {
	return errors.Wrap(c.do(ctx, http.MethodDelete, c.highwayPath(""), nil, http.StatusNoContent, nil), "delete highway")
}

// Replay creates a highway for sc and drives it tick by tick: every arrival of
// the tick, then one tick call. onTick, if set, sees the state after each tick.
func (c *Client) Replay(ctx context.Context, sc *simulation.Scenario, onTick func(tick int, st highway.Stats)) (highway.Stats, error) {
	if _, err := c.Create(ctx, sc.MinActiveQueues, sc.MaxVehiclesPerQueue); err != nil {
		return highway.Stats{}, err
	}
	c.Logger.WithFields(logrus.Fields{"highway": c.HighwayID, "ticks": sc.Ticks, "arrivals": len(sc.Arrivals)}).Info("replay started")

	var st highway.Stats
	next := 0
	for clock := 1; clock <= sc.Ticks; clock++ {
		select {
		case <-ctx.Done():
			return st, ctx.Err()
		default:
		}
		for next < len(sc.Arrivals) && sc.Arrivals[next].Tick <= clock {
			a := sc.Arrivals[next]
			next++
			if a.Tick < clock {
				continue
			}
			if err := c.AddVehicle(ctx, a); err != nil {
				return st, errors.Wrapf(err, "tick %d", clock)
			}
		}
		var err error
		if st, err = c.Tick(ctx); err != nil {
			return st, errors.Wrapf(err, "tick %d", clock)
		}
		if onTick != nil {
			onTick(clock, st)
		}
	}
	c.Logger.WithFields(logrus.Fields{
		"highway":   c.HighwayID,
		"processed": st.VehiclesProcessed,
		"tolls":     st.TotalTolls,
	}).Info("replay finished")
	return st, nil
}

func (c *Client) highwayPath(suffix string) string {
	return "/highways/" + c.HighwayID + suffix
}

func (c *Client) do(ctx context.Context, method, path string, in any, wantStatus int, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.HttpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus {
		b, _ := io.ReadAll(resp.Body)
		return errors.Errorf("%s %s failed: %s: %s", method, path, resp.Status, bytes.TrimSpace(b))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "decode %s %s response", method, path)
	}
	return nil
}
