package tollapi

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const shutdownTimeout = 10 * time.Second

// Serve runs e on address until ctx is cancelled, then drains in-flight
// requests.
func Serve(ctx context.Context, e *echo.Echo, address string, logger *logrus.Logger) error {
	srvError := make(chan error, 1)
	go func() {
		srvError <- e.Start(address)
	}()
	logger.WithField("addr", address).Info("toll service listening")

	select {
	case <-ctx.Done():
		logger.Info("toll service is shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(sctx)
	case err := <-srvError:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "toll service")
	}
}
