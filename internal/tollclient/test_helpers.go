package tollclient

import (
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

type errorRoundTripper struct{ err error }

func (e errorRoundTripper) RoundTrip(*http.Request) (*http.Response, error) { return nil, e.err }

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newHTTPTestClient(tsURL string, rtErr error) *Client {
	c := New(tsURL, time.Second, quietLogger())
	c.HighwayID = "hw"
	if rtErr != nil {
		c.HttpClient = &http.Client{Transport: errorRoundTripper{err: rtErr}}
	}
	return c
}
