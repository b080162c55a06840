package simulation

import (
	"bufio"
	"io"
	"strconv"

	"github.com/pkg/errors"

	"highway-tolls/internal/highway"
)

var ErrMalformedInput = errors.New("malformed simulation input")

// Arrival is one row of an arrival table.
type Arrival struct {
	Tick     int
	Duration int
	Toll     float64
}

func (a Arrival) Vehicle() (*highway.Vehicle, error) {
	return highway.NewVehicle(a.Tick, a.Duration, a.Toll)
}

// Scenario is a complete simulation input: highway parameters, how many ticks
// to run and the arrivals sorted by tick.
type Scenario struct {
	MinActiveQueues     int
	MaxVehiclesPerQueue int
	Ticks               int
	Arrivals            []Arrival
}

// ReadScenario parses whitespace separated input of the form
//
//	minActiveQueues maxVehiclesPerQueue ticks
//	arrival duration toll
//	...
func ReadScenario(r io.Reader) (*Scenario, error) {
	tk := newTokenizer(r)
	var sc Scenario
	for _, dst := range []struct {
		name string
		ptr  *int
	}{
		{"minimum active queues", &sc.MinActiveQueues},
		{"maximum vehicles per queue", &sc.MaxVehiclesPerQueue},
		{"simulation ticks", &sc.Ticks},
	} {
		n, err := tk.nextInt(dst.name)
		if err != nil {
			return nil, err
		}
		if n <= 0 {
			return nil, errors.Wrapf(ErrMalformedInput, "%s must be positive, got %d", dst.name, n)
		}
		*dst.ptr = n
	}
	arrivals, err := readArrivals(tk)
	if err != nil {
		return nil, err
	}
	sc.Arrivals = arrivals
	return &sc, nil
}

// ReadArrivals parses a bare table of "arrival duration toll" triples.
func ReadArrivals(r io.Reader) ([]Arrival, error) {
	return readArrivals(newTokenizer(r))
}

func readArrivals(tk *tokenizer) ([]Arrival, error) {
	var out []Arrival
	for row := 1; ; row++ {
		if !tk.more() {
			return out, tk.err()
		}
		var a Arrival
		var err error
		if a.Tick, err = tk.nextInt("arrival tick"); err != nil {
			return nil, errors.Wrapf(err, "arrival %d", row)
		}
		if a.Duration, err = tk.nextInt("duration"); err != nil {
			return nil, errors.Wrapf(err, "arrival %d", row)
		}
		if a.Toll, err = tk.nextFloat("toll"); err != nil {
			return nil, errors.Wrapf(err, "arrival %d", row)
		}
		if _, err := a.Vehicle(); err != nil {
			return nil, errors.Wrapf(ErrMalformedInput, "arrival %d: %v", row, err)
		}
		if n := len(out); n > 0 && a.Tick < out[n-1].Tick {
			return nil, errors.Wrapf(ErrMalformedInput, "arrival %d: tick %d before previous tick %d", row, a.Tick, out[n-1].Tick)
		}
		out = append(out, a)
	}
}

type tokenizer struct {
	sc      *bufio.Scanner
	peeked  bool
	hasNext bool
}

func newTokenizer(r io.Reader) *tokenizer {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)
	return &tokenizer{sc: sc}
}

func (t *tokenizer) more() bool {
	if !t.peeked {
		t.hasNext = t.sc.Scan()
		t.peeked = true
	}
	return t.hasNext
}

func (t *tokenizer) token(what string) (string, error) {
	if !t.more() {
		if err := t.err(); err != nil {
			return "", err
		}
		return "", errors.Wrapf(ErrMalformedInput, "unexpected end of input, want %s", what)
	}
	t.peeked = false
	return t.sc.Text(), nil
}

func (t *tokenizer) err() error {
	if err := t.sc.Err(); err != nil {
		return errors.Wrap(err, "read simulation input")
	}
	return nil
}

func (t *tokenizer) nextInt(what string) (int, error) {
	s, err := t.token(what)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.Wrapf(ErrMalformedInput, "%s: %q is not an integer", what, s)
	}
	return n, nil
}

func (t *tokenizer) nextFloat(what string) (float64, error) {
	s, err := t.token(what)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.Wrapf(ErrMalformedInput, "%s: %q is not a number", what, s)
	}
	return f, nil
}
