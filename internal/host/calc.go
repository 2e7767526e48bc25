package host

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Operands is the input of add2.
type Operands struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

var errBadInput = errors.New("bad input")

// RegisterCalculator binds the calculator demo functions:
//
//	add(x, y)   two numeric strings, answers the sum as a bare string
//	add2({x,y}) JSON input, answers Envelope<number>
func RegisterCalculator(r *Registry) {
	r.Bind("add", add)
	BindEnvelope(r, "add2", add2)
}

func add(_ context.Context, args []json.RawMessage) (string, error) {
	if len(args) != 2 {
		return "", fmt.Errorf("%w: add expects 2 arguments, got %d", ErrBadArguments, len(args))
	}

	var xy [2]float64
	for i := range xy {
		s, err := StringArg(args, i)
		if err != nil {
			return "", err
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return "", fmt.Errorf("%w: argument %d: %q is not a number", ErrBadArguments, i, s)
		}
		xy[i] = v
	}
	return FormatNumber(xy[0] + xy[1]), nil
}

func add2(_ context.Context, in Operands) (float64, error) {
	sum := in.X + in.Y
	if math.IsNaN(sum) || math.IsInf(sum, 0) {
		return 0, errBadInput
	}
	return sum, nil
}

// FormatNumber renders f the shortest way that round-trips: 5 -> "5",
// 2.5 -> "2.5".
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
