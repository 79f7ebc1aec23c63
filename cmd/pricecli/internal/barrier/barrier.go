// Package barrier implements the `pricecli barrier` subcommand: price
// and Greeks for a single-barrier option via the Reiner-Rubinstein
// closed form (with the Broadie-Glasserman-Kou discrete-observation
// shift applied when observation_interval is set).
package barrier

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/meenmo/pricelib/engine/analytic"
	"github.com/meenmo/pricelib/process"
	"github.com/meenmo/pricelib/product"
)

// Input defines the JSON input schema for a barrier pricing request.
type Input struct {
	ValuationDate string `json:"valuation_date"`
	MaturityDate  string `json:"maturity_date"`
	DayCount      string `json:"day_count"`

	Spot float64 `json:"spot"`
	Rate float64 `json:"rate"`
	Div  float64 `json:"div"`
	Vol  float64 `json:"vol"`

	Strike              float64 `json:"strike"`
	Level               float64 `json:"level"`
	CallPut             string  `json:"call_put"`
	BarrierType         string  `json:"barrier_type"` // "UP_OUT" | "DOWN_OUT" | "UP_IN" | "DOWN_IN"
	Rebate              float64 `json:"rebate"`
	RebateAtHit         bool    `json:"rebate_at_hit"`
	ObservationInterval float64 `json:"observation_interval"` // year-fraction; 0 = continuous
}

// Output carries the PV and its Delta, Vega and Rho.
type Output struct {
	PV    float64 `json:"pv"`
	Delta float64 `json:"delta"`
	Vega  float64 `json:"vega"`
	Rho   float64 `json:"rho"`
	Error string  `json:"error,omitempty"`
}

func Run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("barrier", flag.ContinueOnError)
	fs.SetOutput(stderr)
	inputPath := fs.String("input", "", "JSON input path (optional; if set, ignores stdin)")
	help := fs.Bool("h", false, "Show help")
	fs.BoolVar(help, "help", false, "Show help")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *help {
		usage(stderr)
		return 0
	}

	path := strings.TrimSpace(*inputPath)
	if path == "" {
		if f, ok := stdin.(*os.File); ok {
			if stat, err := f.Stat(); err == nil && (stat.Mode()&os.ModeCharDevice) != 0 {
				usage(stderr)
				return 2
			}
		}
	}

	inputBytes, err := readInput(stdin, path)
	if err != nil {
		return writeError(stdout, fmt.Sprintf("failed to read input: %v", err))
	}

	var input Input
	if err := json.Unmarshal(inputBytes, &input); err != nil {
		return writeError(stdout, fmt.Sprintf("failed to parse JSON input: %v", err))
	}

	output, err := price(input)
	if err != nil {
		return writeError(stdout, err.Error())
	}

	outputBytes, _ := json.Marshal(output)
	fmt.Fprintln(stdout, string(outputBytes))
	return 0
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  pricecli barrier < input.json")
	fmt.Fprintln(w, "  pricecli barrier -input /path/to/input.json")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Read JSON input, price a single-barrier option via Reiner-Rubinstein, output JSON PV+Greeks to stdout.")
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path != "" {
		return os.ReadFile(path)
	}
	return io.ReadAll(stdin)
}

func writeError(stdout io.Writer, msg string) int {
	outputBytes, _ := json.Marshal(Output{Error: msg})
	fmt.Fprintln(stdout, string(outputBytes))
	return 1
}

func price(input Input) (*Output, error) {
	valuationDate, err := time.Parse("2006-01-02", input.ValuationDate)
	if err != nil {
		return nil, fmt.Errorf("invalid valuation_date: %v", err)
	}
	maturityDate, err := time.Parse("2006-01-02", input.MaturityDate)
	if err != nil {
		return nil, fmt.Errorf("invalid maturity_date: %v", err)
	}
	if input.Spot <= 0 || input.Level <= 0 {
		return nil, fmt.Errorf("spot and level must be positive")
	}

	cp, err := callPutFromString(input.CallPut)
	if err != nil {
		return nil, err
	}
	bt, err := barrierTypeFromString(input.BarrierType)
	if err != nil {
		return nil, err
	}

	dayCount := strings.TrimSpace(input.DayCount)
	if dayCount == "" {
		dayCount = "ACT/365F"
	}

	base := product.Base{Start: valuationDate, End: maturityDate, DayCount: dayCount}
	b := product.NewBarrier(base, input.Strike, input.Level, cp, bt, input.Rebate, input.RebateAtHit)
	b.ObservationInterval = input.ObservationInterval

	proc := process.NewProcess(
		process.NewQuote(input.Spot, "SPOT"),
		process.NewConstantRate(input.Rate),
		process.NewConstantRate(input.Div),
		process.NewConstantVol(input.Vol),
	)

	eng := analytic.BarrierEngine{}
	pv, err := eng.Price(proc, b, proc.Spot())
	if err != nil {
		return nil, fmt.Errorf("failed to price barrier: %v", err)
	}

	delta, err := bumpDelta(proc, b, eng)
	if err != nil {
		return nil, err
	}
	vega, err := bumpVega(proc, b, eng)
	if err != nil {
		return nil, err
	}
	rho, err := bumpRho(proc, b, eng)
	if err != nil {
		return nil, err
	}

	return &Output{PV: pv, Delta: delta, Vega: vega, Rho: rho}, nil
}

func callPutFromString(value string) (product.CallPut, error) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "CALL", "C":
		return product.Call, nil
	case "PUT", "P":
		return product.Put, nil
	default:
		return 0, fmt.Errorf("invalid call_put %q (use CALL or PUT)", value)
	}
}

func barrierTypeFromString(value string) (product.BarrierType, error) {
	switch strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(value), "-", "_")) {
	case "UP_OUT", "UPOUT":
		return product.UpOut, nil
	case "DOWN_OUT", "DOWNOUT":
		return product.DownOut, nil
	case "UP_IN", "UPIN":
		return product.UpIn, nil
	case "DOWN_IN", "DOWNIN":
		return product.DownIn, nil
	default:
		return 0, fmt.Errorf("invalid barrier_type %q", value)
	}
}

func bumpDelta(proc *process.Process, b product.Barrier, eng analytic.BarrierEngine) (float64, error) {
	spot := proc.Spot()
	h := spot * 0.01
	up, err := eng.Price(proc, b, spot+h)
	if err != nil {
		return 0, err
	}
	down, err := eng.Price(proc, b, spot-h)
	if err != nil {
		return 0, err
	}
	return (up - down) / (2 * h), nil
}

func bumpVega(proc *process.Process, b product.Barrier, eng analytic.BarrierEngine) (float64, error) {
	cv, ok := proc.VolModel().(*process.ConstantVol)
	if !ok {
		return 0, fmt.Errorf("vega requires a ConstantVol process")
	}
	restore := cv.Bump(0.01)
	up, err := eng.Price(proc, b, proc.Spot())
	restore()
	if err != nil {
		return 0, err
	}
	restore = cv.Bump(-0.01)
	down, err := eng.Price(proc, b, proc.Spot())
	restore()
	if err != nil {
		return 0, err
	}
	return (up - down) / 0.02, nil
}

func bumpRho(proc *process.Process, b product.Barrier, eng analytic.BarrierEngine) (float64, error) {
	restoreUp := proc.RateCurve().Bump(0.0001)
	up, err := eng.Price(proc, b, proc.Spot())
	restoreUp()
	if err != nil {
		return 0, err
	}
	restoreDown := proc.RateCurve().Bump(-0.0001)
	down, err := eng.Price(proc, b, proc.Spot())
	restoreDown()
	if err != nil {
		return 0, err
	}
	return (up - down) / 0.0002, nil
}
