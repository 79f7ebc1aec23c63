// Package vanilla implements the `pricecli vanilla` subcommand: price
// and Greeks for a European or American vanilla option under BSM.
package vanilla

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

// Input defines the JSON input schema for a vanilla pricing request.
//
// Conventions: Rate/Div/Vol are annualized decimals (0.02 means 2%).
type Input struct {
	ValuationDate string `json:"valuation_date"` // "2026-01-01"
	MaturityDate  string `json:"maturity_date"`
	DayCount      string `json:"day_count"` // defaults to ACT/365F

	Spot float64 `json:"spot"`
	Rate float64 `json:"rate"`
	Div  float64 `json:"div"`
	Vol  float64 `json:"vol"`

	Strike   float64 `json:"strike"`
	CallPut  string  `json:"call_put"` // "CALL" | "PUT"
	American bool    `json:"american"`
	// AmericanMethod selects "BAW" or "BS2002"; defaults to BS2002.
	AmericanMethod string `json:"american_method"`
}

// Output carries the PV and the five standard Greeks.
type Output struct {
	PV    float64 `json:"pv"`
	Delta float64 `json:"delta"`
	Gamma float64 `json:"gamma"`
	Vega  float64 `json:"vega"`
	Theta float64 `json:"theta"`
	Rho   float64 `json:"rho"`
	Error string  `json:"error,omitempty"`
}

func Run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("vanilla", flag.ContinueOnError)
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
	fmt.Fprintln(w, "  pricecli vanilla < input.json")
	fmt.Fprintln(w, "  pricecli vanilla -input /path/to/input.json")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Read JSON input, price a European/American vanilla via BSM, output JSON PV+Greeks to stdout.")
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
	if input.Spot <= 0 {
		return nil, fmt.Errorf("spot must be positive")
	}
	if input.Vol < 0 {
		return nil, fmt.Errorf("vol must be non-negative")
	}

	cp, err := callPutFromString(input.CallPut)
	if err != nil {
		return nil, err
	}

	dayCount := strings.TrimSpace(input.DayCount)
	if dayCount == "" {
		dayCount = "ACT/365F"
	}

	base := product.Base{Start: valuationDate, End: maturityDate, DayCount: dayCount}
	var v product.Vanilla
	if input.American {
		method := strings.TrimSpace(input.AmericanMethod)
		if method == "" {
			method = "BS2002"
		}
		v = product.NewAmericanVanilla(base, input.Strike, cp, method)
	} else {
		v = product.NewEuropeanVanilla(base, input.Strike, cp)
	}

	proc := process.NewProcess(
		process.NewQuote(input.Spot, "SPOT"),
		process.NewConstantRate(input.Rate),
		process.NewConstantRate(input.Div),
		process.NewConstantVol(input.Vol),
	)

	eng := analytic.VanillaEngine{}
	pv, err := eng.Price(proc, v, proc.Spot())
	if err != nil {
		return nil, fmt.Errorf("failed to price vanilla: %v", err)
	}
	delta, err := eng.Delta(proc, v, proc.Spot())
	if err != nil {
		return nil, fmt.Errorf("failed to compute delta: %v", err)
	}

	gamma, err := bumpGamma(proc, v, eng)
	if err != nil {
		return nil, err
	}
	vega, err := bumpVega(proc, v, eng)
	if err != nil {
		return nil, err
	}
	rho, err := bumpRho(proc, v, eng)
	if err != nil {
		return nil, err
	}
	theta, err := bumpTheta(proc, v, eng)
	if err != nil {
		return nil, err
	}

	return &Output{PV: pv, Delta: delta, Gamma: gamma, Vega: vega, Theta: theta, Rho: rho}, nil
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

func bumpGamma(proc *process.Process, v product.Vanilla, eng analytic.VanillaEngine) (float64, error) {
	spot := proc.Spot()
	h := spot * 0.01
	base, err := eng.Price(proc, v, spot)
	if err != nil {
		return 0, err
	}
	up, err := eng.Price(proc, v, spot+h)
	if err != nil {
		return 0, err
	}
	down, err := eng.Price(proc, v, spot-h)
	if err != nil {
		return 0, err
	}
	return (up - 2*base + down) / (h * h), nil
}

func bumpVega(proc *process.Process, v product.Vanilla, eng analytic.VanillaEngine) (float64, error) {
	cv, ok := proc.VolModel().(*process.ConstantVol)
	if !ok {
		return 0, fmt.Errorf("vega requires a ConstantVol process")
	}
	restore := cv.Bump(0.01)
	up, err := eng.Price(proc, v, proc.Spot())
	restore()
	if err != nil {
		return 0, err
	}
	restore = cv.Bump(-0.01)
	down, err := eng.Price(proc, v, proc.Spot())
	restore()
	if err != nil {
		return 0, err
	}
	return (up - down) / 0.02, nil
}

func bumpRho(proc *process.Process, v product.Vanilla, eng analytic.VanillaEngine) (float64, error) {
	restoreUp := proc.RateCurve().Bump(0.0001)
	up, err := eng.Price(proc, v, proc.Spot())
	restoreUp()
	if err != nil {
		return 0, err
	}
	restoreDown := proc.RateCurve().Bump(-0.0001)
	down, err := eng.Price(proc, v, proc.Spot())
	restoreDown()
	if err != nil {
		return 0, err
	}
	return (up - down) / 0.0002, nil
}

// bumpTheta advances the valuation date by one calendar day (shrinking
// maturity) and reprices, matching engine/mc and engine/pde's theta
// convention: (V(τ-Δ) - V(τ)) / Δ.
func bumpTheta(proc *process.Process, v product.Vanilla, eng analytic.VanillaEngine) (float64, error) {
	base, err := eng.Price(proc, v, proc.Spot())
	if err != nil {
		return 0, err
	}
	shifted := v
	shifted.Base.Start = v.Base.Start.AddDate(0, 0, 1)
	if shifted.Maturity() <= 0 {
		return 0, nil
	}
	shiftedPV, err := eng.Price(proc, shifted, proc.Spot())
	if err != nil {
		return 0, err
	}
	elapsed := v.Maturity() - shifted.Maturity()
	return (shiftedPV - base) / elapsed, nil
}
