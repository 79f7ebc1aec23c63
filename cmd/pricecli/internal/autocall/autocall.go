// Package autocall implements the `pricecli autocall` subcommand: price
// a snowball/phoenix/FCN/DCN autocallable via Monte Carlo.
package autocall

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/meenmo/pricelib/calendar"
	"github.com/meenmo/pricelib/engine/mc"
	"github.com/meenmo/pricelib/process"
	"github.com/meenmo/pricelib/product"
	"github.com/meenmo/pricelib/schedule"
)

// Input defines the JSON input schema for an autocallable pricing request.
type Input struct {
	ValuationDate string `json:"valuation_date"`
	MaturityDate  string `json:"maturity_date"`
	DayCount      string `json:"day_count"`

	Spot float64 `json:"spot"`
	Rate float64 `json:"rate"`
	Div  float64 `json:"div"`
	Vol  float64 `json:"vol"`

	Notional      float64   `json:"notional"`
	KOBarrier     []float64 `json:"ko_barrier"` // one level per observation, flat if shorter than schedule
	CouponBarrier float64   `json:"coupon_barrier"`
	KnockInLevel  float64   `json:"knock_in_level"`
	Coupon        float64   `json:"coupon"`
	LockTerm      int       `json:"lock_term"`
	Style         string    `json:"style"` // "SNOWBALL" | "PHOENIX" | "FCN" | "DCN"

	Freq       string `json:"obs_freq"`       // "DAILY" | "WEEKLY" | "MONTHLY" | "QUARTERLY" | "ANNUALLY"
	StepCount  int    `json:"obs_step_count"` // e.g. 1 with MONTHLY => every month
	Calendar   string `json:"calendar"`       // "TARGET" | "JPN" | "FED" | "GOVT" | "KOR" | "NONE"
	Convention string `json:"convention"`     // "UNADJUSTED" | "FOLLOWING" | "PRECEDING" | "MODIFIED_FOLLOWING"

	NPaths       int    `json:"n_paths"`
	Seed         int64  `json:"seed"`
	RandMethod   string `json:"rand_method"` // "PSEUDO" | "SOBOL" | "HALTON"
	Antithetic   bool   `json:"antithetic"`
	StepsPerYear int    `json:"steps_per_year"`
}

// Output carries the PV, its Monte Carlo standard error, and Delta/Vega.
type Output struct {
	PV     float64 `json:"pv"`
	StdErr float64 `json:"std_err"`
	Delta  float64 `json:"delta"`
	Vega   float64 `json:"vega"`
	Error  string  `json:"error,omitempty"`
}

func Run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("autocall", flag.ContinueOnError)
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
	fmt.Fprintln(w, "  pricecli autocall < input.json")
	fmt.Fprintln(w, "  pricecli autocall -input /path/to/input.json")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Read JSON input, price a snowball/phoenix/FCN/DCN autocallable via Monte Carlo, output JSON PV+Greeks to stdout.")
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
	if len(input.KOBarrier) == 0 {
		return nil, fmt.Errorf("ko_barrier must have at least one level")
	}

	dayCount := strings.TrimSpace(input.DayCount)
	if dayCount == "" {
		dayCount = "ACT/365F"
	}
	base := product.Base{Start: valuationDate, End: maturityDate, DayCount: dayCount}

	var auto product.Autocallable
	switch strings.ToUpper(strings.TrimSpace(input.Style)) {
	case "PHOENIX":
		auto = product.NewPhoenix(base, input.Notional, input.KOBarrier, input.CouponBarrier, input.KnockInLevel, input.Coupon, input.LockTerm)
	case "FCN":
		auto = product.NewFCN(base, input.Notional, input.KOBarrier, input.KnockInLevel, input.Coupon, input.LockTerm)
	case "DCN":
		auto = product.NewDCN(base, input.Notional, input.KOBarrier, input.CouponBarrier, input.KnockInLevel, input.Coupon, input.LockTerm)
	case "SNOWBALL", "":
		auto = product.NewSnowball(base, input.Notional, input.KOBarrier, input.KnockInLevel, input.Coupon, input.LockTerm)
	default:
		return nil, fmt.Errorf("invalid style %q (use SNOWBALL, PHOENIX, FCN, or DCN)", input.Style)
	}

	proc := process.NewProcess(
		process.NewQuote(input.Spot, "SPOT"),
		process.NewConstantRate(input.Rate),
		process.NewConstantRate(input.Div),
		process.NewConstantVol(input.Vol),
	)

	stepsPerYear := input.StepsPerYear
	if stepsPerYear <= 0 {
		stepsPerYear = 252
	}
	nPaths := input.NPaths
	if nPaths <= 0 {
		nPaths = 20000
	}

	source := mc.Source{Antithetic: input.Antithetic, Seed: input.Seed}
	switch strings.ToUpper(strings.TrimSpace(input.RandMethod)) {
	case "SOBOL":
		source.Method, source.LD = mc.LowDiscrepancy, mc.Sobol
	case "HALTON":
		source.Method, source.LD = mc.LowDiscrepancy, mc.Halton
	default:
		source.Method = mc.Pseudorandom
	}

	eng := &mc.Engine{Cfg: mc.Config{NPaths: nPaths, StepsPerYear: stepsPerYear, Source: source}}

	tau := auto.Maturity()
	obsSteps, obsTaus, err := buildObservations(&auto, input, stepsPerYear)
	if err != nil {
		return nil, err
	}
	kernelFn := mc.AutocallPriceKernel(proc, auto, obsSteps, obsTaus)

	res, err := eng.PriceBSM(proc, tau, kernelFn)
	if err != nil {
		return nil, fmt.Errorf("failed to price autocallable: %v", err)
	}

	delta, err := bumpDelta(proc, auto, eng, obsSteps, obsTaus)
	if err != nil {
		return nil, err
	}
	vega, err := bumpVega(proc, auto, eng, obsSteps, obsTaus)
	if err != nil {
		return nil, err
	}

	return &Output{PV: res.PV, StdErr: res.StdErr, Delta: delta, Vega: vega}, nil
}

// buildObservations generates the autocall's observation schedule via
// schedule.Generate, stamps it onto auto.ObsDates (the product-layer
// schedule-wiring point), and aligns each observation's year-fraction
// offset onto the engine's ⌈τ·steps_per_year⌉ path-step grid via
// schedule.StepIndices, so the same dates drive both the product
// descriptor and the MC kernel.
func buildObservations(auto *product.Autocallable, input Input, stepsPerYear int) ([]int, []float64, error) {
	spec := schedule.Spec{
		Start:      auto.Start,
		End:        auto.End,
		Freq:       freqFromString(input.Freq),
		StepCount:  input.StepCount,
		Calendar:   calendarFromString(input.Calendar),
		Convention: conventionFromString(input.Convention),
		LockTerm:   auto.LockTerm,
	}
	if spec.StepCount <= 0 {
		spec.StepCount = 1
	}

	dates, err := schedule.Generate(spec)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build observation schedule: %v", err)
	}
	auto.ObsDates = dates

	obsTaus := schedule.YearFractions(dates, auto.DayCount)
	tau := auto.Maturity()
	nSteps := mc.NSteps(tau, stepsPerYear)
	obsSteps := schedule.StepIndices(obsTaus, tau, nSteps)
	return obsSteps, obsTaus, nil
}

func freqFromString(s string) schedule.Frequency {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DAILY":
		return schedule.Daily
	case "WEEKLY":
		return schedule.Weekly
	case "QUARTERLY":
		return schedule.Quarterly
	case "ANNUALLY":
		return schedule.Annually
	default:
		return schedule.Monthly
	}
}

func calendarFromString(s string) calendar.ID {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TARGET":
		return calendar.TARGET
	case "JPN":
		return calendar.JPN
	case "FED":
		return calendar.FED
	case "GOVT":
		return calendar.GOVT
	case "KOR":
		return calendar.KOR
	default:
		return calendar.NONE
	}
}

func conventionFromString(s string) calendar.Convention {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "FOLLOWING":
		return calendar.Following
	case "PRECEDING":
		return calendar.Preceding
	case "MODIFIED_FOLLOWING":
		return calendar.ModifiedFollowing
	default:
		return calendar.Unadjusted
	}
}

func bumpDelta(proc *process.Process, a product.Autocallable, eng *mc.Engine, obsSteps []int, obsTaus []float64) (float64, error) {
	restore := proc.SpotQuote().Bump(proc.Spot() * 0.01)
	tau := a.Maturity()
	up, err := eng.PriceBSM(proc, tau, mc.AutocallPriceKernel(proc, a, obsSteps, obsTaus))
	restore()
	if err != nil {
		return 0, err
	}

	restore = proc.SpotQuote().Bump(-proc.Spot() * 0.01)
	down, err := eng.PriceBSM(proc, tau, mc.AutocallPriceKernel(proc, a, obsSteps, obsTaus))
	restore()
	if err != nil {
		return 0, err
	}

	h := proc.Spot() * 0.01
	return (up.PV - down.PV) / (2 * h), nil
}

func bumpVega(proc *process.Process, a product.Autocallable, eng *mc.Engine, obsSteps []int, obsTaus []float64) (float64, error) {
	cv, ok := proc.VolModel().(*process.ConstantVol)
	if !ok {
		return 0, fmt.Errorf("vega requires a ConstantVol process")
	}
	tau := a.Maturity()

	restore := cv.Bump(0.01)
	up, err := eng.PriceBSM(proc, tau, mc.AutocallPriceKernel(proc, a, obsSteps, obsTaus))
	restore()
	if err != nil {
		return 0, err
	}

	restore = cv.Bump(-0.01)
	down, err := eng.PriceBSM(proc, tau, mc.AutocallPriceKernel(proc, a, obsSteps, obsTaus))
	restore()
	if err != nil {
		return 0, err
	}

	return (up.PV - down.PV) / 0.02, nil
}
