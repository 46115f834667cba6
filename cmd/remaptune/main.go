// Package main fits the rim remap cubic to target curve points while
// keeping it valid: positive floor at zero input, exactly 1 at full
// intensity, and monotonically increasing across [0,1].
package main

import (
	"flag"
	"fmt"
	"log"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/optimize"

	"github.com/lihogloglo/trample/config"
	"github.com/lihogloglo/trample/deform"
)

type targetPoint struct {
	x, y float64
}

// parsePoints parses "0.25:0.35,0.5:0.5" into target points.
func parsePoints(s string) ([]targetPoint, error) {
	var points []targetPoint
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		xy := strings.SplitN(part, ":", 2)
		if len(xy) != 2 {
			return nil, fmt.Errorf("point %q: want x:y", part)
		}
		x, err := strconv.ParseFloat(xy[0], 64)
		if err != nil {
			return nil, fmt.Errorf("point %q: %w", part, err)
		}
		y, err := strconv.ParseFloat(xy[1], 64)
		if err != nil {
			return nil, fmt.Errorf("point %q: %w", part, err)
		}
		if x < 0 || x > 1 || y < 0 || y > 1 {
			return nil, fmt.Errorf("point %q: outside [0,1]", part)
		}
		points = append(points, targetPoint{x, y})
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("no target points")
	}
	return points, nil
}

func cubic(c []float64, x float64) float64 {
	return c[0] + x*(c[1]+x*(c[2]+x*c[3]))
}

// objective scores a coefficient vector: squared error at the target
// points plus heavy penalties for violating the curve constraints.
func objective(c []float64, points []targetPoint, floor float64) float64 {
	var cost float64

	for _, p := range points {
		d := cubic(c, p.x) - p.y
		cost += d * d
	}

	// Endpoint constraints
	d0 := c[0] - floor
	cost += 100 * d0 * d0
	d1 := cubic(c, 1) - 1
	cost += 100 * d1 * d1

	// Monotonicity: penalize negative derivative anywhere on [0,1]
	const steps = 64
	for i := 0; i <= steps; i++ {
		x := float64(i) / steps
		deriv := c[1] + x*(2*c[2]+x*3*c[3])
		if deriv < 0 {
			cost += 50 * deriv * deriv
		}
	}

	return cost
}

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	floor := flag.Float64("floor", 0.02, "Target remap value at zero input")
	pointsFlag := flag.String("points", "0.5:0.5", "Comma-separated x:y targets the curve should pass through")
	maxEvals := flag.Int("max-evals", 2000, "Maximum number of evaluations")
	output := flag.String("output", "", "Write the fitted config YAML here (empty = print only)")
	flag.Parse()

	points, err := parsePoints(*pointsFlag)
	if err != nil {
		log.Fatalf("invalid -points: %v", err)
	}
	if *floor <= 0 {
		log.Fatal("-floor must be positive")
	}

	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg := config.Cfg()

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			return objective(x, points, *floor)
		},
	}

	settings := &optimize.Settings{
		FuncEvaluations: *maxEvals,
	}

	// Start from the configured curve
	initX := []float64{cfg.Remap.C0, cfg.Remap.C1, cfg.Remap.C2, cfg.Remap.C3}

	fmt.Printf("Fitting remap cubic to %d points, floor=%.3f, max_evals=%d\n",
		len(points), *floor, *maxEvals)

	result, err := optimize.Minimize(problem, initX, settings, &optimize.NelderMead{})
	if err != nil {
		log.Printf("optimization ended: %v", err)
	}

	best := result.X
	fmt.Printf("\nBest coefficients (cost %.3g):\n", result.F)
	fmt.Printf("  c0: %.6f\n  c1: %.6f\n  c2: %.6f\n  c3: %.6f\n",
		best[0], best[1], best[2], best[3])

	remap := deform.Remap{
		C0: float32(best[0]),
		C1: float32(best[1]),
		C2: float32(best[2]),
		C3: float32(best[3]),
	}
	if err := remap.Validate(); err != nil {
		log.Fatalf("fitted curve is not usable: %v", err)
	}

	fmt.Println("\nCurve samples:")
	for i := 0; i <= 10; i++ {
		x := float32(i) / 10
		fmt.Printf("  remap(%.1f) = %.4f\n", x, remap.Apply(x))
	}

	if *output != "" {
		cfg.Remap.C0 = best[0]
		cfg.Remap.C1 = best[1]
		cfg.Remap.C2 = best[2]
		cfg.Remap.C3 = best[3]
		if err := cfg.WriteYAML(*output); err != nil {
			log.Fatalf("failed to write config: %v", err)
		}
		fmt.Printf("\nFitted config saved to: %s\n", *output)
	}
}
