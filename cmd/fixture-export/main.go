package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/J9ck/human-embedded-technology/internal/config"
	"github.com/J9ck/human-embedded-technology/internal/replay"
	"github.com/J9ck/human-embedded-technology/internal/sample"
)

// #region main

func main() {
	outPath := flag.String("out", "", "output fixture JSON path")
	count := flag.Int("samples", 2000, "number of samples to generate")
	seed := flag.Int64("seed", 42, "synthetic source seed")
	periodUS := flag.Int64("period-us", 1000, "sample spacing in microseconds")
	burstAt := flag.String("burst-at", "500,1500", "comma-separated tick indices where bursts start")
	burstWidth := flag.Int("burst-width", 64, "burst duration in ticks")
	desc := flag.String("desc", "synthetic bench trace", "fixture description")
	flag.Parse()

	if *outPath == "" {
		fmt.Fprintln(os.Stderr, "usage: fixture-export --out path/to/fixture.json [--samples N] [--seed S] [--burst-at 500,1500]")
		os.Exit(2)
	}

	if err := run(*outPath, *count, *seed, *periodUS, *burstAt, *burstWidth, *desc); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region generate

func run(outPath string, count int, seed, periodUS int64, burstAt string, burstWidth int, desc string) error {
	bursts, err := parseTicks(burstAt)
	if err != nil {
		return err
	}

	src := sample.NewSynthetic(sample.SyntheticConfig{
		Seed:         seed,
		BaselineHz:   20,
		BaselineAmp:  0.2,
		NoiseAmp:     0.05,
		PulseAmp:     6,
		PulseWidth:   burstWidth,
		PulseAtTicks: bursts,
	})

	cfg := config.Default()
	f := &replay.Fixture{
		Description: desc,
		Config: replay.FixtureConfig{
			Detector: replay.FixtureDetector{
				Strategy:      cfg.Detector.Strategy,
				Window:        cfg.Detector.Window,
				Hop:           cfg.Detector.Hop,
				Rising:        cfg.Detector.Rising,
				Falling:       cfg.Detector.Falling,
				Integrate:     cfg.Detector.Integrate,
				VarianceAlpha: cfg.Detector.VarianceAlpha,
			},
			Stimulation: replay.FixtureStimulation{
				AmplitudeMA:      cfg.Stimulation.AmplitudeMA,
				PulseWidthUS:     cfg.Stimulation.PulseWidthUS,
				BurstCount:       cfg.Stimulation.BurstCount,
				RefractoryMS:     cfg.Stimulation.RefractoryMS,
				LatencyBudgetMS:  cfg.Stimulation.LatencyBudgetMS,
				FailureThreshold: cfg.Stimulation.FailureThreshold,
			},
		},
	}

	start := time.Now()
	for i := 0; i < count; i++ {
		offset := int64(i) * periodUS
		at := start.Add(time.Duration(offset) * time.Microsecond)
		f.Samples = append(f.Samples, replay.FixtureSample{
			Seq:      uint64(i + 1),
			OffsetUS: offset,
			Value:    src.Next(at),
		})
	}

	// Stamp the generated trace with its own replay outcome so the fixture
	// is a self-contained regression baseline.
	_, summary, err := replay.Replay(f)
	if err != nil {
		return fmt.Errorf("baseline replay: %w", err)
	}
	f.Expected = &replay.FixtureExpected{
		Detections:   summary.Detections,
		Stimulations: summary.Stimulations,
		Rejections:   summary.Rejections,
		Failures:     summary.Failures,
		FailSafe:     summary.FailSafe,
	}

	if err := replay.SaveFixture(outPath, f); err != nil {
		return err
	}
	fmt.Printf("wrote %s: %d samples, %d detections, %d stimulated, %d rejected\n",
		outPath, len(f.Samples), summary.Detections, summary.Stimulations, summary.Rejections)
	return nil
}

func parseTicks(s string) ([]uint64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]uint64, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.ParseUint(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("burst tick %q: %w", p, err)
		}
		out = append(out, n)
	}
	return out, nil
}

// #endregion generate
