package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/J9ck/human-embedded-technology/internal/replay"
)

// #region main

func main() {
	fixturePath := flag.String("fixture", "", "path to fixture JSON")
	jsonOut := flag.Bool("json", false, "output results as JSON instead of a table")
	flag.Parse()

	if *fixturePath == "" {
		fmt.Fprintln(os.Stderr, "usage: replay --fixture path/to/fixture.json [--json]")
		os.Exit(2)
	}

	os.Exit(run(*fixturePath, *jsonOut))
}

// #endregion main

// #region run

func run(path string, jsonOut bool) int {
	f, err := replay.LoadFixture(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load fixture: %v\n", err)
		return 2
	}

	results, summary, err := replay.Replay(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "replay: %v\n", err)
		return 2
	}

	if jsonOut {
		if err := printJSON(struct {
			Results []replay.ReplayResult `json:"results"`
			Summary replay.ReplaySummary  `json:"summary"`
		}{results, summary}); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 2
		}
	} else {
		printTable(results, summary)
	}

	// Divergence from the fixture's expectation block is the failure signal.
	if err := replay.Check(f, summary); err != nil {
		fmt.Fprintf(os.Stderr, "\nDIVERGED: %v\n", err)
		return 1
	}
	return 0
}

// #endregion run

// #region output

func printTable(results []replay.ReplayResult, summary replay.ReplaySummary) {
	fmt.Printf("%-10s| %-10s| %-10s| %-10s| %s\n", "Offset(us)", "Peak Seq", "Magnitude", "Action", "Reason")
	fmt.Printf("%-10s+%-11s+%-11s+%-11s+%s\n",
		"----------", "-----------", "-----------", "-----------", "--------------------")
	for _, r := range results {
		fmt.Printf("%-10d| %-10d| %-10.4f| %-10s| %s\n",
			r.OffsetUS, r.Seq, r.Magnitude, r.Action, r.Reason)
	}

	fmt.Printf("\nSummary: %d samples, %d detections, %d stimulated, %d rejected, %d failed\n",
		summary.TotalSamples, summary.Detections, summary.Stimulations, summary.Rejections, summary.Failures)
	if summary.FailSafe {
		fmt.Println("FAIL-SAFE latched during run")
	}
	if summary.DetectorStats.BadWindows > 0 || summary.DetectorStats.OutOfOrder > 0 {
		fmt.Printf("Detector: %d bad windows, %d out-of-order samples dropped\n",
			summary.DetectorStats.BadWindows, summary.DetectorStats.OutOfOrder)
	}
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

// #endregion output
