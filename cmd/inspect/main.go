package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/J9ck/human-embedded-technology/internal/telemetry"
	_ "modernc.org/sqlite"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to telemetry.db")
	last := flag.Int("last", 20, "show N most recent events")
	kind := flag.String("kind", "", "filter to one event kind")
	jsonOut := flag.Bool("json", false, "output as JSON instead of table")
	flag.Parse()

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "usage: inspect --db path/to/telemetry.db [--last N] [--kind k] [--json]")
		os.Exit(2)
	}

	store, err := telemetry.OpenStore(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if err := run(store, *last, telemetry.Kind(*kind), *jsonOut); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region run

type output struct {
	Counts map[telemetry.Kind]uint64 `json:"counts"`
	Events []telemetry.Event         `json:"events"`
}

func run(store *telemetry.Store, last int, kind telemetry.Kind, jsonOut bool) error {
	counts, err := store.CountsByKind()
	if err != nil {
		return err
	}
	events, err := store.Recent(last, kind)
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(output{Counts: counts, Events: events})
	}

	fmt.Println("Event counts:")
	for _, k := range []telemetry.Kind{
		telemetry.KindDetection, telemetry.KindStimIssued, telemetry.KindStimRejected,
		telemetry.KindDeadlineMiss, telemetry.KindChannelOverflow, telemetry.KindPowerAdjust,
		telemetry.KindActuatorFailure, telemetry.KindFailSafe,
	} {
		if n, ok := counts[k]; ok {
			fmt.Printf("  %-18s %d\n", k, n)
		}
	}

	if len(events) == 0 {
		fmt.Println("\nno events")
		return nil
	}

	fmt.Printf("\n%-24s  %-16s  %-10s  %10s  %10s  %s\n",
		"Time", "Kind", "Task", "Seq", "Value", "Detail")
	for _, ev := range events {
		fmt.Printf("%-24s  %-16s  %-10s  %10d  %10.4f  %s\n",
			ev.At.Format("2006-01-02T15:04:05.000"), ev.Kind, ev.Task, ev.Seq, ev.Value, ev.Detail)
	}
	return nil
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

// #endregion run
