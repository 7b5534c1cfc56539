package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jonboulle/clockwork"

	"github.com/J9ck/human-embedded-technology/internal/actuator"
	"github.com/J9ck/human-embedded-technology/internal/config"
	"github.com/J9ck/human-embedded-technology/internal/loop"
	"github.com/J9ck/human-embedded-technology/internal/power"
	"github.com/J9ck/human-embedded-technology/internal/sample"
	"github.com/J9ck/human-embedded-technology/internal/stim"
	"github.com/J9ck/human-embedded-technology/internal/telemetry"
)

// #region main

func main() {
	configPath := flag.String("config", "", "path to config JSON (defaults apply if empty)")
	duration := flag.Duration("duration", 0, "stop after this long (0 = run until signal)")
	burstEvery := flag.Uint64("burst-every", 2000, "synthetic source: inject a burst every N ticks (0 = quiet)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if err := run(cfg, *duration, *burstEvery); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region run

func run(cfg config.Config, duration time.Duration, burstEvery uint64) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, duration)
		defer cancel()
	}

	// Telemetry sinks
	store, err := telemetry.OpenStore(cfg.Telemetry.DBPath)
	if err != nil {
		return fmt.Errorf("open telemetry store: %w", err)
	}
	defer store.Close()

	var uplink *telemetry.Uplink
	if cfg.Telemetry.MQTTBroker != "" {
		uplink, err = telemetry.NewUplink(cfg.Telemetry.MQTTBroker,
			"implantd-"+uuid.NewString()[:8], cfg.Telemetry.MQTTTopic)
		if err != nil {
			// The implant never depends on the uplink being reachable.
			log.Printf("[MAIN] uplink unavailable, continuing without: %v", err)
			uplink = nil
		} else {
			defer uplink.Close()
		}
	}
	clock := clockwork.NewRealClock()
	rec := telemetry.NewRecorder(cfg.Telemetry.Buffer, store, uplink, clock)

	// Actuator: hardware bridge if configured, simulator otherwise.
	var act stim.Actuator
	if addr := cfg.Stimulation.BridgeAddr; addr != "" {
		bridge, err := actuator.NewBridge(addr)
		if err != nil {
			return fmt.Errorf("pulse generator bridge: %w", err)
		}
		defer bridge.Close()
		act = bridge
		log.Printf("[MAIN] pulse generator bridge at %s", addr)
	} else {
		act = actuator.NewSim()
		log.Printf("[MAIN] simulated actuator")
	}

	battery := power.NewSimBattery(cfg.Power.StartEnergyPct, cfg.Power.DrainPctPerS)
	src := sample.NewSynthetic(syntheticFor(cfg, burstEvery))

	pipeline, err := loop.New(cfg, src, act, battery, rec, clock)
	if err != nil {
		return err
	}

	if cfg.Telemetry.HTTPBind != "" {
		go serveStatus(cfg.Telemetry.HTTPBind, pipeline, battery)
	}

	err = pipeline.Run(ctx)
	if err != nil && ctx.Err() == nil {
		return err
	}

	st := pipeline.SchedulerStats()
	var releases uint64
	for _, t := range st.Tasks {
		releases += t.Activations
	}
	log.Printf("[MAIN] stopped: releases=%d misses=%d drops=%d", releases, st.TotalMisses, pipeline.ChannelDrops())
	return nil
}

// syntheticFor derives a bench waveform from the acquisition config: a low
// beta-band carrier with periodic bursts that the detector should catch.
func syntheticFor(cfg config.Config, burstEvery uint64) sample.SyntheticConfig {
	sc := sample.SyntheticConfig{
		Seed:        42,
		BaselineHz:  20,
		BaselineAmp: 0.2,
		NoiseAmp:    0.05,
		PulseAmp:    6,
		PulseWidth:  cfg.Detector.Window * 2,
	}
	if burstEvery > 0 {
		for at := burstEvery; at < burstEvery*64; at += burstEvery {
			sc.PulseAtTicks = append(sc.PulseAtTicks, at)
		}
	}
	return sc
}

// #endregion run

// #region status-api

// serveStatus exposes read-only pipeline snapshots for bench inspection.
func serveStatus(bind string, p *loop.Pipeline, battery *power.SimBattery) {
	r := mux.NewRouter()
	r.HandleFunc("/status/sched", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, p.SchedulerStats())
	}).Methods("GET")
	r.HandleFunc("/status/power", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, p.PowerState())
	}).Methods("GET")
	r.HandleFunc("/status/detector", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, p.DetectorStats())
	}).Methods("GET")
	r.HandleFunc("/status/stim", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, p.ControllerStats())
	}).Methods("GET")
	r.HandleFunc("/status/telemetry", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, struct {
			Counters telemetry.Counters `json:"counters"`
			Drops    uint64             `json:"channel_drops"`
			Energy   float64            `json:"energy_pct"`
		}{p.TelemetryCounters(), p.ChannelDrops(), battery.EnergyPct()})
	}).Methods("GET")

	log.Printf("[MAIN] status API on %s", bind)
	if err := http.ListenAndServe(bind, r); err != nil {
		log.Printf("[MAIN] status API stopped: %v", err)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[MAIN] encode status: %v", err)
	}
}

// #endregion status-api
