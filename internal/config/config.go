// Package config loads the static startup configuration. Everything timing
// and safety critical is fixed here, once, before the scheduler starts: the
// core packages receive typed values and never parse configuration formats
// themselves.
package config

// #region imports
import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// #endregion

// #region sections

// Acquisition bounds the sampling front end.
type Acquisition struct {
	PeriodUS    int `json:"period_us"`     // initial acquisition period
	MinPeriodUS int `json:"min_period_us"` // fastest the power policy may go
	MaxPeriodUS int `json:"max_period_us"` // slowest the power policy may go
	WCETUS      int `json:"wcet_us"`
	Priority    int `json:"priority"`
}

// Channel sizes the sample hand-off ring.
type Channel struct {
	Capacity int `json:"capacity"`
}

// Detector fixes windowing, thresholds, and the detection task's timing.
type Detector struct {
	Strategy      string  `json:"strategy"` // "energy" or "matched"
	Window        int     `json:"window"`
	Hop           int     `json:"hop"`
	Rising        float64 `json:"rising"`
	Falling       float64 `json:"falling"`
	Integrate     int     `json:"integrate"` // matched strategy integration width
	VarianceAlpha float64 `json:"variance_alpha"`

	PeriodUS int `json:"period_us"` // detection task period
	WCETUS   int `json:"wcet_us"`
	Priority int `json:"priority"`
}

// Stimulation fixes pulse parameters and the safety envelope.
type Stimulation struct {
	AmplitudeMA      float64 `json:"amplitude_ma"`
	PulseWidthUS     int     `json:"pulse_width_us"`
	BurstCount       int     `json:"burst_count"`
	RefractoryMS     int     `json:"refractory_ms"`
	LatencyBudgetMS  int     `json:"latency_budget_ms"`
	FailureThreshold int     `json:"failure_threshold"`

	WCETUS   int `json:"wcet_us"`
	Priority int `json:"priority"` // must be the most urgent tier

	BridgeAddr string `json:"bridge_addr"` // empty = simulated actuator
}

// Power tunes the duty-cycle policy.
type Power struct {
	PeriodMS         int     `json:"period_ms"`
	WCETUS           int     `json:"wcet_us"`
	Priority         int     `json:"priority"` // must be the least urgent tier
	Step             float64 `json:"step"`
	VarianceFloor    float64 `json:"variance_floor"`
	VarianceCeil     float64 `json:"variance_ceil"`
	LowEnergyPct     float64 `json:"low_energy_pct"`
	RecoverEnergyPct float64 `json:"recover_energy_pct"`
	MissBackoff      uint64  `json:"miss_backoff"`
	StartEnergyPct   float64 `json:"start_energy_pct"`
	DrainPctPerS     float64 `json:"drain_pct_per_s"`
}

// Telemetry configures the event log and its sinks.
type Telemetry struct {
	Buffer        int    `json:"buffer"`
	FlushPeriodMS int    `json:"flush_period_ms"`
	WCETUS        int    `json:"wcet_us"`
	Priority      int    `json:"priority"`
	DBPath        string `json:"db_path"`
	MQTTBroker    string `json:"mqtt_broker"` // empty = no uplink
	MQTTTopic     string `json:"mqtt_topic"`
	HTTPBind      string `json:"http_bind"` // status API; empty = disabled
}

// #endregion sections

// #region config

// Config is the full startup configuration.
type Config struct {
	Acquisition Acquisition `json:"acquisition"`
	Channel     Channel     `json:"channel"`
	Detector    Detector    `json:"detector"`
	Stimulation Stimulation `json:"stimulation"`
	Power       Power       `json:"power"`
	Telemetry   Telemetry   `json:"telemetry"`

	// MissAlertThreshold is the consecutive deadline miss count that is
	// surfaced to telemetry as a degraded-mode alert.
	MissAlertThreshold uint64 `json:"miss_alert_threshold"`
}

// Default returns the configuration used when no file is given: 1 kHz
// acquisition, 32-sample energy windows, 100 ms refractory, 5 ms latency
// budget.
func Default() Config {
	return Config{
		Acquisition: Acquisition{PeriodUS: 1000, MinPeriodUS: 1000, MaxPeriodUS: 8000, WCETUS: 50, Priority: 1},
		Channel:     Channel{Capacity: 256},
		Detector: Detector{
			Strategy: "energy",
			Window:   32, Hop: 8,
			Rising: 0.6, Falling: 0.4,
			Integrate: 5,
			PeriodUS:  4000, WCETUS: 800, Priority: 2,
		},
		Stimulation: Stimulation{
			AmplitudeMA: 3.0, PulseWidthUS: 200, BurstCount: 5,
			RefractoryMS: 100, LatencyBudgetMS: 5, FailureThreshold: 3,
			WCETUS: 500, Priority: 0,
		},
		Power: Power{
			PeriodMS: 1000, WCETUS: 200, Priority: 4,
			Step:          2.0,
			VarianceFloor: 0.01, VarianceCeil: 0.2,
			LowEnergyPct: 20, RecoverEnergyPct: 60,
			MissBackoff:    3,
			StartEnergyPct: 100, DrainPctPerS: 0.002,
		},
		Telemetry: Telemetry{
			Buffer: 512, FlushPeriodMS: 500, WCETUS: 300, Priority: 3,
			DBPath:    "telemetry.db",
			MQTTTopic: "implant/telemetry",
		},
		MissAlertThreshold: 3,
	}
}

// #endregion config

// #region load

// Load reads the configuration: defaults, then the optional JSON file, then
// environment overrides, then validation.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := json.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.Telemetry.DBPath = envOr("IMPLANT_TELEMETRY_DB", cfg.Telemetry.DBPath)
	cfg.Telemetry.MQTTBroker = envOr("IMPLANT_MQTT_BROKER", cfg.Telemetry.MQTTBroker)
	cfg.Telemetry.HTTPBind = envOr("IMPLANT_HTTP_BIND", cfg.Telemetry.HTTPBind)
	cfg.Stimulation.BridgeAddr = envOr("IMPLANT_BRIDGE_ADDR", cfg.Stimulation.BridgeAddr)
	if v := os.Getenv("IMPLANT_ACQ_PERIOD_US"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("IMPLANT_ACQ_PERIOD_US: %w", err)
		}
		cfg.Acquisition.PeriodUS = n
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// #endregion load

// #region validate

// Validate checks the cross-field constraints the component constructors
// cannot see on their own.
func (c Config) Validate() error {
	a := c.Acquisition
	if a.MinPeriodUS < 1 || a.MaxPeriodUS < a.MinPeriodUS {
		return fmt.Errorf("config: acquisition period bounds [%d, %d] us invalid", a.MinPeriodUS, a.MaxPeriodUS)
	}
	if a.PeriodUS < a.MinPeriodUS || a.PeriodUS > a.MaxPeriodUS {
		return fmt.Errorf("config: acquisition period %d us outside [%d, %d]", a.PeriodUS, a.MinPeriodUS, a.MaxPeriodUS)
	}
	if c.Channel.Capacity < 1 {
		return fmt.Errorf("config: channel capacity must be >= 1")
	}
	if c.Detector.Strategy != "energy" && c.Detector.Strategy != "matched" {
		return fmt.Errorf("config: unknown detector strategy %q", c.Detector.Strategy)
	}
	if c.Stimulation.Priority >= c.Acquisition.Priority ||
		c.Stimulation.Priority >= c.Detector.Priority ||
		c.Stimulation.Priority >= c.Power.Priority ||
		c.Stimulation.Priority >= c.Telemetry.Priority {
		return fmt.Errorf("config: stimulation must hold the most urgent priority tier")
	}
	if c.Power.Priority <= c.Acquisition.Priority ||
		c.Power.Priority <= c.Detector.Priority ||
		c.Power.Priority <= c.Telemetry.Priority {
		return fmt.Errorf("config: power policy must hold the least urgent priority tier")
	}
	if c.MissAlertThreshold < 1 {
		return fmt.Errorf("config: miss alert threshold must be >= 1")
	}
	return nil
}

// #endregion validate
