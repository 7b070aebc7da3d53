package flags

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/Treymsby/eth-network/host"
	"github.com/Treymsby/eth-network/monitor"
	"github.com/Treymsby/eth-network/spammer"
	"github.com/Treymsby/eth-network/workload"
)

const (
	EnvVarPrefix = "GASBURN"

	DefaultBudget      = uint64(10_000_000_000)
	DefaultWorkers     = 4
	DefaultInitialRate = uint64(4)
)

func prefixEnvVars(name string) []string {
	return []string{EnvVarPrefix + "_" + name}
}

var (
	// Required flags
	ScenarioFlag = &cli.StringFlag{
		Name:    "scenario",
		Usage:   "Load scenario to run. Valid options: " + strings.Join(spammer.Scenarios(), ", "),
		EnvVars: prefixEnvVars("SCENARIO"),
		Action: func(_ *cli.Context, s string) error {
			if !slices.Contains(spammer.Scenarios(), s) {
				return fmt.Errorf("unsupported scenario: %s", s)
			}
			return nil
		},
	}
	// Optional flags
	SeedFlag = &cli.Uint64Flag{
		Name:    "seed",
		Usage:   "Seed for the engine genesis accumulator and the scenario's request stream. Equal seeds replay equal runs.",
		Value:   0,
		EnvVars: prefixEnvVars("SEED"),
	}
	BudgetFlag = &cli.Uint64Flag{
		Name:    "budget",
		Usage:   "Total gas the run may burn before it stops.",
		Value:   DefaultBudget,
		EnvVars: prefixEnvVars("BUDGET"),
	}
	GasLimitFlag = &cli.Uint64Flag{
		Name:    "gas-limit",
		Usage:   "Per-call gas limit handed to the engine.",
		Value:   host.DefaultCallGasLimit,
		EnvVars: prefixEnvVars("GAS_LIMIT"),
	}
	SafetyMarginFlag = &cli.Uint64Flag{
		Name:    "safety-margin",
		Usage:   "Gas reserve the adaptive fill workload leaves unspent in every call.",
		Value:   workload.DefaultSafetyMargin,
		EnvVars: prefixEnvVars("SAFETY_MARGIN"),
	}
	WorkersFlag = &cli.IntFlag{
		Name:    "workers",
		Usage:   "Concurrent spam workers. Calls still execute serially against the engine.",
		Value:   DefaultWorkers,
		EnvVars: prefixEnvVars("WORKERS"),
	}
	RateFlag = &cli.Uint64Flag{
		Name:    "rate",
		Usage:   "Calls per slot the schedule starts from before adapting.",
		Value:   DefaultInitialRate,
		EnvVars: prefixEnvVars("RATE"),
	}
	SlotTimeFlag = &cli.DurationFlag{
		Name:    "slot-time",
		Usage:   "Length of one pacing slot.",
		Value:   spammer.DefaultSlotTime,
		EnvVars: prefixEnvVars("SLOT_TIME"),
	}
	DurationFlag = &cli.DurationFlag{
		Name:    "duration",
		Usage:   "Wall-clock cap for the run. 0 runs until the budget is spent.",
		Value:   0,
		EnvVars: prefixEnvVars("DURATION"),
	}
	SteadyTargetFlag = &cli.Uint64Flag{
		Name:    "steady-target",
		Usage:   "Gas per slot to hold in steady mode. 0 selects burst mode.",
		Value:   0,
		EnvVars: prefixEnvVars("STEADY_TARGET"),
	}
	MetricsAddrFlag = &cli.StringFlag{
		Name:    "metrics.addr",
		Usage:   "Address to serve Prometheus metrics on, e.g. 127.0.0.1:7300. Empty disables metrics.",
		Value:   "",
		EnvVars: prefixEnvVars("METRICS_ADDR"),
	}
	StreamAddrFlag = &cli.StringFlag{
		Name:    "stream.addr",
		Usage:   "Address to serve the websocket entry stream on, e.g. 127.0.0.1:7400. Empty disables the stream.",
		Value:   "",
		EnvVars: prefixEnvVars("STREAM_ADDR"),
	}
	SampleIntervalFlag = &cli.DurationFlag{
		Name:    "sample-interval",
		Usage:   "How often engine gauges (log index, slot count) are sampled.",
		Value:   monitor.DefaultSampleInterval,
		EnvVars: prefixEnvVars("SAMPLE_INTERVAL"),
	}
	LogLevelFlag = &cli.StringFlag{
		Name:    "log.level",
		Usage:   "The lowest log level that will be output. Valid options: " + strings.Join(LogLevels, ", "),
		Value:   "info",
		EnvVars: prefixEnvVars("LOG_LEVEL"),
		Action: func(_ *cli.Context, s string) error {
			_, err := ParseLevel(s)
			return err
		},
	}
	LogFormatFlag = &cli.StringFlag{
		Name:    "log.format",
		Usage:   "Format the log output. Supported formats: " + strings.Join(LogFormats, ", "),
		Value:   "terminal",
		EnvVars: prefixEnvVars("LOG_FORMAT"),
		Action: func(_ *cli.Context, s string) error {
			if !slices.Contains(LogFormats, s) {
				return fmt.Errorf("unsupported log format: %s", s)
			}
			return nil
		},
	}
)

var requiredFlags = []cli.Flag{
	ScenarioFlag,
}

var optionalFlags = []cli.Flag{
	SeedFlag,
	BudgetFlag,
	GasLimitFlag,
	SafetyMarginFlag,
	WorkersFlag,
	RateFlag,
	SlotTimeFlag,
	DurationFlag,
	SteadyTargetFlag,
	MetricsAddrFlag,
	StreamAddrFlag,
	SampleIntervalFlag,
	LogLevelFlag,
	LogFormatFlag,
}

func init() {
	Flags = append(requiredFlags, optionalFlags...)
}

// Flags contains the list of configuration options available to the binary.
var Flags []cli.Flag

func CheckRequired(ctx *cli.Context) error {
	for _, f := range requiredFlags {
		if !ctx.IsSet(f.Names()[0]) {
			return fmt.Errorf("flag %s is required", f.Names()[0])
		}
	}
	return nil
}
