package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"

	"github.com/Treymsby/eth-network/flags"
	"github.com/Treymsby/eth-network/host"
	"github.com/Treymsby/eth-network/monitor"
	"github.com/Treymsby/eth-network/spammer"
	"github.com/Treymsby/eth-network/workload"
)

var (
	Version   = "v0.1.0"
	GitCommit = ""
)

func main() {
	app := cli.NewApp()
	app.Name = "gasburn"
	app.Usage = "Workload generator for the metered execution host"
	app.Description = "gasburn runs reproducible gas-burning workloads against an in-process " +
		"metered host: seeded scenarios through an adaptive scheduler, or single calls for inspection."
	app.Version = formatVersion()
	app.Commands = []*cli.Command{
		{
			Name:   "run",
			Usage:  "Drive a load scenario against a fresh engine until the budget is spent",
			Flags:  flags.Flags,
			Action: runScenario,
		},
		{
			Name:   "exec",
			Usage:  "Execute one workload call and print its receipt as JSON",
			Flags:  execFlags,
			Action: execCall,
		},
		{
			Name:   "list",
			Usage:  "List the available scenarios and workload kinds",
			Action: listAll,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Crit("Application failed", "err", err)
	}
}

func formatVersion() string {
	if GitCommit != "" {
		return fmt.Sprintf("%s-%.8s", Version, GitCommit)
	}
	return Version
}

func runScenario(cliCtx *cli.Context) error {
	if err := flags.CheckRequired(cliCtx); err != nil {
		return err
	}
	logger, err := flags.NewLogger(cliCtx)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cliCtx.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := prometheus.NewRegistry()
	metrics := monitor.NewMetrics(registry)

	collector := monitor.NewCollector(monitor.CollectorConfig{
		Log:            logger.New("component", "collector"),
		Metrics:        metrics,
		SampleInterval: cliCtx.Duration(flags.SampleIntervalFlag.Name),
	})
	eng := workload.New(workload.Config{
		Seed:         cliCtx.Uint64(flags.SeedFlag.Name),
		GasLimit:     cliCtx.Uint64(flags.GasLimitFlag.Name),
		SafetyMargin: cliCtx.Uint64(flags.SafetyMarginFlag.Name),
		Sink:         collector,
		Log:          logger.New("component", "engine"),
	})
	seq := spammer.NewSequencer(eng)
	collector.SetSampler(seq)
	collector.Start()
	defer collector.Stop()

	var servers []*http.Server
	if addr := cliCtx.String(flags.MetricsAddrFlag.Name); addr != "" {
		servers = append(servers, serveHTTP(logger, "metrics", addr,
			promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	}
	if addr := cliCtx.String(flags.StreamAddrFlag.Name); addr != "" {
		servers = append(servers, serveHTTP(logger, "stream", addr,
			monitor.NewStreamServer(logger.New("component", "stream"), collector)))
	}
	defer shutdownAll(logger, servers)

	snap, err := spammer.Run(ctx, spammer.RunConfig{
		Scenario:     cliCtx.String(flags.ScenarioFlag.Name),
		Seed:         cliCtx.Uint64(flags.SeedFlag.Name),
		Budget:       cliCtx.Uint64(flags.BudgetFlag.Name),
		Workers:      cliCtx.Int(flags.WorkersFlag.Name),
		InitialRate:  cliCtx.Uint64(flags.RateFlag.Name),
		SlotTime:     cliCtx.Duration(flags.SlotTimeFlag.Name),
		Duration:     cliCtx.Duration(flags.DurationFlag.Name),
		SteadyTarget: cliCtx.Uint64(flags.SteadyTargetFlag.Name),
		Metrics:      metrics,
		Log:          logger,
	}, seq)
	if err != nil {
		return err
	}

	seq.Sample(func(eng *workload.Engine) {
		logger.Info("final engine state",
			"sink", eng.Sink(), "logIndex", eng.LogIndex(),
			"slots", eng.SlotCount(), "balance", eng.Balance())
	})
	logger.Info("run summary",
		"calls", snap.Calls, "failures", snap.Failures,
		"gasUsed", snap.GasUsed, "entries", snap.Entries)
	return nil
}

func serveHTTP(logger log.Logger, name, addr string, handler http.Handler) *http.Server {
	srv := &http.Server{Addr: addr, Handler: handler}
	go func() {
		logger.Info("server listening", "name", name, "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "name", name, "err", err)
		}
	}()
	return srv
}

func shutdownAll(logger log.Logger, servers []*http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, srv := range servers {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("server shutdown failed", "addr", srv.Addr, "err", err)
		}
	}
}

var (
	kindFlag = &cli.StringFlag{
		Name:  "kind",
		Usage: "Workload kind to execute. See the list command for options.",
	}
	callerFlag = &cli.StringFlag{
		Name:  "caller",
		Usage: "Hex address the call is attributed to.",
		Value: "0x00000000000000000000000000000000000000c0",
	}
	iterationsFlag = &cli.Uint64Flag{
		Name:  "iterations",
		Usage: "Iteration count for the storage, compute and hash kinds.",
		Value: 8,
	}
	arraySizeFlag = &cli.Uint64Flag{
		Name:  "array-size",
		Usage: "Scratch array size in words for compute-memory.",
		Value: 256,
	}
	countFlag = &cli.Uint64Flag{
		Name:  "count",
		Usage: "Entry count for the log kinds.",
		Value: 1,
	}
	slotsFlag = &cli.Uint64Flag{
		Name:  "slots",
		Usage: "Storage tail length for log-and-storage.",
		Value: 1,
	}
	payloadFlag = &cli.StringFlag{
		Name:  "payload",
		Usage: "Hex payload (0x-prefixed) for the log, fill and inflate kinds.",
		Value: "0x",
	}
	valueFlag = &cli.Uint64Flag{
		Name:  "value",
		Usage: "Value to attach to the call. Only inflate-value accepts one.",
		Value: 0,
	}
	tagFlag = &cli.Uint64Flag{
		Name:  "tag",
		Usage: "Tag for emit.",
		Value: 0,
	}
	tagsFlag = &cli.Uint64SliceFlag{
		Name:  "tags",
		Usage: "Tags for emit-batch.",
	}
)

var execFlags = []cli.Flag{
	kindFlag,
	callerFlag,
	iterationsFlag,
	arraySizeFlag,
	countFlag,
	slotsFlag,
	payloadFlag,
	valueFlag,
	tagFlag,
	tagsFlag,
	flags.SeedFlag,
	flags.GasLimitFlag,
	flags.SafetyMarginFlag,
	flags.LogLevelFlag,
	flags.LogFormatFlag,
}

func execCall(cliCtx *cli.Context) error {
	logger, err := flags.NewLogger(cliCtx)
	if err != nil {
		return err
	}
	kind, err := workload.ParseKind(cliCtx.String(kindFlag.Name))
	if err != nil {
		return err
	}
	payload, err := decodePayload(cliCtx.String(payloadFlag.Name))
	if err != nil {
		return err
	}
	req, err := buildRequest(cliCtx, kind, payload)
	if err != nil {
		return err
	}

	eng := workload.New(workload.Config{
		Seed:         cliCtx.Uint64(flags.SeedFlag.Name),
		GasLimit:     cliCtx.Uint64(flags.GasLimitFlag.Name),
		SafetyMargin: cliCtx.Uint64(flags.SafetyMarginFlag.Name),
		Log:          logger,
	})
	opts := host.CallOpts{Caller: common.HexToAddress(cliCtx.String(callerFlag.Name))}
	if v := cliCtx.Uint64(valueFlag.Name); v > 0 {
		opts.Value = uint256.NewInt(v)
	}

	receipt, err := eng.Execute(opts, req)
	if err != nil {
		return fmt.Errorf("execute %s: %w", kind, err)
	}
	out, err := json.MarshalIndent(receipt, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func decodePayload(s string) ([]byte, error) {
	if s == "" || s == "0x" {
		return nil, nil
	}
	payload, err := hexutil.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	return payload, nil
}

func buildRequest(cliCtx *cli.Context, kind workload.Kind, payload []byte) (workload.Request, error) {
	iterations := cliCtx.Uint64(iterationsFlag.Name)
	count := cliCtx.Uint64(countFlag.Name)
	switch kind {
	case workload.KindStorageChurn:
		return workload.StorageChurnRequest{Iterations: iterations}, nil
	case workload.KindStorageOnly:
		return workload.StorageOnlyRequest{Iterations: iterations}, nil
	case workload.KindComputeMemory:
		return workload.ComputeMemoryRequest{
			Iterations: iterations,
			ArraySize:  cliCtx.Uint64(arraySizeFlag.Name),
		}, nil
	case workload.KindHashOnly:
		return workload.HashOnlyRequest{Iterations: iterations}, nil
	case workload.KindLogBloat:
		return workload.LogBloatRequest{Payload: payload, Count: count}, nil
	case workload.KindLogAndStorage:
		return workload.LogAndStorageRequest{
			Payload: payload,
			Count:   count,
			Slots:   cliCtx.Uint64(slotsFlag.Name),
		}, nil
	case workload.KindAdaptiveFill:
		return workload.AdaptiveFillRequest{Payload: payload}, nil
	case workload.KindInflate:
		return workload.InflateRequest{Payload: payload}, nil
	case workload.KindInflateValue:
		return workload.InflateValueRequest{Payload: payload}, nil
	case workload.KindEmit:
		return workload.EmitRequest{Tag: cliCtx.Uint64(tagFlag.Name)}, nil
	case workload.KindEmitBatch:
		tags := cliCtx.Uint64Slice(tagsFlag.Name)
		if len(tags) == 0 {
			return nil, fmt.Errorf("emit-batch needs at least one --tags value")
		}
		return workload.EmitBatchRequest{Tags: tags}, nil
	}
	return nil, fmt.Errorf("unknown workload kind %q", kind)
}

func listAll(*cli.Context) error {
	fmt.Println("scenarios:")
	for _, s := range spammer.Scenarios() {
		fmt.Printf("  %s\n", s)
	}
	fmt.Println("workload kinds:")
	for _, k := range workload.Kinds() {
		fmt.Printf("  %s\n", k)
	}
	return nil
}
