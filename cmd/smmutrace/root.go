package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/sarchlab/smmu/config"
	"github.com/sarchlab/smmu/memio"
	"github.com/sarchlab/smmu/monitor"
	"github.com/sarchlab/smmu/regs"
	"github.com/sarchlab/smmu/smmu"
	"github.com/sarchlab/smmu/tracing"
)

var (
	traceDBPath string
	monitorPort int
	envFile     string
)

// rootCmd replays a CSV trace of STREAM/MAP/ACCESS commands against a
// fresh SMMU and memory model, printing each access's outcome and a final
// statistics summary.
var rootCmd = &cobra.Command{
	Use:   "smmutrace <trace-file.csv>",
	Short: "Replay a device-translation trace against the SMMU model.",
	Long: `smmutrace reads a CSV trace of STREAM, MAP, and ACCESS commands, ` +
		`builds the page tables the MAP commands describe, and replays the ` +
		`ACCESS commands through the SMMU, printing the resulting physical ` +
		`address or fault for each one.`,
	Args: cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		runTrace(args[0])
	},
}

func init() {
	rootCmd.Flags().StringVar(&traceDBPath, "record", "",
		"record every fault event to the SQLite database <path>.sqlite3 (commands are not recorded)")
	rootCmd.Flags().IntVar(&monitorPort, "monitor-port", 0,
		"serve live statistics over HTTP on this port (0 disables the monitor)")
	rootCmd.Flags().StringVar(&envFile, "env", "",
		"path to a .env file overriding queue/TLB capacities")
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runTrace(path string) {
	lines, err := parseTraceFile(path)
	if err != nil {
		log.Fatalf("smmutrace: %v", err)
	}

	cfg, err := config.Load(envFile)
	if err != nil {
		log.Fatalf("smmutrace: loading config: %v", err)
	}

	mem := memio.NewModel()
	core := cfg.ApplyTo(smmu.MakeBuilder().WithMemReader(mem.ReadDescriptor)).Build()
	core.Enable()

	registers := regs.NewFile()
	registers.SetSMMUEnabled(true)

	var recorder *tracing.Recorder
	if traceDBPath != "" {
		recorder = tracing.NewRecorder(traceDBPath)
		recorder.Init()
		defer recorder.Flush()
	}

	if monitorPort != 0 {
		monitor.NewMonitor(core, registers).WithPortNumber(monitorPort).StartServer()
	}

	runner := &traceRunner{
		mem:        mem,
		core:       core,
		recorder:   recorder,
		asidTables: make(map[uint32]*pageTableManager),
		streamASID: make(map[uint32]uint32),
	}

	fmt.Printf("Starting SMMU Trace Runner with %s\n", path)
	fmt.Println("================================================")

	for _, line := range lines {
		if err := runner.run(line); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}

	stats := core.GetStatistics()
	fmt.Println("\nFinal Statistics:")
	fmt.Printf("  Hits: %d\n", stats.TLBHits)
	fmt.Printf("  Misses: %d\n", stats.TLBMisses)
	fmt.Printf("  Faults: %d\n", stats.TranslationFaults)
}
