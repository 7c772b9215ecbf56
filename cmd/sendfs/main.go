package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"sort"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/marmos91/sendfs/internal/logger"
	"github.com/marmos91/sendfs/pkg/config"
	"github.com/marmos91/sendfs/pkg/fs"
	"github.com/marmos91/sendfs/pkg/metrics"
	"github.com/marmos91/sendfs/pkg/sendstream"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (default: "+config.GetDefaultConfigPath()+")")
	logLevel := flag.String("log-level", "", "Log level override (DEBUG, INFO, WARN, ERROR)")
	replayPath := flag.String("replay", "", "Path to a YAML command dump to replay")
	importPath := flag.String("import", "", "Path to a directory to import")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	logger.SetLevel(cfg.Logging.Level)
	logger.SetFormat(cfg.Logging.Format)
	if err := logger.SetOutput(cfg.Logging.Output); err != nil {
		log.Fatalf("Failed to set log output: %v", err)
	}

	if *replayPath == "" && *importPath == "" {
		fmt.Fprintln(os.Stderr, "Nothing to do: pass -replay and/or -import")
		flag.Usage()
		os.Exit(2)
	}

	var interpreterMetrics metrics.InterpreterMetrics
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		interpreterMetrics = metrics.NewInterpreterMetrics()
		startMetricsEndpoint(cfg.Metrics.Listen)
	}

	digester, err := config.CreateDigester(&cfg.Digest)
	if err != nil {
		log.Fatalf("Failed to create digester: %v", err)
	}

	var ledger *sendstream.Subvols
	if *replayPath != "" {
		ledger, err = replay(*replayPath, interpreterMetrics)
		if err != nil {
			log.Fatalf("Replay failed: %v", err)
		}
	}

	var imported *fs.Filesystem
	if *importPath != "" {
		imported, err = fs.FromDir(*importPath, fs.ImportOptions{Xattrs: cfg.Import.Xattrs})
		if err != nil {
			log.Fatalf("Import failed: %v", err)
		}
		logger.Info("Imported %q (%d entries)", *importPath, imported.Len())
		if ledger == nil {
			printDigests(imported, digester)
		}
	}

	if ledger != nil {
		if imported != nil {
			if !compare(ledger, imported, digester) {
				os.Exit(1)
			}
		} else {
			report(ledger, digester)
		}
	}
}

// replay decodes a YAML command dump and feeds every batch to a fresh ledger.
func replay(path string, m metrics.InterpreterMetrics) (*sendstream.Subvols, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dump: %w", err)
	}
	defer file.Close()

	batches, err := sendstream.DecodeDump(file)
	if err != nil {
		return nil, err
	}

	ledger := sendstream.NewSubvols(m)
	for i, batch := range batches {
		id, err := ledger.Receive(batch)
		if err != nil {
			return nil, fmt.Errorf("batch %d: %w", i, err)
		}
		logger.Info("Replayed batch %d into subvol %s", i, id)
	}
	return ledger, nil
}

// report prints every replayed subvolume with its lineage and file digests.
func report(ledger *sendstream.Subvols, digester fs.Digester) {
	for _, id := range ledger.UUIDs() {
		subvol, _ := ledger.Get(id)
		if subvol.ParentUUID != nil {
			fmt.Printf("subvol %s (snapshot of %s): %d entries\n", id, subvol.ParentUUID, subvol.FS.Len())
		} else {
			fmt.Printf("subvol %s: %d entries\n", id, subvol.FS.Len())
		}
		printDigests(subvol.FS, digester)
	}
}

// compare checks every replayed subvolume against the imported reference
// tree, printing differences. Returns true when every subvolume matches.
func compare(ledger *sendstream.Subvols, reference *fs.Filesystem, digester fs.Digester) bool {
	ok := true
	for _, id := range ledger.UUIDs() {
		subvol, _ := ledger.Get(id)
		if subvol.FS.Equal(reference) {
			fmt.Printf("subvol %s: matches\n", id)
			continue
		}

		ok = false
		fmt.Printf("subvol %s: differs\n", id)
		for _, line := range fs.Diff(subvol.FS, reference) {
			fmt.Printf("  %s\n", line)
		}
		printDigests(subvol.FS, digester)
	}
	return ok
}

// printDigests prints a path -> digest table for every file in the tree.
func printDigests(fsys *fs.Filesystem, digester fs.Digester) {
	if digester == nil {
		return
	}

	digests, err := fsys.Digests(digester)
	if err != nil {
		logger.Error("Failed to compute digests: %v", err)
		return
	}

	paths := make([]string, 0, len(digests))
	for p := range digests {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		fmt.Printf("  %s  %q\n", digests[p], p)
	}
}

// startMetricsEndpoint serves the Prometheus registry over HTTP in the
// background.
func startMetricsEndpoint(listen string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))

	go func() {
		logger.Info("Metrics endpoint listening on %s", listen)
		if err := http.ListenAndServe(listen, mux); err != nil {
			logger.Error("Metrics endpoint failed: %v", err)
		}
	}()
}
