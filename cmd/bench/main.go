package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/notebook"
	"github.com/aretw0/notebook/pkg/adapters/fs"
)

func main() {
	count := flag.Int("count", 1000, "Number of notes to generate")
	keep := flag.Bool("keep", false, "Keep the benchmark notes file after running")
	verbose := flag.Bool("v", false, "Enable debug logging")
	flag.Parse()

	// 1. Setup Namespace
	benchDir, err := os.MkdirTemp("", "notebook_bench_")
	if err != nil {
		panic(err)
	}
	defer func() {
		if !*keep {
			os.RemoveAll(benchDir)
		} else {
			fmt.Printf("Keeping bench dir: %s\n", benchDir)
		}
	}()

	notesPath := filepath.Join(benchDir, fs.DefaultFileName)
	fmt.Printf("Generating %d notes in %s...\n", *count, notesPath)
	startGen := time.Now()

	// Direct write is faster for setup and simulates an existing notebook.
	var buf bytes.Buffer
	stamp := time.Now().Format(fs.TimestampLayout)
	for i := 0; i < *count; i++ {
		fmt.Fprintf(&buf, "Note %d\nBenchmark body %d\nwith a second line\n[updated:%s]\n%s\n", i, i, stamp, fs.Separator)
	}
	if err := os.WriteFile(notesPath, buf.Bytes(), 0644); err != nil {
		panic(err)
	}
	fmt.Printf("Generation took: %v (%d bytes)\n", time.Since(startGen), buf.Len())

	// 2. Initialize Service
	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	service, err := notebook.New(notesPath, notebook.WithLogger(logger))
	if err != nil {
		panic(err)
	}

	ctx := context.TODO()

	fmt.Println("Running Load...")
	startLoad := time.Now()
	notes, err := service.Load(ctx)
	if err != nil {
		panic(err)
	}
	loadDuration := time.Since(startLoad)
	fmt.Printf("Load Result: %v (Items: %d)\n", loadDuration, len(notes))

	fmt.Println("Running Search (match in the last note)...")
	startSearch := time.Now()
	hits := service.Search(fmt.Sprintf("Benchmark body %d", *count-1))
	searchDuration := time.Since(startSearch)
	fmt.Printf("Search Result: %v (Hits: %d)\n", searchDuration, len(hits))

	// Every upsert rewrites the whole file.
	fmt.Println("Running Upsert (replace middle note)...")
	startUpsert := time.Now()
	if _, _, err := service.Upsert(ctx, fmt.Sprintf("Note %d", *count/2), "rewritten body"); err != nil {
		panic(err)
	}
	upsertDuration := time.Since(startUpsert)
	fmt.Printf("Upsert Result: %v\n", upsertDuration)

	// Re-instantiate to simulate a new CLI command run.
	service2, err := notebook.New(notesPath, notebook.WithLogger(logger))
	if err != nil {
		panic(err)
	}
	startReload := time.Now()
	reloaded, err := service2.Load(ctx)
	if err != nil {
		panic(err)
	}
	reloadDuration := time.Since(startReload)

	fmt.Printf("--------------------------------------------------\n")
	fmt.Printf("Benchmark Result (%d notes):\n", *count)
	fmt.Printf("  Load:   %v\n", loadDuration)
	fmt.Printf("  Search: %v\n", searchDuration)
	fmt.Printf("  Upsert: %v\n", upsertDuration)
	fmt.Printf("  Reload: %v (Items: %d)\n", reloadDuration, len(reloaded))
	fmt.Printf("--------------------------------------------------\n")
}
