package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/fielmedina/backend/internal/pkg/bootstrap"
)

func main() {
	list := flag.BoolP("list", "l", false, "only print the recorded orphan keys")
	timeout := flag.DurationP("timeout", "t", 10*time.Minute, "abort the sweep after this duration")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: assetsweep [flags]")
		fmt.Fprintln(os.Stderr, "Retries deleting stored images whose cleanup failed earlier.")
		flag.PrintDefaults()
	}
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	rt, err := bootstrap.Setup(ctx)
	if err != nil {
		log.Fatalf("setup failed: %v", err)
	}

	var out any
	if *list {
		keys, err := rt.Ledger.List(ctx)
		if err != nil {
			log.Fatalf("list orphans: %v", err)
		}
		out = keys
	} else {
		report, err := rt.Sweeper().Sweep(ctx)
		if err != nil {
			log.Fatalf("sweep: %v", err)
		}
		out = report
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.Fatalf("write output: %v", err)
	}
}
