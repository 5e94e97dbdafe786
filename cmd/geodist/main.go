// Command geodist prints the great-circle distance between two places.
//
// Usage:
//
//	OPENCAGE_API_KEY=... go run ./cmd/geodist -from "New York" -to "Los Angeles"
//	go run ./cmd/geodist -json "London" "Paris"
//
// Exit status is 0 when the distance was computed, 1 when a place could not
// be resolved, and 2 on a usage or configuration error.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/couchcryptid/geo-distance-service/internal/adapter/opencage"
	"github.com/couchcryptid/geo-distance-service/internal/config"
	"github.com/couchcryptid/geo-distance-service/internal/distance"
	"github.com/couchcryptid/geo-distance-service/internal/domain"
	"github.com/couchcryptid/geo-distance-service/internal/observability"
)

const (
	exitDone   = 0
	exitFailed = 1
	exitUsage  = 2
)

func main() {
	_ = godotenv.Load()
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// jsonReport is the -json output: the report plus its rendered message.
type jsonReport struct {
	domain.DistanceReport
	Message string `json:"message"`
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("geodist", flag.ContinueOnError)
	fs.SetOutput(stderr)
	from := fs.String("from", "", "first place name")
	to := fs.String("to", "", "second place name")
	asJSON := fs.Bool("json", false, "print the report as JSON")
	timeout := fs.Duration("timeout", 15*time.Second, "overall lookup timeout")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitDone
		}
		return exitUsage
	}

	if *from == "" && *to == "" && fs.NArg() == 2 {
		*from, *to = fs.Arg(0), fs.Arg(1)
	}
	if *from == "" || *to == "" || *timeout <= 0 {
		fmt.Fprintln(stderr, "geodist: two places are required, via -from/-to or as two arguments")
		fs.Usage()
		return exitUsage
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "geodist: %v\n", err)
		return exitUsage
	}

	logger := observability.NewLoggerTo(stderr, cfg)
	metrics := observability.NewUnregisteredMetrics()

	client := opencage.NewClient(cfg.OpenCageAPIKey, cfg.OpenCageBaseURL, cfg.GeocodeTimeout, metrics, logger)
	svc := distance.NewService(client, metrics, logger)

	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	report := svc.ComputeDistance(ctx, *from, *to)

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(jsonReport{DistanceReport: report, Message: report.Text()}); err != nil {
			fmt.Fprintf(stderr, "geodist: %v\n", err)
			return exitFailed
		}
	} else {
		fmt.Fprintln(stdout, report.Text())
	}

	if report.Status != domain.StatusDone {
		return exitFailed
	}
	return exitDone
}
