// Command optimize assigns jobs from a local prediction CSV and writes the
// result next to it. With -issue-token it prints a bearer token for the
// batch-run endpoint instead.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"dispatch/cmd"
	"dispatch/internal/adapters/in/payload"
	"dispatch/internal/adapters/out/csvdataset"
	"dispatch/internal/adapters/out/filestore"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/auth"

	"github.com/labstack/gommon/log"
)

func main() {
	csvPath := flag.String("csv", "", "prediction CSV to optimize")
	outDir := flag.String("out-dir", "optimized_local", "directory for the optimized CSV")
	maxHours := flag.Float64("max-hours", services.DefaultMaxHours, "daily working-hour cap")
	deriveJobIDs := flag.Bool("derive-job-ids", true, "number jobs by position when the CSV has no job_id column")
	issueToken := flag.Bool("issue-token", false, "print a batch-run bearer token signed with JWT_SECRET and exit")
	tokenTTL := flag.Duration("token-ttl", time.Hour, "lifetime of an issued token")
	flag.Parse()

	logger := cmd.NewLogger(os.Getenv("LOG_LEVEL"))

	if *issueToken {
		token, err := auth.IssueToken([]byte(os.Getenv("JWT_SECRET")), "optimize-cli", *tokenTTL)
		if err != nil {
			log.Fatalf("Error issuing token: %v", err)
		}
		fmt.Println(token)
		return
	}

	if *csvPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	codec := csvdataset.NewCodec()

	f, err := os.Open(*csvPath)
	if err != nil {
		log.Fatalf("Error opening %s: %v", *csvPath, err)
	}
	records, err := codec.Decode(f, ports.DecodeOptions{
		DeriveJobIDs: *deriveJobIDs,
		Hours:        map[kernel.CarrierID]float64{},
	})
	if closeErr := f.Close(); closeErr != nil {
		log.Warnf("Error closing %s: %v", *csvPath, closeErr)
	}
	if err != nil {
		log.Fatalf("Error reading %s: %v", *csvPath, err)
	}

	command, err := commands.NewAssignJobsCommand(records, *maxHours)
	if err != nil {
		log.Fatalf("Invalid input: %v", err)
	}

	ctx := context.Background()
	handler := commands.NewAssignJobsCommandHandler(services.NewAssignmentEngine(), nil)
	results, err := handler.Handle(ctx, command)
	if err != nil {
		log.Fatalf("Assignment failed: %v", err)
	}

	encoded, err := codec.Encode(results)
	if err != nil {
		log.Fatalf("Error encoding results: %v", err)
	}
	sink, err := filestore.NewSink(*outDir)
	if err != nil {
		log.Fatalf("Error preparing %s: %v", *outDir, err)
	}
	name := fmt.Sprintf("optimized_%s%s", time.Now().UTC().Format("2006-01-02T15-04-05"), codec.Extension())
	written, err := sink.Write(ctx, name, encoded)
	if err != nil {
		log.Fatalf("Error writing results: %v", err)
	}
	logger.Info("Optimization complete", "output", written, "jobs", len(results))

	out := json.NewEncoder(os.Stdout)
	out.SetIndent("", "  ")
	if err = out.Encode(payload.FromResults(results)); err != nil {
		log.Fatalf("Error printing results: %v", err)
	}
}
