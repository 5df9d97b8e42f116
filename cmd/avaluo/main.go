package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/davidromero/avaluo/internal/estimation"
	"github.com/davidromero/avaluo/internal/records"
)

func main() {
	_ = godotenv.Load()
	dbPath := flag.String("db", "avaluo.db", "Path to the estimates database")
	timeout := flag.Duration("model-timeout", 30*time.Second, "Model invocation timeout")
	flag.Parse()

	var client estimation.ModelClient
	anthropicClient, err := estimation.NewAnthropicClientFromEnv()
	if err != nil {
		log.Printf("avaluo model_unavailable err=%q (estimates will use the formula price only)", err.Error())
		client = unavailableClient{err: err}
	} else {
		client = anthropicClient
	}
	estimator := estimation.NewEstimator(client, estimation.DefaultPriceFactors, estimation.WithInvokeTimeout(*timeout))

	store, err := records.Open(*dbPath)
	if err != nil {
		log.Fatalf("open estimates database: %v", err)
	}
	defer store.Close()

	in := bufio.NewReader(os.Stdin)
	attrs := collectAttributes(in, os.Stdout)

	fmt.Println("\nEstimating...")
	res := estimator.Estimate(context.Background(), attrs)
	rec := records.NewRecord(attrs, res, time.Now())
	if err := store.Save(rec); err != nil {
		log.Printf("avaluo estimate_persist_failed err=%q", err.Error())
	}

	printResult(os.Stdout, rec)
}

type unavailableClient struct{ err error }

func (u unavailableClient) Generate(context.Context, string) (string, error) { return "", u.err }
func (u unavailableClient) ModelName() string                                { return "unavailable" }

func printResult(out io.Writer, rec records.EstimateRecord) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, "=== Estimate ===")
	fmt.Fprintf(out, "Base price:        %.2f\n", rec.BasePrice)
	if rec.Adjusted {
		fmt.Fprintf(out, "Adjustment factor: %g\n", rec.AdjustmentFactor)
	} else {
		fmt.Fprintln(out, "Adjustment factor: unavailable (formula price only)")
	}
	fmt.Fprintf(out, "Estimated price:   %.2f\n", rec.FinalPrice)
	fmt.Fprintf(out, "Saved as:          %s\n", rec.EstimateID)
	fmt.Fprintln(out)
	fmt.Fprintln(out, estimation.Disclaimer)
}
