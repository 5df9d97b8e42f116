package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/davidromero/avaluo/internal/estimation"
	"github.com/davidromero/avaluo/internal/httpapi"
	"github.com/davidromero/avaluo/internal/records"
	"github.com/davidromero/avaluo/internal/telemetry"
)

func main() {
	_ = godotenv.Load()
	addr := flag.String("addr", ":8090", "Listen address")
	dbPath := flag.String("db", "avaluo.db", "Path to the estimates database")
	timeout := flag.Duration("model-timeout", 30*time.Second, "Model invocation timeout")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	shutdownTracing, err := telemetry.Setup(ctx, "avaluo-server", strings.TrimSpace(os.Getenv("AVALUO_OTLP_ENDPOINT")))
	if err != nil {
		log.Fatalf("telemetry setup: %v", err)
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	client, err := estimation.NewAnthropicClientFromEnv()
	if err != nil {
		log.Fatal(err)
	}
	estimator := estimation.NewEstimator(client, estimation.DefaultPriceFactors, estimation.WithInvokeTimeout(*timeout))

	store, err := records.Open(*dbPath)
	if err != nil {
		log.Fatalf("open estimates database: %v", err)
	}
	defer store.Close()

	srv := &http.Server{
		Addr:    *addr,
		Handler: httpapi.NewServer(estimator, store, estimator.Factors()),
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Printf("avaluo server listening addr=%s model=%s db=%s", *addr, client.ModelName(), *dbPath)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
