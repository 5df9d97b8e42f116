package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/davidromero/avaluo/internal/estimation"
	"github.com/davidromero/avaluo/internal/records"
	"github.com/davidromero/avaluo/internal/report"
)

func main() {
	dbPath := flag.String("db", "avaluo.db", "Path to the estimates database")
	estimateID := flag.String("estimate-id", "", "Estimate to render")
	outputPath := flag.String("output", "", "Path to write markdown (defaults to stdout)")
	pdfPath := flag.String("pdf", "", "Optional path to write a PDF rendering")
	flag.Parse()

	if *estimateID == "" {
		log.Fatal("missing required -estimate-id")
	}

	store, err := records.Open(*dbPath)
	if err != nil {
		log.Fatalf("open estimates database: %v", err)
	}
	defer store.Close()

	rec, ok, err := store.Get(*estimateID)
	if err != nil {
		log.Fatalf("load estimate: %v", err)
	}
	if !ok {
		log.Fatalf("no estimate with id %s", *estimateID)
	}

	markdown := report.BuildMarkdown(rec, estimation.DefaultPriceFactors)
	if err := writeMarkdown(*outputPath, markdown); err != nil {
		log.Fatalf("write markdown: %v", err)
	}

	if *pdfPath != "" {
		renderer := report.NewChromiumPDFRenderer()
		pdf, err := renderer.Render(context.Background(), markdown)
		if err != nil {
			log.Fatalf("render pdf: %v", err)
		}
		if err := os.WriteFile(*pdfPath, pdf, 0o644); err != nil {
			log.Fatalf("write pdf: %v", err)
		}
		log.Printf("wrote %s (%d bytes)", *pdfPath, len(pdf))
	}
}

func writeMarkdown(outputPath, markdown string) error {
	if outputPath == "" {
		_, err := fmt.Print(markdown)
		return err
	}
	return os.WriteFile(outputPath, []byte(markdown), 0o644)
}
