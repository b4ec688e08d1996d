package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"mudah_scraper/config"
	"mudah_scraper/geocode"
	"mudah_scraper/httputil"
	"mudah_scraper/logging"
	"mudah_scraper/scraper"
	"mudah_scraper/storage"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logFile, err := logging.Setup(cfg.LogPath)
	if err != nil {
		log.Printf("Warning: could not set up file logging: %v", err)
	} else {
		defer logFile.Close()
	}

	// All four run arguments are prompted; bad numbers are fatal here,
	// before any network activity.
	in := bufio.NewReader(os.Stdin)
	params := scraper.Params{
		Region:    prompt(in, "Enter the region to scrape (empty for nationwide): "),
		StartPage: promptInt(in, "Enter the starting page number: "),
		EndPage:   promptInt(in, "Enter the ending page number: "),
		DelaySec:  promptInt(in, "Enter the delay between requests (in seconds): "),
	}
	if params.StartPage < 1 {
		log.Fatalf("Starting page must be >= 1, got %d", params.StartPage)
	}
	if params.DelaySec < 0 {
		log.Fatalf("Delay must be >= 0, got %d", params.DelaySec)
	}

	var solver *httputil.ChallengeSolver
	if cfg.Solver.Enabled {
		solver = httputil.NewChallengeSolver(cfg.Solver.Headless)
	}
	client := httputil.NewClient(solver)
	defer client.Close()

	geocoder := geocode.NewClient(cfg.Geocoder)

	driver := scraper.NewDriver(
		cfg.Site,
		scraper.NewLinkCollector(cfg.Site, client),
		scraper.NewExtractor(client),
		scraper.NewReconciler(cfg.Site.ExcludedCategories, geocoder),
	)

	ctx := context.Background()
	result := driver.Run(ctx, params)

	outPath := outputPath(cfg.OutputDir, params, time.Now())
	writer, err := storage.NewCSVWriter(outPath)
	if err != nil {
		log.Fatalf("Failed to create output file: %v", err)
	}
	if err := writer.WriteRows(result.Rows); err != nil {
		writer.Close()
		log.Fatalf("Failed to write output: %v", err)
	}
	if err := writer.Close(); err != nil {
		log.Fatalf("Failed to close output: %v", err)
	}

	if cfg.Archive.Enabled() {
		archiver, err := storage.NewArchiver(ctx, cfg.Archive)
		if err != nil {
			log.Printf("Warning: archive disabled: %v", err)
		} else if key, err := archiver.ArchiveFile(ctx, outPath); err != nil {
			log.Printf("Warning: failed to archive %s: %v", outPath, err)
		} else {
			log.Printf("Archived output to s3://%s/%s", cfg.Archive.Bucket, key)
		}
	}

	fmt.Println(result.Run.Summary())
	fmt.Printf("Data has been successfully scraped and saved to %s\n", outPath)
}

// outputPath builds the conventional file name:
// Page<start>to<end>(<timestamp>)(<region>).csv
func outputPath(dir string, p scraper.Params, now time.Time) string {
	region := strings.ToLower(strings.TrimSpace(p.Region))
	if region == "" {
		region = "malaysia"
	}
	name := fmt.Sprintf("Page%dto%d(%s)(%s).csv", p.StartPage, p.EndPage, now.Format("20060102150405"), region)
	return filepath.Join(dir, name)
}

func prompt(in *bufio.Reader, label string) string {
	fmt.Print(label)
	line, err := in.ReadString('\n')
	if err != nil && line == "" {
		log.Fatalf("Failed to read input: %v", err)
	}
	return strings.TrimSpace(line)
}

func promptInt(in *bufio.Reader, label string) int {
	raw := prompt(in, label)
	n, err := strconv.Atoi(raw)
	if err != nil {
		log.Fatalf("Expected a number, got %q", raw)
	}
	return n
}
