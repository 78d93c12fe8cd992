package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lintang-b-s/addrconflate/cmd/conflate/httpapi"
	"github.com/lintang-b-s/addrconflate/internal/augment"
	"github.com/lintang-b-s/addrconflate/internal/metrics"
	"github.com/lintang-b-s/addrconflate/internal/numparse"
	"github.com/lintang-b-s/addrconflate/internal/sink"
)

var (
	listenAddr = flag.String("listenaddr", ":5050", "server listen address")
	dbFile     = flag.String("db", "./addrconflate.db", "bolt database file for the reference anchor sink")
	inputFile  = flag.String("f", "", "NDJSON file of lookup tuples to process in batch mode; if empty, serve HTTP only")
)

func main() {
	flag.Parse()

	boltSink, err := sink.Open(*dbFile)
	if err != nil {
		log.Fatal(err)
	}
	defer boltSink.Close()

	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg)
	driver := augment.NewDriver(augment.HouseNumberParserFunc(numparse.Parse), log.Default())

	if *inputFile != "" {
		if err := runBatch(*inputFile, driver, boltSink, m); err != nil {
			log.Fatal(err)
		}
	}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	httpapi.Mount(r, driver, boltSink, m)

	fmt.Printf("\naddrconflate ready\nserver started at %s\n", *listenAddr)
	log.Fatal(http.ListenAndServe(*listenAddr, r))
}

func runBatch(path string, driver *augment.Driver, s *sink.BoltSink, m *metrics.Metrics) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	tupleCount := 0
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var tuple augment.LookupTuple
		if err := json.Unmarshal(line, &tuple); err != nil {
			log.Printf("addrconflate: skip malformed tuple line: %v", err)
			continue
		}

		stats, err := driver.Process(tuple, s)
		if err != nil {
			return fmt.Errorf("addrconflate: process tuple %d: %w", tupleCount, err)
		}
		m.Observe(len(tuple.Streets), stats)
		log.Printf("addrconflate: tuple %d: matched=%d skipped_unparseable=%d skipped_no_match=%d obs=%d vtx=%d",
			tupleCount, stats.Matched, stats.SkippedUnparseable, stats.SkippedNoMatch, stats.ObservationAnchors, stats.VertexAnchors)
		tupleCount++
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	log.Printf("addrconflate: processed %d tuples from %s", tupleCount, path)
	return nil
}
