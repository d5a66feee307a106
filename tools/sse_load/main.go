// Load tester for the trade SSE stream. Opens N concurrent EventSource-style
// connections against /api/trades/stream and reports event throughput.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os/signal"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"
)

type counters struct {
	connected   atomic.Int64
	connectErrs atomic.Int64
	streamErrs  atomic.Int64
	events      atomic.Int64
}

func main() {
	url := flag.String("url", "http://localhost:8080/api/trades/stream", "SSE endpoint URL")
	conns := flag.Int("conns", 500, "number of concurrent connections")
	dur := flag.Duration("dur", 60*time.Second, "test duration (0 runs until interrupted)")
	ramp := flag.Duration("ramp", 2*time.Second, "window to spread connection starts across")
	flag.Parse()

	if *conns <= 0 {
		log.Fatalf("invalid conns: %d", *conns)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if *dur > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *dur)
		defer cancel()
	}

	client := &http.Client{
		Transport: &http.Transport{
			MaxConnsPerHost:     *conns + 10,
			MaxIdleConnsPerHost: *conns + 10,
			DisableCompression:  true,
			DialContext: (&net.Dialer{
				Timeout:   5 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
		},
	}

	log.Printf("starting SSE load: url=%s conns=%d dur=%s ramp=%s", *url, *conns, *dur, *ramp)

	var stats counters
	var wg sync.WaitGroup
	start := time.Now()
	interval := *ramp / time.Duration(*conns)

	for i := 0; i < *conns; i++ {
		if ctx.Err() != nil {
			break
		}
		if i > 0 && interval > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(interval):
			}
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			consume(ctx, client, *url, &stats)
		}()
	}

	go report(ctx, &stats, start)
	wg.Wait()

	elapsed := time.Since(start)
	fmt.Printf("done: connected=%d connect_errs=%d stream_errs=%d events=%d elapsed=%s events/s=%.2f\n",
		stats.connected.Load(), stats.connectErrs.Load(), stats.streamErrs.Load(),
		stats.events.Load(), elapsed.Truncate(time.Millisecond),
		float64(stats.events.Load())/elapsed.Seconds())
}

func consume(ctx context.Context, client *http.Client, url string, stats *counters) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		stats.connectErrs.Add(1)
		return
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := client.Do(req)
	if err != nil {
		stats.connectErrs.Add(1)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		stats.connectErrs.Add(1)
		return
	}

	stats.connected.Add(1)
	reader := bufio.NewReader(resp.Body)
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			if ctx.Err() == nil {
				stats.streamErrs.Add(1)
			}
			return
		}
		// count data lines, skip heartbeats and separators
		if strings.HasPrefix(line, "data:") {
			stats.events.Add(1)
		}
	}
}

func report(ctx context.Context, stats *counters, start time.Time) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			log.Printf("status: connected=%d connect_errs=%d stream_errs=%d events=%d elapsed=%s",
				stats.connected.Load(), stats.connectErrs.Load(), stats.streamErrs.Load(),
				stats.events.Load(), time.Since(start).Truncate(time.Second))
		}
	}
}
