package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

const (
	baseURL      = "http://127.0.0.1:18090"
	numWorkers   = 50
	testDuration = 10 * time.Second
	numDays      = 120
	numSegments  = 6
)

var segmentNames = []string{"opening", "treasures", "ministry", "living", "study", "closing"}

var httpClient = &http.Client{
	Timeout: 5 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        200,
		MaxIdleConnsPerHost: 200,
		IdleConnTimeout:     30 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   2 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	},
}

type result struct {
	endpoint string
	status   int
	latency  time.Duration
	err      bool
}

type stats struct {
	count     int64
	errors    int64
	latencies []time.Duration
}

var savedIDs struct {
	mu  sync.Mutex
	ids []string
}

func main() {
	fmt.Println("=== MTD Load Test ===")
	fmt.Printf("Workers: %d | Duration: %s\n", numWorkers, testDuration)
	fmt.Printf("Days: %d | Segments per session: up to %d\n\n", numDays, numSegments)

	// Wait for server
	fmt.Print("Waiting for server... ")
	for i := 0; i < 30; i++ {
		resp, err := httpClient.Get(baseURL + "/health")
		if err == nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			break
		}
		if i == 29 {
			fmt.Println("FAILED: server not responding")
			return
		}
		time.Sleep(200 * time.Millisecond)
	}
	fmt.Println("OK")

	// Phase 1: Seed sessions with POST requests
	fmt.Println("\n--- Phase 1: Seeding sessions (POST /sessions) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		return doPostSession(rng)
	})

	// Phase 2: Mixed read/write load
	fmt.Println("\n--- Phase 2: Mixed load (50% POST, 50% GET) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.50:
			return doPostSession(rng)
		case r < 0.65:
			return doGetDay(rng)
		case r < 0.80:
			return doGetRange(rng)
		case r < 0.90:
			return doGetSession(rng)
		default:
			return doGetHistory(rng)
		}
	})

	// Phase 3: Read-heavy load
	fmt.Println("\n--- Phase 3: Read-heavy load (10% POST, 90% GET) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.10:
			return doPostSession(rng)
		case r < 0.40:
			return doGetDay(rng)
		case r < 0.65:
			return doGetRange(rng)
		case r < 0.85:
			return doGetSession(rng)
		default:
			return doGetHistory(rng)
		}
	})
}

func runPhase(duration time.Duration, workFn func(rng *rand.Rand) result) {
	results := make(chan result, 10000)
	var wg sync.WaitGroup
	var totalOps atomic.Int64
	stop := make(chan struct{})

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for {
				select {
				case <-stop:
					return
				default:
					r := workFn(rng)
					totalOps.Add(1)
					results <- r
				}
			}
		}(rand.Int63() + int64(i))
	}

	allResults := make(map[string]*stats)
	done := make(chan struct{})
	go func() {
		for r := range results {
			s, ok := allResults[r.endpoint]
			if !ok {
				s = &stats{}
				allResults[r.endpoint] = s
			}
			s.count++
			if r.err {
				s.errors++
			}
			s.latencies = append(s.latencies, r.latency)
		}
		close(done)
	}()

	time.Sleep(duration)
	close(stop)
	wg.Wait()
	close(results)
	<-done

	printResults(allResults, duration)
}

func printResults(allResults map[string]*stats, duration time.Duration) {
	var totalOps int64
	var totalErrors int64

	endpoints := make([]string, 0, len(allResults))
	for ep := range allResults {
		endpoints = append(endpoints, ep)
	}
	sort.Strings(endpoints)

	fmt.Printf("\n  %-22s %8s %6s %10s %10s %10s %10s\n",
		"Endpoint", "Reqs", "Errs", "Avg", "P50", "P95", "P99")
	fmt.Println("  " + repeat("-", 88))

	for _, ep := range endpoints {
		s := allResults[ep]
		totalOps += s.count
		totalErrors += s.errors

		sort.Slice(s.latencies, func(i, j int) bool {
			return s.latencies[i] < s.latencies[j]
		})

		avg := avgDuration(s.latencies)
		p50 := percentile(s.latencies, 0.50)
		p95 := percentile(s.latencies, 0.95)
		p99 := percentile(s.latencies, 0.99)

		fmt.Printf("  %-22s %8d %6d %10s %10s %10s %10s\n",
			ep, s.count, s.errors, fmtDur(avg), fmtDur(p50), fmtDur(p95), fmtDur(p99))
	}

	rps := float64(totalOps) / duration.Seconds()
	fmt.Println("  " + repeat("-", 88))
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(totalOps)*100, rps)
}

func randomDate(rng *rand.Rand) string {
	d := time.Now().AddDate(0, 0, -rng.Intn(numDays))
	return d.Format("2006-01-02")
}

func doPostSession(rng *rand.Rand) result {
	startSec := 19*3600 + rng.Intn(1800)
	plannedSec := startSec + 105*60
	actualSec := plannedSec + rng.Intn(600) - 120

	nSegs := rng.Intn(numSegments) + 1
	segments := make([]map[string]interface{}, nSegs)
	segStart := startSec
	for i := range segments {
		segEnd := segStart + 300 + rng.Intn(600)
		segments[i] = map[string]interface{}{
			"description":  segmentNames[i%len(segmentNames)],
			"special_talk": rng.Float64() < 0.1,
			"start":        segStart,
			"end":          segEnd,
			"planned":      int64(10 * time.Minute),
			"adapted":      int64(10 * time.Minute),
			"state":        2,
		}
		segStart = segEnd
	}

	id := fmt.Sprintf("load-%d-%d", time.Now().UnixNano(), rng.Intn(1<<20))
	body := map[string]interface{}{
		"session_id":  id,
		"date":        randomDate(rng) + "T00:00:00Z",
		"start":       startSec,
		"planned_end": plannedSec,
		"actual_end":  actualSec,
		"segments":    segments,
	}

	data, _ := json.Marshal(body)
	start := time.Now()
	resp, err := httpClient.Post(baseURL+"/sessions", "application/json", bytes.NewReader(data))
	lat := time.Since(start)
	if err != nil {
		return result{"POST /sessions", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	if resp.StatusCode == 201 {
		savedIDs.mu.Lock()
		if len(savedIDs.ids) < 10000 {
			savedIDs.ids = append(savedIDs.ids, id)
		}
		savedIDs.mu.Unlock()
	}
	return result{"POST /sessions", resp.StatusCode, lat, resp.StatusCode != 201}
}

func doGetDay(rng *rand.Rand) result {
	url := fmt.Sprintf("%s/sessions/day?date=%s", baseURL, randomDate(rng))
	start := time.Now()
	resp, err := httpClient.Get(url)
	lat := time.Since(start)
	if err != nil {
		return result{"GET /sessions/day", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"GET /sessions/day", resp.StatusCode, lat, resp.StatusCode != 200}
}

func doGetRange(rng *rand.Rand) result {
	to := time.Now().AddDate(0, 0, -rng.Intn(30))
	from := to.AddDate(0, 0, -7-rng.Intn(21))
	url := fmt.Sprintf("%s/sessions/range?from=%s&to=%s",
		baseURL, from.Format("2006-01-02"), to.Format("2006-01-02"))
	start := time.Now()
	resp, err := httpClient.Get(url)
	lat := time.Since(start)
	if err != nil {
		return result{"GET /sessions/range", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"GET /sessions/range", resp.StatusCode, lat, resp.StatusCode != 200}
}

func doGetSession(rng *rand.Rand) result {
	savedIDs.mu.Lock()
	var id string
	if len(savedIDs.ids) > 0 {
		id = savedIDs.ids[rng.Intn(len(savedIDs.ids))]
	}
	savedIDs.mu.Unlock()
	if id == "" {
		id = "absent"
	}

	url := fmt.Sprintf("%s/session?id=%s", baseURL, id)
	start := time.Now()
	resp, err := httpClient.Get(url)
	lat := time.Since(start)
	if err != nil {
		return result{"GET /session", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	ok := resp.StatusCode == 200 || resp.StatusCode == 404
	return result{"GET /session", resp.StatusCode, lat, !ok}
}

func doGetHistory(rng *rand.Rand) result {
	url := fmt.Sprintf("%s/history?months=%d", baseURL, rng.Intn(6)+1)
	start := time.Now()
	resp, err := httpClient.Get(url)
	lat := time.Since(start)
	if err != nil {
		return result{"GET /history", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	ok := resp.StatusCode == 200 || resp.StatusCode == 204
	return result{"GET /history", resp.StatusCode, lat, !ok}
}

func avgDuration(d []time.Duration) time.Duration {
	if len(d) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range d {
		sum += v
	}
	return sum / time.Duration(len(d))
}

func percentile(d []time.Duration, p float64) time.Duration {
	if len(d) == 0 {
		return 0
	}
	idx := int(float64(len(d)) * p)
	if idx >= len(d) {
		idx = len(d) - 1
	}
	return d[idx]
}

func fmtDur(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000.0)
}

func repeat(s string, n int) string {
	out := ""
	for i := 0; i < n; i++ {
		out += s
	}
	return out
}
