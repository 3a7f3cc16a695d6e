package main

import (
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

const (
	baseURL      = "http://127.0.0.1:8090"
	ajaxURL      = baseURL + "/consent/ajax"
	numWorkers   = 50
	testDuration = 10 * time.Second
)

var (
	pages   = []string{"/", "/about/", "/services/", "/blog/", "/contact/"}
	assets  = []string{"/assets/consent.min.css", "/assets/consent.min.js"}
	nonceRe = regexp.MustCompile(`"nonce":"([^"]+)"`)
)

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

// visit is what a first page view hands the client script.
type visit struct {
	session *http.Cookie
	nonce   string
}

func main() {
	fmt.Println("=== Consent Banner Load Test ===")
	fmt.Printf("Workers: %d | Duration: %s\n\n", numWorkers, testDuration)

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

	fmt.Println("\n--- Phase 1: First visits (GET pages) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r, _ := doPage(rng, nil)
		return r
	})

	fmt.Println("\n--- Phase 2: Visit then dismiss (page + POST action) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r, v := doPage(rng, nil)
		if v == nil {
			return r
		}
		return doDismiss(v, false)
	})

	fmt.Println("\n--- Phase 3: Mixed load (pages, assets, forged dismissals) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.60:
			res, _ := doPage(rng, nil)
			return res
		case r < 0.85:
			return doAsset(rng)
		default:
			return doDismiss(&visit{nonce: fmt.Sprintf("forged-%d", rng.Int63())}, true)
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
	fmt.Println("  " + strings.Repeat("-", 88))

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
	fmt.Println("  " + strings.Repeat("-", 88))
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(totalOps)*100, rps)
}

func doPage(rng *rand.Rand, session *http.Cookie) (result, *visit) {
	req, _ := http.NewRequest(http.MethodGet, baseURL+pages[rng.Intn(len(pages))], nil)
	if session != nil {
		req.AddCookie(session)
	}
	start := time.Now()
	resp, err := httpClient.Do(req)
	lat := time.Since(start)
	if err != nil {
		return result{"GET page", 0, lat, true}, nil
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	res := result{"GET page", resp.StatusCode, lat, resp.StatusCode != http.StatusOK}

	m := nonceRe.FindSubmatch(body)
	if m == nil {
		return res, nil
	}
	v := &visit{nonce: string(m[1]), session: session}
	for _, c := range resp.Cookies() {
		if c.Name == "e84_session" {
			v.session = c
		}
	}
	return res, v
}

func doDismiss(v *visit, forged bool) result {
	form := url.Values{"action": {"84em_dismiss_consent"}, "nonce": {v.nonce}}
	req, _ := http.NewRequest(http.MethodPost, ajaxURL, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if v.session != nil {
		req.AddCookie(v.session)
	}

	endpoint := "POST dismiss"
	want := http.StatusOK
	if forged {
		endpoint = "POST dismiss (forged)"
		want = http.StatusForbidden
	}

	start := time.Now()
	resp, err := httpClient.Do(req)
	lat := time.Since(start)
	if err != nil {
		return result{endpoint, 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{endpoint, resp.StatusCode, lat, resp.StatusCode != want}
}

func doAsset(rng *rand.Rand) result {
	start := time.Now()
	resp, err := httpClient.Get(baseURL + assets[rng.Intn(len(assets))])
	lat := time.Since(start)
	if err != nil {
		return result{"GET asset", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"GET asset", resp.StatusCode, lat, resp.StatusCode != http.StatusOK}
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
