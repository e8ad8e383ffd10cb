package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

type campaignRequest struct {
	Name     string   `json:"name"`
	Body     string   `json:"body"`
	Contacts []string `json:"contacts"`
}

type campaignResponse struct {
	CampaignID string `json:"campaign_id"`
	Contacts   int    `json:"contacts"`
}

// stats accumulates per-request outcomes under one lock. The request rate here
// is low enough that contention is a non-issue.
type stats struct {
	mu       sync.Mutex
	success  int
	failure  int
	totalDur time.Duration
	minDur   time.Duration
	maxDur   time.Duration
	errors   map[string]int
}

func newStats() *stats {
	return &stats{errors: make(map[string]int)}
}

func (s *stats) record(d time.Duration, errMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.totalDur += d
	if s.minDur == 0 || d < s.minDur {
		s.minDur = d
	}
	if d > s.maxDur {
		s.maxDur = d
	}

	if errMsg == "" {
		s.success++
		return
	}
	s.failure++
	s.errors[errMsg]++
}

func createCampaign(url string, reqNum int) (time.Duration, string) {
	payload := campaignRequest{
		Name: fmt.Sprintf("Load Test Campaign %d", reqNum),
		Body: fmt.Sprintf("Test message from load test request #%d", reqNum),
		Contacts: []string{
			fmt.Sprintf("+9715012%05d", reqNum%100000),
			fmt.Sprintf("+9715098%05d", reqNum%100000),
		},
	}
	jsonData, _ := json.Marshal(payload)

	start := time.Now()
	resp, err := http.Post(url, "application/json", bytes.NewBuffer(jsonData))
	elapsed := time.Since(start)
	if err != nil {
		return elapsed, err.Error()
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return elapsed, fmt.Sprintf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	var created campaignResponse
	if err := json.Unmarshal(body, &created); err != nil {
		return elapsed, "JSON parse error"
	}
	return elapsed, ""
}

func runLoadTest(url string, numRequests, concurrency int) *stats {
	fmt.Printf("\n🚀 Starting load test: %d requests with concurrency %d\n", numRequests, concurrency)
	fmt.Printf("Target: %s\n", url)
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")

	result := newStats()
	semaphore := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	start := time.Now()
	for i := 0; i < numRequests; i++ {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(reqNum int) {
			defer wg.Done()
			defer func() { <-semaphore }()

			d, errMsg := createCampaign(url, reqNum)
			result.record(d, errMsg)

			if reqNum%10 == 0 {
				fmt.Print(".")
			}
		}(i)
	}
	wg.Wait()
	total := time.Since(start)

	fmt.Println("\n━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")

	printResults(result, numRequests, total)
	return result
}

func printResults(result *stats, numRequests int, total time.Duration) {
	fmt.Printf("\n📊 Load Test Results\n")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Printf("Total Requests:      %d\n", numRequests)
	fmt.Printf("✅ Success:           %d (%.2f%%)\n", result.success, float64(result.success)/float64(numRequests)*100)
	fmt.Printf("❌ Failed:            %d (%.2f%%)\n", result.failure, float64(result.failure)/float64(numRequests)*100)
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Printf("⏱️  Total Duration:    %v\n", total)
	fmt.Printf("⚡ Requests/sec:      %.2f\n", float64(numRequests)/total.Seconds())
	fmt.Printf("📈 Avg Response Time: %v\n", result.totalDur/time.Duration(numRequests))
	fmt.Printf("⬇️  Min Response Time: %v\n", result.minDur)
	fmt.Printf("⬆️  Max Response Time: %v\n", result.maxDur)

	if len(result.errors) > 0 {
		fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		fmt.Println("❌ Errors:")
		for errMsg, count := range result.errors {
			fmt.Printf("   • %s: %d times\n", errMsg, count)
		}
	}
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
}

func main() {
	base := flag.String("base", "http://localhost:8080", "campaign API base URL")
	requests := flag.Int("n", 100, "number of campaign create requests")
	concurrency := flag.Int("c", 10, "concurrent connections")
	flag.Parse()

	fmt.Println("🔍 Checking if server is running...")
	resp, err := http.Get(*base + "/health")
	if err != nil {
		fmt.Printf("❌ Error: Cannot connect to server at %s\n", *base)
		fmt.Println("💡 Make sure the server is running: make run-api")
		return
	}
	resp.Body.Close()
	fmt.Println("✅ Server is running")

	runLoadTest(*base+"/api/campaigns", *requests, *concurrency)
}
