// Command cachecheck exercises the cached read endpoints of a running API and
// confirms each response landed in Redis under the expected key.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"dhukuti/internal/shared/config"
	"dhukuti/internal/shared/constants"
)

type checkResult struct {
	Name       string        `json:"name"`
	Endpoint   string        `json:"endpoint"`
	Key        string        `json:"key"`
	Cached     bool          `json:"cached"`
	ColdTime   time.Duration `json:"coldTime"`
	WarmTime   time.Duration `json:"warmTime"`
	StatusCode int           `json:"statusCode"`
	Error      string        `json:"error,omitempty"`
}

type checker struct {
	baseURL string
	http    *http.Client
	redis   *redis.Client
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	baseURL := flag.String("base", "http://localhost:"+cfg.Port+cfg.GetAPIBasePath(), "API base URL")
	out := flag.String("out", "", "write the JSON report to this file")
	flag.Parse()

	rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	defer rdb.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		fmt.Fprintf(os.Stderr, "redis unreachable at %s: %v\n", cfg.Redis.Addr, err)
		os.Exit(1)
	}

	c := &checker{baseURL: *baseURL, http: &http.Client{Timeout: 10 * time.Second}, redis: rdb}

	results := []checkResult{
		c.check(ctx, "Event list", "/events?page=1&limit=10", constants.BuildEventListKey(1, 10, "")),
		c.check(ctx, "Active tags", "/tags/active", constants.CACHE_KEY_TAGS_ACTIVE),
	}
	if eventID, err := c.firstEventID(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "skipping event checks: %v\n", err)
	} else {
		results = append(results,
			c.check(ctx, "Event detail", "/events/"+eventID, constants.BuildEventDetailKey(eventID)),
			c.check(ctx, "Ticket types", "/events/"+eventID+"/tickets", constants.BuildTicketsByEventKey(eventID)),
		)
	}

	failed := 0
	for _, r := range results {
		status := "ok"
		if !r.Cached {
			status = "NOT CACHED"
			failed++
		}
		fmt.Printf("%-14s %-10s cold=%-12v warm=%-12v %s\n", r.Name, status, r.ColdTime, r.WarmTime, r.Error)
	}

	if *out != "" {
		data, _ := json.MarshalIndent(results, "", "  ")
		if err := os.WriteFile(*out, data, 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "write report: %v\n", err)
		}
	}
	if failed > 0 {
		os.Exit(1)
	}
}

// check clears key, requests endpoint twice and reports whether key was populated.
func (c *checker) check(ctx context.Context, name, endpoint, key string) checkResult {
	res := checkResult{Name: name, Endpoint: endpoint, Key: key}
	if err := c.redis.Del(ctx, key).Err(); err != nil {
		res.Error = err.Error()
		return res
	}

	var err error
	if res.StatusCode, res.ColdTime, err = c.get(ctx, endpoint); err != nil {
		res.Error = err.Error()
		return res
	}
	if _, res.WarmTime, err = c.get(ctx, endpoint); err != nil {
		res.Error = err.Error()
		return res
	}

	n, err := c.redis.Exists(ctx, key).Result()
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.Cached = n == 1
	return res
}

func (c *checker) get(ctx context.Context, endpoint string) (int, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return 0, 0, err
	}
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	elapsed := time.Since(start)
	if resp.StatusCode >= 400 {
		return resp.StatusCode, elapsed, fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	return resp.StatusCode, elapsed, nil
}

func (c *checker) firstEventID(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/events?page=1&limit=1", nil)
	if err != nil {
		return "", err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var body struct {
		Data struct {
			Events []struct {
				ID string `json:"id"`
			} `json:"events"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}
	if len(body.Data.Events) == 0 {
		return "", fmt.Errorf("no events; run cmd/seed first")
	}
	return body.Data.Events[0].ID, nil
}
