// companion-health is a tiny standalone probe for the assistant backend,
// suitable for cron or container health checks. It is deliberately lean:
// one fasthttp round-trip, exit code 0/1.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
)

func main() {
	base := flag.String("api", "http://localhost:3000", "backend base URL")
	timeout := flag.Duration("timeout", 5*time.Second, "probe timeout")
	flag.Parse()

	url := strings.TrimRight(*base, "/") + "/health"

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)
	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)

	client := &fasthttp.Client{
		Name:         "companion-health",
		ReadTimeout:  *timeout,
		WriteTimeout: *timeout,
	}
	start := time.Now()
	if err := client.DoTimeout(req, resp, *timeout); err != nil {
		fmt.Printf("unhealthy: %s: %v\n", url, err)
		os.Exit(1)
	}
	if c := resp.StatusCode(); c < 200 || c > 299 {
		fmt.Printf("unhealthy: %s: status %d\n", url, c)
		os.Exit(1)
	}
	fmt.Printf("healthy: %s (%s)\n", url, time.Since(start).Round(time.Millisecond))
}
