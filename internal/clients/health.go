package clients

import (
	"context"
	"net/url"
	"time"
)

type HealthResult struct {
	Name    string `json:"name"`
	OK      bool   `json:"ok"`
	Latency string `json:"latency,omitempty"`
	Error   string `json:"error,omitempty"`
}

// CheckHealth probes the backend with the cheapest read it offers: a
// one-item product page.
func CheckHealth(ctx context.Context, c *Client) HealthResult {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	start := time.Now()
	err := c.Get(ctx, "/product/list", url.Values{"page": {"1"}, "size": {"1"}}, nil)
	res := HealthResult{Name: c.Name, OK: err == nil, Latency: time.Since(start).Round(time.Millisecond).String()}
	if err != nil {
		res.Error = err.Error()
	}
	return res
}
