package pricing

import (
	"context"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/pricing"
)

// Source represents where a price figure came from.
type Source string

const (
	// SourceAPI indicates pricing data came from the AWS Pricing API
	SourceAPI Source = "API"

	// SourceCache indicates pricing data came from the in-memory cache
	SourceCache Source = "Cache"

	// SourceNA indicates pricing data is not available
	SourceNA Source = "N/A"
)

// The Pricing API is only served from us-east-1 and ap-south-1,
// regardless of which region is being priced.
const pricingAPIRegion = "us-east-1"

// Client looks up EC2 on-demand prices with an in-memory cache keyed
// by region and instance type. Safe for concurrent use.
type Client struct {
	api *pricing.Client

	mu    sync.RWMutex
	cache map[string]float64
}

// NewClient creates a pricing client against the us-east-1 Pricing
// API endpoint.
func NewClient(ctx context.Context) (*Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(pricingAPIRegion))
	if err != nil {
		return nil, fmt.Errorf("error loading AWS config for pricing API: %w", err)
	}

	return &Client{
		api:   pricing.NewFromConfig(cfg),
		cache: make(map[string]float64),
	}, nil
}

func (c *Client) cached(key string) (float64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	price, ok := c.cache[key]
	return price, ok
}

func (c *Client) store(key string, price float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache[key] = price
}
