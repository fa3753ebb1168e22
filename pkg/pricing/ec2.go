package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/pricing"
	"github.com/aws/aws-sdk-go-v2/service/pricing/types"
	"github.com/younsl/reclaimd/pkg/utils"
)

// MonthlyHours is the approximate number of hours in a month
// (365 days / 12 months * 24 hours).
const MonthlyHours = 730.0

// InstanceHourlyPrice returns the on-demand hourly price in USD for a
// Linux instance of the given type in the given region, and where the
// figure came from. On any lookup failure it returns 0 with SourceNA;
// pricing is advisory and never blocks a run.
func (c *Client) InstanceHourlyPrice(ctx context.Context, instanceType, region string) (float64, Source) {
	cacheKey := fmt.Sprintf("%s:%s", region, instanceType)

	if price, ok := c.cached(cacheKey); ok {
		return price, SourceCache
	}

	price, err := c.fetchHourlyPrice(ctx, instanceType, region)
	if err != nil {
		return 0, SourceNA
	}

	c.store(cacheKey, price)
	return price, SourceAPI
}

// MonthlyCost returns the estimated on-demand monthly cost for an
// instance type, which is also the monthly savings from terminating it.
func (c *Client) MonthlyCost(ctx context.Context, instanceType, region string) (float64, Source) {
	hourly, source := c.InstanceHourlyPrice(ctx, instanceType, region)
	if source == SourceNA {
		return 0, SourceNA
	}
	return hourly * MonthlyHours, source
}

// fetchHourlyPrice queries the Pricing API for one Linux on-demand
// shared-tenancy SKU.
func (c *Client) fetchHourlyPrice(ctx context.Context, instanceType, region string) (float64, error) {
	filters := []types.Filter{
		termMatch("instanceType", instanceType),
		termMatch("location", utils.GetRegionDescriptiveName(region)),
		termMatch("operatingSystem", "Linux"),
		termMatch("tenancy", "Shared"),
		termMatch("preInstalledSw", "NA"),
		termMatch("capacitystatus", "Used"),
	}

	input := &pricing.GetProductsInput{
		ServiceCode: aws.String("AmazonEC2"),
		Filters:     filters,
		MaxResults:  aws.Int32(1),
	}

	resp, err := c.api.GetProducts(ctx, input)
	if err != nil {
		return 0, fmt.Errorf("error calling AWS Pricing API: %w", err)
	}
	if len(resp.PriceList) == 0 {
		return 0, fmt.Errorf("no pricing found for %s in region %s", instanceType, region)
	}

	return extractOnDemandPrice(resp.PriceList[0])
}

func termMatch(field, value string) types.Filter {
	return types.Filter{
		Type:  types.FilterTypeTermMatch,
		Field: aws.String(field),
		Value: aws.String(value),
	}
}

// priceListEntry mirrors the slice of the Pricing API JSON the lookup
// needs: terms -> OnDemand -> <sku> -> priceDimensions -> <dim> ->
// pricePerUnit -> USD.
type priceListEntry struct {
	Terms struct {
		OnDemand map[string]struct {
			PriceDimensions map[string]struct {
				PricePerUnit struct {
					USD string `json:"USD"`
				} `json:"pricePerUnit"`
			} `json:"priceDimensions"`
		} `json:"OnDemand"`
	} `json:"terms"`
}

// extractOnDemandPrice pulls the USD price out of one price list entry.
func extractOnDemandPrice(priceJSON string) (float64, error) {
	var entry priceListEntry
	if err := json.Unmarshal([]byte(priceJSON), &entry); err != nil {
		return 0, fmt.Errorf("error parsing pricing data: %w", err)
	}

	for _, offer := range entry.Terms.OnDemand {
		for _, dimension := range offer.PriceDimensions {
			if dimension.PricePerUnit.USD == "" {
				continue
			}
			price, err := strconv.ParseFloat(dimension.PricePerUnit.USD, 64)
			if err != nil {
				return 0, fmt.Errorf("error parsing price: %w", err)
			}
			return price, nil
		}
	}

	return 0, fmt.Errorf("no on-demand price dimension found")
}
