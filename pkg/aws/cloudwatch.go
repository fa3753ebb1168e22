package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwTypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/younsl/reclaimd/internal/models"
)

// CloudWatchClient struct for CloudWatch client
type CloudWatchClient struct {
	client *cloudwatch.Client
}

// NewCloudWatchClient creates a new CloudWatchClient
func NewCloudWatchClient(cfg aws.Config) *CloudWatchClient {
	return &CloudWatchClient{
		client: cloudwatch.NewFromConfig(cfg),
	}
}

// GetCPUUtilization fetches the average CPUUtilization datapoints for
// one instance over the window, one datapoint per granularity bucket.
// An empty result is a valid response (no activity data yet), not an
// error.
func (c *CloudWatchClient) GetCPUUtilization(ctx context.Context, instanceID string, window models.MetricWindow) ([]models.MetricSample, error) {
	input := &cloudwatch.GetMetricStatisticsInput{
		Namespace:  aws.String("AWS/EC2"),
		MetricName: aws.String("CPUUtilization"),
		Dimensions: []cwTypes.Dimension{
			{
				Name:  aws.String("InstanceId"),
				Value: aws.String(instanceID),
			},
		},
		StartTime:  aws.Time(window.Start),
		EndTime:    aws.Time(window.End),
		Period:     aws.Int32(int32(window.Granularity.Seconds())),
		Statistics: []cwTypes.Statistic{cwTypes.StatisticAverage},
	}

	result, err := c.client.GetMetricStatistics(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("error fetching CPUUtilization for %s: %w", instanceID, err)
	}

	samples := make([]models.MetricSample, 0, len(result.Datapoints))
	for _, dp := range result.Datapoints {
		if dp.Timestamp == nil || dp.Average == nil {
			continue
		}
		samples = append(samples, models.MetricSample{
			Timestamp: *dp.Timestamp,
			Average:   *dp.Average,
		})
	}

	return samples, nil
}
