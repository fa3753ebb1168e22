package aws

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/younsl/reclaimd/internal/models"
	"github.com/younsl/reclaimd/pkg/utils"
)

// EC2Client struct for EC2 client
type EC2Client struct {
	client *ec2.Client
	region string
}

// NewEC2Client creates a new EC2Client
func NewEC2Client(cfg aws.Config, region string) *EC2Client {
	return &EC2Client{
		client: ec2.NewFromConfig(cfg),
		region: region,
	}
}

// ListRunningInstances returns a snapshot of all EC2 instances in the
// running state. The state filter is applied server-side so stopped,
// pending and terminated instances never reach the engine.
func (c *EC2Client) ListRunningInstances(ctx context.Context) (models.FleetSnapshot, error) {
	filter := types.Filter{
		Name:   aws.String("instance-state-name"),
		Values: []string{string(types.InstanceStateNameRunning)},
	}

	snapshot := models.FleetSnapshot{TakenAt: time.Now()}

	var nextToken *string
	for {
		input := &ec2.DescribeInstancesInput{
			Filters:   []types.Filter{filter},
			NextToken: nextToken,
		}

		result, err := c.client.DescribeInstances(ctx, input)
		if err != nil {
			return models.FleetSnapshot{}, fmt.Errorf("error querying EC2 instances: %w", err)
		}

		for _, reservation := range result.Reservations {
			for _, instance := range reservation.Instances {
				info := models.Instance{
					InstanceID:   utils.SafeDeref(instance.InstanceId),
					Name:         utils.GetName(instance.Tags),
					InstanceType: string(instance.InstanceType),
					Region:       c.region,
				}
				if instance.Placement != nil {
					info.AvailabilityZone = utils.SafeDeref(instance.Placement.AvailabilityZone)
				}
				if instance.LaunchTime != nil {
					info.LaunchTime = *instance.LaunchTime
				}
				snapshot.Instances = append(snapshot.Instances, info)
			}
		}

		if result.NextToken == nil || *result.NextToken == "" {
			break
		}
		nextToken = result.NextToken
	}

	return snapshot, nil
}

// TerminateInstance issues a termination request for one instance.
// TerminateInstances is idempotent for instances already shutting
// down, so a duplicate request from an overlapping run is harmless.
func (c *EC2Client) TerminateInstance(ctx context.Context, instanceID string) error {
	input := &ec2.TerminateInstancesInput{
		InstanceIds: []string{instanceID},
	}

	if _, err := c.client.TerminateInstances(ctx, input); err != nil {
		return fmt.Errorf("error terminating instance %s: %w", instanceID, err)
	}
	return nil
}
