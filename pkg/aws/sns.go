package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// SNSClient struct for SNS client
type SNSClient struct {
	client *sns.Client
}

// NewSNSClient creates a new SNSClient
func NewSNSClient(cfg aws.Config) *SNSClient {
	return &SNSClient{
		client: sns.NewFromConfig(cfg),
	}
}

// Publish sends a message to the topic.
func (c *SNSClient) Publish(ctx context.Context, topicARN, subject, body string) error {
	input := &sns.PublishInput{
		TopicArn: aws.String(topicARN),
		Subject:  aws.String(subject),
		Message:  aws.String(body),
	}

	if _, err := c.client.Publish(ctx, input); err != nil {
		return fmt.Errorf("error publishing to %s: %w", topicARN, err)
	}
	return nil
}
