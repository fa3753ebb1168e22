package utils

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/stretchr/testify/assert"
)

func TestGetName(t *testing.T) {
	tags := []types.Tag{
		{Key: aws.String("Team"), Value: aws.String("platform")},
		{Key: aws.String("Name"), Value: aws.String("web-1")},
	}
	assert.Equal(t, "web-1", GetName(tags))
	assert.Equal(t, "", GetName(nil))
	assert.Equal(t, "", GetName([]types.Tag{{Key: aws.String("Name")}}))
}

func TestSafeDeref(t *testing.T) {
	assert.Equal(t, "", SafeDeref(nil))
	assert.Equal(t, "x", SafeDeref(aws.String("x")))
}

func TestRegionHelpers(t *testing.T) {
	assert.True(t, IsValidRegion("us-east-1"))
	assert.False(t, IsValidRegion("mars-north-1"))
	assert.Equal(t, "us-east-1", GetDefaultRegion())
	assert.Equal(t, "EU (Ireland)", GetRegionDescriptiveName("eu-west-1"))
	assert.Equal(t, "US East (N. Virginia)", GetRegionDescriptiveName("unknown"))
}
