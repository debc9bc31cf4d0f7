package publishers

import (
	"context"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
)

// loadAWSConfig resolves the SDK config for a sink, honoring an optional endpoint
// override (e.g. LocalStack) and static keys.
func loadAWSConfig(ctx context.Context, access AWSAccessConfig) (aws.Config, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	opts := []func(*awscfg.LoadOptions) error{awscfg.WithRegion(access.Region)}
	if access.AccessKeyID != "" {
		opts = append(opts, awscfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(access.AccessKeyID, access.SecretAccessKey, ""),
		))
	}

	cfg, err := awscfg.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("load aws config: %w", err)
	}
	if access.Endpoint != "" {
		cfg.BaseEndpoint = aws.String(access.Endpoint)
	}
	return cfg, nil
}

type messageAttribute struct {
	dataType string
	value    string
}

// eventAttributes returns the message attributes shared by SQS and SNS.
func eventAttributes(evt Event) map[string]messageAttribute {
	return map[string]messageAttribute{
		"event_id":    {dataType: "String", value: evt.ID},
		"status_code": {dataType: "Number", value: strconv.Itoa(evt.StatusCode)},
	}
}
