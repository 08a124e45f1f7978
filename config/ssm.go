package config

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// NewSSMClient builds a Parameter Store client from the default AWS credential chain.
func NewSSMClient(ctx context.Context, region string) (*ssm.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{}
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}
	return ssm.NewFromConfig(cfg), nil
}

// LoadSSMParameters copies every parameter under prefix into config, keyed by
// the last path segment. Keys already present in config are left untouched,
// so the process environment always wins. Returns the number of keys added.
func LoadSSMParameters(ctx context.Context, config map[string]string, client ssm.GetParametersByPathAPIClient, prefix string) (int, error) {
	if prefix == "" {
		return 0, nil
	}

	paginator := ssm.NewGetParametersByPathPaginator(client, &ssm.GetParametersByPathInput{
		Path:           aws.String(prefix),
		Recursive:      aws.Bool(true),
		WithDecryption: aws.Bool(true),
	})

	added := 0
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return added, fmt.Errorf("read parameters under %s: %w", prefix, err)
		}
		for _, p := range page.Parameters {
			key := strings.TrimSpace(path.Base(aws.ToString(p.Name)))
			if key == "" || key == "/" || key == "." {
				continue
			}
			if _, exists := config[key]; exists {
				continue
			}
			config[key] = aws.ToString(p.Value)
			added++
		}
	}
	return added, nil
}
