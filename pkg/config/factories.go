package config

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/mitchellh/mapstructure"

	"github.com/marmos91/nsfs/pkg/naming"
	"github.com/marmos91/nsfs/pkg/storageengine"
	"github.com/marmos91/nsfs/pkg/storageengine/localdisk"
	"github.com/marmos91/nsfs/pkg/storageengine/s3backend"
)

// CreateStorageEngine creates a storageengine.Engine based on cfg.Backend.
func CreateStorageEngine(ctx context.Context, cfg *StorageConfig) (storageengine.Engine, error) {
	switch cfg.Backend {
	case "local":
		return createLocalEngine(cfg.Local)
	case "s3":
		return createS3Engine(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("unknown storage backend: %q", cfg.Backend)
	}
}

func createLocalEngine(options map[string]any) (storageengine.Engine, error) {
	type localEngineConfig struct {
		Root string `mapstructure:"root"`
	}

	var engineCfg localEngineConfig
	if err := mapstructure.Decode(options, &engineCfg); err != nil {
		return nil, fmt.Errorf("failed to decode local backend config: %w", err)
	}
	if engineCfg.Root == "" {
		return nil, fmt.Errorf("local backend: root is required")
	}

	engine, err := localdisk.New(engineCfg.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to create local storage engine: %w", err)
	}
	return engine, nil
}

func createS3Engine(ctx context.Context, options map[string]any) (storageengine.Engine, error) {
	type s3EngineConfig struct {
		Region          string `mapstructure:"region"`
		Bucket          string `mapstructure:"bucket"`
		Prefix          string `mapstructure:"prefix"`
		Endpoint        string `mapstructure:"endpoint"`
		AccessKeyID     string `mapstructure:"access_key_id"`
		SecretAccessKey string `mapstructure:"secret_access_key"`
		MaxRetries      int    `mapstructure:"max_retries"`
	}

	var engineCfg s3EngineConfig
	if err := mapstructure.Decode(options, &engineCfg); err != nil {
		return nil, fmt.Errorf("failed to decode s3 backend config: %w", err)
	}
	if engineCfg.Bucket == "" {
		return nil, fmt.Errorf("s3 backend: bucket is required")
	}
	if engineCfg.Region == "" {
		return nil, fmt.Errorf("s3 backend: region is required")
	}

	var opts []func(*awsConfig.LoadOptions) error
	opts = append(opts, awsConfig.WithRegion(engineCfg.Region))

	if engineCfg.Endpoint != "" {
		//nolint:staticcheck // TODO: migrate to BaseEndpoint when AWS SDK v2 stabilizes the new API
		resolver := aws.EndpointResolverWithOptionsFunc(
			func(service, region string, options ...interface{}) (aws.Endpoint, error) {
				//nolint:staticcheck
				return aws.Endpoint{URL: engineCfg.Endpoint, HostnameImmutable: true, Source: aws.EndpointSourceCustom}, nil
			},
		)
		//nolint:staticcheck
		opts = append(opts, awsConfig.WithEndpointResolverWithOptions(resolver))
	}

	if engineCfg.AccessKeyID != "" && engineCfg.SecretAccessKey != "" {
		provider := credentials.NewStaticCredentialsProvider(engineCfg.AccessKeyID, engineCfg.SecretAccessKey, "")
		opts = append(opts, awsConfig.WithCredentialsProvider(provider))
	}

	maxRetries := engineCfg.MaxRetries
	if maxRetries == 0 {
		maxRetries = 10
	}
	opts = append(opts, awsConfig.WithRetryer(func() aws.Retryer {
		return retry.NewStandard(func(o *retry.StandardOptions) { o.MaxAttempts = maxRetries })
	}))

	awsCfg, err := awsConfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if engineCfg.Endpoint != "" {
			o.UsePathStyle = true
		}
	})

	engine, err := s3backend.New(s3backend.Config{Client: client, Bucket: engineCfg.Bucket, Prefix: engineCfg.Prefix})
	if err != nil {
		return nil, fmt.Errorf("failed to create s3 storage engine: %w", err)
	}
	return engine, nil
}

// CreatePlacementPolicy creates a naming.SelectionPolicy based on
// cfg.Placement.
func CreatePlacementPolicy(cfg *NamingConfig) (naming.SelectionPolicy, error) {
	switch cfg.Placement {
	case "round_robin":
		return naming.NewRoundRobin(), nil
	case "fixed_primary":
		return naming.FixedPrimary{}, nil
	default:
		return nil, fmt.Errorf("unknown placement policy: %q", cfg.Placement)
	}
}
