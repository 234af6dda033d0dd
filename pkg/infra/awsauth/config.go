package awsauth

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

const (
	DefaultRegion      = "us-east-1"
	defaultSessionName = "DailyQuestionSession"
)

// Credentials selects how AWS clients authenticate. With empty keys the SDK
// default chain (env, shared config, instance role) is used. A RoleARN is
// assumed on top of whichever base credentials resolve.
type Credentials struct {
	AccessKey    string
	SecretKey    string
	SessionToken string
	Region       string
	RoleARN      string
	SessionName  string
}

// Key identifies a credential set for client pooling.
func (c Credentials) Key() string {
	return fmt.Sprintf("%s:%s:%s:%s", c.AccessKey, c.region(), c.RoleARN, c.SessionName)
}

func (c Credentials) region() string {
	if c.Region == "" {
		return DefaultRegion
	}
	return c.Region
}

func LoadConfig(ctx context.Context, creds Credentials) (aws.Config, error) {
	cfg, err := loadBase(ctx, creds.AccessKey, creds.SecretKey, creds.SessionToken, creds.region())
	if err != nil {
		return aws.Config{}, fmt.Errorf("unable to load AWS config: %w", err)
	}
	if creds.RoleARN == "" {
		return cfg, nil
	}

	sessionName := creds.SessionName
	if sessionName == "" {
		sessionName = defaultSessionName
	}
	out, err := sts.NewFromConfig(cfg).AssumeRole(ctx, &sts.AssumeRoleInput{
		RoleArn:         aws.String(creds.RoleARN),
		RoleSessionName: aws.String(sessionName),
	})
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to assume role %s: %w", creds.RoleARN, err)
	}
	return loadBase(ctx,
		aws.ToString(out.Credentials.AccessKeyId),
		aws.ToString(out.Credentials.SecretAccessKey),
		aws.ToString(out.Credentials.SessionToken),
		creds.region(),
	)
}

func loadBase(ctx context.Context, accessKey, secretKey, sessionToken, region string) (aws.Config, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if accessKey != "" && secretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(aws.CredentialsProviderFunc(
			func(ctx context.Context) (aws.Credentials, error) {
				return aws.Credentials{
					AccessKeyID:     accessKey,
					SecretAccessKey: secretKey,
					SessionToken:    sessionToken,
				}, nil
			},
		)))
	}
	return awsconfig.LoadDefaultConfig(ctx, opts...)
}
