package bedrock

import (
	"context"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/memorylane/dailyquestion/pkg/infra/awsauth"
	"golang.org/x/sync/singleflight"
)

// Runtime is the part of the Bedrock runtime API used for embeddings and
// question generation.
//
//go:generate mockery --name=Runtime --dir=. --output=./mocks --filename=bedrock_runtime_mock.go --case=underscore --with-expecter
type Runtime interface {
	InvokeModel(
		ctx context.Context,
		params *bedrockruntime.InvokeModelInput,
		optFns ...func(*bedrockruntime.Options),
	) (*bedrockruntime.InvokeModelOutput, error)
	Converse(
		ctx context.Context,
		params *bedrockruntime.ConverseInput,
		optFns ...func(*bedrockruntime.Options),
	) (*bedrockruntime.ConverseOutput, error)
}

//go:generate mockery --name=Client --dir=. --output=./mocks --filename=bedrock_client_mock.go --case=underscore --with-expecter
type Client interface {
	BuildClient(ctx context.Context, creds awsauth.Credentials) (Runtime, error)
}

type client struct {
	pool sync.Map
	sf   singleflight.Group
}

func NewClient() Client {
	return &client{}
}

// BuildClient returns one runtime client per credential set.
func (c *client) BuildClient(ctx context.Context, creds awsauth.Credentials) (Runtime, error) {
	key := creds.Key()
	if v, ok := c.pool.Load(key); ok {
		return v.(*bedrockruntime.Client), nil
	}

	v, err, _ := c.sf.Do(key, func() (interface{}, error) {
		if v, ok := c.pool.Load(key); ok {
			return v, nil
		}
		cfg, err := awsauth.LoadConfig(ctx, creds)
		if err != nil {
			return nil, err
		}
		rc := bedrockruntime.NewFromConfig(cfg)
		c.pool.Store(key, rc)
		return rc, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build Bedrock client: %w", err)
	}
	return v.(*bedrockruntime.Client), nil
}
