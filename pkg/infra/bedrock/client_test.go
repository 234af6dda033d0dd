package bedrock

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/memorylane/dailyquestion/pkg/infra/awsauth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildClient_SameKeyConcurrent_ReturnsSameInstance(t *testing.T) {
	t.Parallel()

	c := NewClient()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	creds := awsauth.Credentials{AccessKey: "AKIA_TEST", SecretKey: "SECRET_TEST", Region: "us-east-1"}

	const goroutines = 50
	var wg sync.WaitGroup
	wg.Add(goroutines)
	clients := make([]Runtime, goroutines)

	for i := 0; i < goroutines; i++ {
		go func(i int) {
			defer wg.Done()
			rc, err := c.BuildClient(ctx, creds)
			if err != nil {
				t.Errorf("BuildClient failed: %v", err)
				return
			}
			clients[i] = rc
		}(i)
	}
	wg.Wait()

	for i := 1; i < goroutines; i++ {
		assert.Same(t, clients[0], clients[i])
	}
}

func TestBuildClient_DifferentKeys_ReturnDifferentInstances(t *testing.T) {
	t.Parallel()

	c := NewClient()
	ctx := context.Background()

	a, err := c.BuildClient(ctx, awsauth.Credentials{AccessKey: "A", SecretKey: "S", Region: "us-east-1"})
	require.NoError(t, err)
	b, err := c.BuildClient(ctx, awsauth.Credentials{AccessKey: "A", SecretKey: "S", Region: "eu-west-1"})
	require.NoError(t, err)

	assert.NotSame(t, a, b)
}
