package awsauth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_StaticCredentials(t *testing.T) {
	cfg, err := LoadConfig(context.Background(), Credentials{
		AccessKey: "AKIA_TEST",
		SecretKey: "SECRET_TEST",
		Region:    "ap-northeast-2",
	})
	require.NoError(t, err)
	assert.Equal(t, "ap-northeast-2", cfg.Region)

	creds, err := cfg.Credentials.Retrieve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "AKIA_TEST", creds.AccessKeyID)
	assert.Equal(t, "SECRET_TEST", creds.SecretAccessKey)
}

func TestLoadConfig_DefaultRegion(t *testing.T) {
	cfg, err := LoadConfig(context.Background(), Credentials{AccessKey: "a", SecretKey: "b"})
	require.NoError(t, err)
	assert.Equal(t, DefaultRegion, cfg.Region)
}

func TestCredentials_Key(t *testing.T) {
	a := Credentials{AccessKey: "a", Region: "us-east-1"}
	b := Credentials{AccessKey: "a"}
	c := Credentials{AccessKey: "a", RoleARN: "arn:aws:iam::1:role/x"}

	assert.Equal(t, a.Key(), b.Key())
	assert.NotEqual(t, a.Key(), c.Key())
}
