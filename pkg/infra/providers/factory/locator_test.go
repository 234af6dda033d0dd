package factory

import (
	"testing"

	infraBedrock "github.com/memorylane/dailyquestion/pkg/infra/bedrock"
	"github.com/memorylane/dailyquestion/pkg/infra/httpx"
	"github.com/memorylane/dailyquestion/pkg/infra/providers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProviderLocator_Get(t *testing.T) {
	locator := NewProviderLocator(httpx.NewFastHTTPClient(), infraBedrock.NewClient())

	for _, name := range []string{ProviderOpenAI, ProviderGoogle, ProviderAnthropic, ProviderBedrock, ProviderAzure} {
		c, err := locator.Get(name)
		require.NoError(t, err, name)
		assert.NotNil(t, c, name)
	}

	_, err := locator.Get("mistral")
	assert.ErrorIs(t, err, providers.ErrUnsupported)
}
