package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetailsJSON_ValueAndScan(t *testing.T) {
	d := DetailsJSON(`{"pause_ratio":0.12}`)
	v, err := d.Value()
	require.NoError(t, err)
	assert.Equal(t, `{"pause_ratio":0.12}`, v)

	var empty DetailsJSON
	v, err = empty.Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = DetailsJSON(`{broken`).Value()
	assert.Error(t, err)

	var scanned DetailsJSON
	require.NoError(t, scanned.Scan([]byte(`{"a":1}`)))
	assert.Equal(t, `{"a":1}`, string(scanned))
	require.NoError(t, scanned.Scan(nil))
	assert.Nil(t, scanned)
	assert.Error(t, scanned.Scan(42))
}

func TestDetailsJSON_EmbedsRawInResponses(t *testing.T) {
	out, err := json.Marshal(struct {
		Details DetailsJSON `json:"details"`
		Missing DetailsJSON `json:"missing"`
	}{Details: DetailsJSON(`{"a":1}`)})

	require.NoError(t, err)
	assert.JSONEq(t, `{"details":{"a":1},"missing":null}`, string(out))
}
