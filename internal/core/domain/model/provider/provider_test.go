package provider_test

import (
	"testing"

	"catering/internal/core/domain/model/provider"
	"catering/internal/core/domain/model/restaurant"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForRestaurant(t *testing.T) {
	name, err := provider.ForRestaurant(restaurant.KindKFC)
	require.NoError(t, err)
	assert.Equal(t, provider.KFC, name)

	name, err = provider.ForRestaurant(restaurant.KindSilpo)
	require.NoError(t, err)
	assert.Equal(t, provider.Silpo, name)

	_, err = provider.ForRestaurant(restaurant.Kind("bueno"))
	assert.ErrorIs(t, err, restaurant.ErrUnsupportedRestaurant)
}

func TestMode_String(t *testing.T) {
	assert.Equal(t, "poll", provider.Poll.String())
	assert.Equal(t, "push", provider.Push.String())
	assert.Equal(t, "unknown", provider.Mode(0).String())
}
