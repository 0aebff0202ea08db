package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCatalogByPriceID(t *testing.T) {
	c := NewCatalog("price_basic", "price_pro")

	plan, ok := c.ByPriceID("price_basic")
	assert.True(t, ok)
	assert.Equal(t, "Basic", plan.Name)
	assert.Equal(t, 100, plan.Points)

	plan, ok = c.ByPriceID("price_pro")
	assert.True(t, ok)
	assert.Equal(t, "Pro", plan.Name)
	assert.Equal(t, 500, plan.Points)
}

func TestCatalogUnknownPriceID(t *testing.T) {
	c := NewCatalog("price_basic", "price_pro")

	_, ok := c.ByPriceID("price_unknown")
	assert.False(t, ok)
}

func TestCatalogPriceIDForPlan(t *testing.T) {
	c := NewCatalog("price_basic", "price_pro")

	priceID, ok := c.PriceIDForPlan("Pro")
	assert.True(t, ok)
	assert.Equal(t, "price_pro", priceID)

	_, ok = c.PriceIDForPlan("Enterprise")
	assert.False(t, ok)
}

func TestCatalogEmptyPriceIDSkipped(t *testing.T) {
	c := NewCatalog("", "price_pro")

	_, ok := c.ByPriceID("")
	assert.False(t, ok)
}
