package billing

// Plan is a named tier with the point grant credited on checkout.
type Plan struct {
	Name   string
	Points int
}

// Catalog maps Stripe price ids to plans. Price ids come from configuration;
// the tiers and their grants are fixed.
type Catalog struct {
	byPriceID map[string]Plan
	byName    map[string]string // plan name -> price id
}

func NewCatalog(basicPriceID, proPriceID string) *Catalog {
	c := &Catalog{
		byPriceID: make(map[string]Plan),
		byName:    make(map[string]string),
	}
	c.add(basicPriceID, Plan{Name: "Basic", Points: 100})
	c.add(proPriceID, Plan{Name: "Pro", Points: 500})
	return c
}

func (c *Catalog) add(priceID string, plan Plan) {
	if priceID == "" {
		return
	}
	c.byPriceID[priceID] = plan
	c.byName[plan.Name] = priceID
}

// ByPriceID resolves a Stripe price id to a plan.
func (c *Catalog) ByPriceID(priceID string) (Plan, bool) {
	plan, ok := c.byPriceID[priceID]
	return plan, ok
}

// PriceIDForPlan returns the price id for a plan name, used when creating
// checkout sessions.
func (c *Catalog) PriceIDForPlan(name string) (string, bool) {
	priceID, ok := c.byName[name]
	return priceID, ok
}
