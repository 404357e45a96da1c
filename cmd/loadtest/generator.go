package main

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"
)

var (
	loanTypes = []string{"personal", "real_state", "vehicle"}

	valueRanges = map[string][2]float64{
		"personal":   {100, 10_000},
		"real_state": {300_000, 3_000_000},
		"vehicle":    {20_000, 200_000},
	}

	catalogItems = map[string][]string{
		"vehicle":    {"CAR-001", "CAR-002", "CAR-003", "CAR-004", "CAR-005"},
		"real_state": {"HOUSE-001", "HOUSE-002", "HOUSE-003", "HOUSE-004", "HOUSE-005"},
	}

	itemNames = map[string]string{
		"CAR-001":   "Tesla Model 3",
		"CAR-002":   "Toyota Camry",
		"CAR-003":   "Ford F-150",
		"CAR-004":   "Honda Civic",
		"CAR-005":   "BMW X5",
		"HOUSE-001": "Downtown Apartment",
		"HOUSE-002": "Suburban House",
		"HOUSE-003": "Beach Condo",
		"HOUSE-004": "Mountain Cabin",
		"HOUSE-005": "City Loft",
	}
)

// Generator produces synthetic loan requests. A fraction of requests omit
// required fields and a fraction of item-backed loans reference items
// missing from the catalog.
type Generator struct {
	rng            *rand.Rand
	partners       []string
	customers      int
	invalidPct     float64
	invalidItemPct float64
	now            func() time.Time
}

func NewGenerator(rng *rand.Rand, partners []string, invalidPct, invalidItemPct float64) *Generator {
	return &Generator{
		rng:            rng,
		partners:       partners,
		customers:      50,
		invalidPct:     invalidPct,
		invalidItemPct: invalidItemPct,
		now:            time.Now,
	}
}

// Next returns a request body ready to be JSON-encoded. Fields are omitted
// rather than zeroed so invalid requests look like real clients.
func (g *Generator) Next() map[string]any {
	loanType := loanTypes[g.rng.IntN(len(loanTypes))]
	bounds := valueRanges[loanType]
	value := math.Round((bounds[0]+g.rng.Float64()*(bounds[1]-bounds[0]))*100) / 100
	now := g.now().UTC()

	req := map[string]any{
		"request_id":   fmt.Sprintf("REQ-%d-%d", now.UnixMilli(), 1000+g.rng.IntN(9000)),
		"timestamp":    now.Format(time.RFC3339Nano),
		"customer_id":  fmt.Sprintf("CUST-%03d", 1+g.rng.IntN(g.customers)),
		"partner_name": g.partners[g.rng.IntN(len(g.partners))],
	}

	if g.rng.Float64() < g.invalidPct/100 {
		if g.rng.Float64() > 0.5 {
			req["loan_type"] = loanType
		}
		if g.rng.Float64() > 0.5 {
			req["loan_requested_value"] = value
		}
	} else {
		req["loan_type"] = loanType
		req["loan_requested_value"] = value
	}

	items, ok := catalogItems[loanType]
	if !ok {
		return req
	}
	if g.rng.Float64() < g.invalidItemPct/100 {
		prefix := "CAR"
		if loanType == "real_state" {
			prefix = "HOUSE"
		}
		req["loan_item"] = fmt.Sprintf("%s-%d", prefix, 100+g.rng.IntN(900))
		return req
	}
	item := items[g.rng.IntN(len(items))]
	req["loan_item"] = item
	req["loan_item_name"] = itemNames[item]
	return req
}
