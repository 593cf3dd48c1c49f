package factory

import (
	"fmt"

	"github.com/warp/budget-engine/budget"
)

// StandardDistribution is the 40/33/27 decade split the simulation starts
// every month with.
func StandardDistribution() budget.DecadeDistribution {
	return budget.DecadeDistribution{D1: 40, D2: 33, D3: 27}
}

// DemoPlanJSON returns the three-product demo plan used by the simulation's
// first exercise: no growth, standard split every month.
func DemoPlanJSON(id, name string) string {
	return fmt.Sprintf(`{
		"id": %q,
		"name": %q,
		"year": 2025,
		"products": [
			{"id": "product-1", "name": "Product 1", "base_quantity": 2650},
			{"id": "product-2", "name": "Product 2", "base_quantity": 1920},
			{"id": "product-3", "name": "Product 3", "base_quantity": 1060}
		]
	}`, id, name)
}
