package engine

import (
	"math"
	"strings"

	"github.com/Lydiiiiia27/ups-delivery-system/store"
)

// ParseTruckStatus maps a World status string to a truck status. Matching is
// case-insensitive; ok is false for strings outside the vocabulary.
func ParseTruckStatus(s string) (store.TruckStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "idle":
		return store.TruckIdle, true
	case "traveling":
		return store.TruckTraveling, true
	case "arrive warehouse":
		return store.TruckArriveWarehouse, true
	case "loading":
		return store.TruckLoading, true
	case "delivering":
		return store.TruckDelivering, true
	}
	return "", false
}

// derivePackageStatus returns the package status implied by a truck moving
// from old to next, and whether it differs from current.
func derivePackageStatus(current store.PackageStatus, old, next store.TruckStatus) (store.PackageStatus, bool) {
	var derived store.PackageStatus
	switch {
	case next == store.TruckLoading:
		derived = store.PackageLoading
	case next == store.TruckDelivering:
		derived = store.PackageDelivering
	case next == store.TruckIdle && old == store.TruckDelivering:
		derived = store.PackageDelivered
	default:
		return current, false
	}
	return derived, derived != current
}

func distance(x1, y1, x2, y2 int) int {
	dx := float64(x1 - x2)
	dy := float64(y1 - y2)
	return int(math.Sqrt(dx*dx + dy*dy))
}

// nearestWarehouse returns the closest warehouse within threshold of (x, y),
// or nil when none qualifies.
func nearestWarehouse(warehouses []*store.Warehouse, x, y, threshold int) *store.Warehouse {
	var best *store.Warehouse
	bestDist := 0
	for _, w := range warehouses {
		d := distance(x, y, w.X, w.Y)
		if d > threshold {
			continue
		}
		if best == nil || d < bestDist {
			best, bestDist = w, d
		}
	}
	return best
}
