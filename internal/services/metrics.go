package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// wishlistChanges counts wishlist mutations by outcome: added, duplicate,
// removed, cleared. Clears add the number of deleted entries.
var wishlistChanges = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "trek_wishlist_changes_total",
		Help: "Wishlist entries added, re-added, removed or cleared",
	},
	[]string{"outcome"},
)
