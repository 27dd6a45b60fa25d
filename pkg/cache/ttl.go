package cache

import "time"

// Standard TTLs per entry kind. Parsed graphs are cheap to rebuild and
// churn with their sources; layouts are the expensive product.
const (
	TTLGraph  = 24 * time.Hour
	TTLLayout = 7 * 24 * time.Hour
)
