package store

import "time"

// Page selects a window of a listing. Rows soft-deleted at or before AsOf
// are excluded.
type Page struct {
	Limit  int
	Offset int
	AsOf   time.Time
}
