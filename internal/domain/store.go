package domain

// UpsertResult reports what a chunk write did and maps each natural key
// to its surrogate id.
type UpsertResult struct {
	Inserted int
	Updated  int
	IDs      map[string]int64
}
