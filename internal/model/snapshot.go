package model

// Snapshot is the full-catalog interchange document: one array per
// ingredient kind, every field included, sufficient for reconstruction.
// Importing an exported snapshot reproduces the catalog key-for-key.
type Snapshot struct {
	Hops   []Hop   `json:"hops" yaml:"hops"`
	Malts  []Malt  `json:"malts" yaml:"malts"`
	Yeasts []Yeast `json:"yeasts" yaml:"yeasts"`
}

// Len returns the total record count across all kinds.
func (s *Snapshot) Len() int {
	return len(s.Hops) + len(s.Malts) + len(s.Yeasts)
}
