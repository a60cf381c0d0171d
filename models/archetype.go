package models

import "sort"

// Archetype is a catalog entry for one personality archetype
type Archetype struct {
	Name        string `json:"name"`
	EnergyLevel int    `json:"energyLevel"` // 0-100
}

// ChemistryEntry is one symmetric archetype pairing score in a loaded catalog
type ChemistryEntry struct {
	ArchetypeA string `json:"archetypeA"`
	ArchetypeB string `json:"archetypeB"`
	Score      int    `json:"score"` // 0-100
}

// ArchetypeCatalog is the JSON document shape the table can be loaded from (e.g. S3)
type ArchetypeCatalog struct {
	Archetypes []Archetype      `json:"archetypes"`
	Chemistry  []ChemistryEntry `json:"chemistry"`
}

// ArchetypeTable is the immutable in-memory lookup built from a catalog.
// Loaded once at startup and never mutated afterwards.
type ArchetypeTable struct {
	archetypes map[string]Archetype
	chemistry  map[string]int // keyed by sorted "a|b" pair
}

const (
	// DefaultArchetype is the neutral fallback used when a profile has no archetype
	DefaultArchetype = "warmheart"

	// DefaultChemistryScore is returned for any unmapped archetype pair
	DefaultChemistryScore = 50

	// DefaultEnergyLevel is used for archetypes missing from the catalog
	DefaultEnergyLevel = 50
)

func pairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "|" + b
}

// NewArchetypeTable builds a lookup table from a catalog document
func NewArchetypeTable(catalog ArchetypeCatalog) *ArchetypeTable {
	t := &ArchetypeTable{
		archetypes: make(map[string]Archetype, len(catalog.Archetypes)),
		chemistry:  make(map[string]int, len(catalog.Chemistry)),
	}
	for _, a := range catalog.Archetypes {
		t.archetypes[a.Name] = a
	}
	for _, c := range catalog.Chemistry {
		t.chemistry[pairKey(c.ArchetypeA, c.ArchetypeB)] = c.Score
	}
	return t
}

// ChemistryScore returns the symmetric pairing score for two archetypes.
// Unknown or empty names fall back to DefaultChemistryScore.
func (t *ArchetypeTable) ChemistryScore(a, b string) int {
	if a == "" || b == "" {
		return DefaultChemistryScore
	}
	if score, ok := t.chemistry[pairKey(a, b)]; ok {
		return score
	}
	return DefaultChemistryScore
}

// EnergyLevel returns the catalog energy for an archetype, defaulting to 50
func (t *ArchetypeTable) EnergyLevel(name string) int {
	if a, ok := t.archetypes[name]; ok {
		return a.EnergyLevel
	}
	return DefaultEnergyLevel
}

// Names returns the catalog archetype names in ascending order
func (t *ArchetypeTable) Names() []string {
	names := make([]string, 0, len(t.archetypes))
	for name := range t.archetypes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultArchetypeCatalog is the built-in reference catalog, used when no
// external catalog object is configured.
func DefaultArchetypeCatalog() ArchetypeCatalog {
	return ArchetypeCatalog{
		Archetypes: []Archetype{
			{Name: "warmheart", EnergyLevel: 50},
			{Name: "spark", EnergyLevel: 90},
			{Name: "anchor", EnergyLevel: 40},
			{Name: "explorer", EnergyLevel: 80},
			{Name: "sage", EnergyLevel: 35},
			{Name: "host", EnergyLevel: 75},
			{Name: "dreamer", EnergyLevel: 55},
			{Name: "challenger", EnergyLevel: 85},
		},
		// warmheart deliberately carries no chemistry rows: as the neutral
		// fallback archetype, every lookup involving it resolves to the
		// default score of 50.
		Chemistry: []ChemistryEntry{
			{ArchetypeA: "spark", ArchetypeB: "spark", Score: 60},
			{ArchetypeA: "spark", ArchetypeB: "anchor", Score: 72},
			{ArchetypeA: "spark", ArchetypeB: "explorer", Score: 85},
			{ArchetypeA: "spark", ArchetypeB: "sage", Score: 55},
			{ArchetypeA: "spark", ArchetypeB: "host", Score: 82},
			{ArchetypeA: "spark", ArchetypeB: "dreamer", Score: 74},
			{ArchetypeA: "spark", ArchetypeB: "challenger", Score: 68},
			{ArchetypeA: "anchor", ArchetypeB: "anchor", Score: 58},
			{ArchetypeA: "anchor", ArchetypeB: "explorer", Score: 70},
			{ArchetypeA: "anchor", ArchetypeB: "sage", Score: 76},
			{ArchetypeA: "anchor", ArchetypeB: "host", Score: 73},
			{ArchetypeA: "anchor", ArchetypeB: "dreamer", Score: 71},
			{ArchetypeA: "anchor", ArchetypeB: "challenger", Score: 62},
			{ArchetypeA: "explorer", ArchetypeB: "explorer", Score: 66},
			{ArchetypeA: "explorer", ArchetypeB: "sage", Score: 64},
			{ArchetypeA: "explorer", ArchetypeB: "host", Score: 79},
			{ArchetypeA: "explorer", ArchetypeB: "dreamer", Score: 81},
			{ArchetypeA: "explorer", ArchetypeB: "challenger", Score: 75},
			{ArchetypeA: "sage", ArchetypeB: "sage", Score: 62},
			{ArchetypeA: "sage", ArchetypeB: "host", Score: 69},
			{ArchetypeA: "sage", ArchetypeB: "dreamer", Score: 77},
			{ArchetypeA: "sage", ArchetypeB: "challenger", Score: 70},
			{ArchetypeA: "host", ArchetypeB: "host", Score: 63},
			{ArchetypeA: "host", ArchetypeB: "dreamer", Score: 75},
			{ArchetypeA: "host", ArchetypeB: "challenger", Score: 72},
			{ArchetypeA: "dreamer", ArchetypeB: "dreamer", Score: 60},
			{ArchetypeA: "dreamer", ArchetypeB: "challenger", Score: 67},
			{ArchetypeA: "challenger", ArchetypeB: "challenger", Score: 52},
		},
	}
}
