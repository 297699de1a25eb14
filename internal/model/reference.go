package model

import "strings"

// Disease is one entry of the controlled disease vocabulary.
type Disease struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Aliases []string `json:"aliases,omitempty"`
}

// Country is one entry of the country reference table.
type Country struct {
	Code    string   `json:"code"`
	Name    string   `json:"name"`
	Aliases []string `json:"aliases,omitempty"`
}

// ReferenceSet holds the disease/country lookup tables for one run.
// Loaded once per run and passed explicitly to components that need it;
// never mutated during a run.
type ReferenceSet struct {
	Diseases  []Disease
	Countries []Country

	diseaseByName map[string]Disease
	countryByName map[string]Country
}

// NewReferenceSet builds lookup indexes over the given tables.
func NewReferenceSet(diseases []Disease, countries []Country) *ReferenceSet {
	rs := &ReferenceSet{
		Diseases:      diseases,
		Countries:     countries,
		diseaseByName: make(map[string]Disease, len(diseases)*2),
		countryByName: make(map[string]Country, len(countries)*2),
	}

	for _, d := range diseases {
		rs.diseaseByName[normalizeRefKey(d.Name)] = d
		for _, alias := range d.Aliases {
			rs.diseaseByName[normalizeRefKey(alias)] = d
		}
	}
	for _, c := range countries {
		rs.countryByName[normalizeRefKey(c.Name)] = c
		rs.countryByName[normalizeRefKey(c.Code)] = c
		for _, alias := range c.Aliases {
			rs.countryByName[normalizeRefKey(alias)] = c
		}
	}

	return rs
}

// ResolveDisease matches a classifier-provided disease name against the
// vocabulary, case-insensitively, including aliases.
func (rs *ReferenceSet) ResolveDisease(name string) (Disease, bool) {
	d, ok := rs.diseaseByName[normalizeRefKey(name)]
	return d, ok
}

// ResolveCountry matches a classifier-provided location against the
// country table, case-insensitively, including codes and aliases.
func (rs *ReferenceSet) ResolveCountry(name string) (Country, bool) {
	c, ok := rs.countryByName[normalizeRefKey(name)]
	return c, ok
}

// DiseaseNames returns the vocabulary names in table order, for prompts.
func (rs *ReferenceSet) DiseaseNames() []string {
	names := make([]string, len(rs.Diseases))
	for i, d := range rs.Diseases {
		names[i] = d.Name
	}
	return names
}

func normalizeRefKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
