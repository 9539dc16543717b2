package flip

// Rules holds the pair-eligibility rules applied before any profit math.
type Rules struct {
	restrictedSources map[string]bool
}

// NewRules builds the rule set. Restricted venues (e.g. the Black Market)
// may appear as sell destinations but never as buy sources.
func NewRules(restrictedSources []string) Rules {
	m := make(map[string]bool, len(restrictedSources))
	for _, v := range restrictedSources {
		m[v] = true
	}
	return Rules{restrictedSources: m}
}

// Eligible reports whether an ordered (source, dest) city pair may be
// considered for a flip. Same-city pairs and restricted sources are never
// eligible; a restricted-to-restricted pair is excluded by the source rule.
func (r Rules) Eligible(sourceCity, destCity string) bool {
	if sourceCity == destCity {
		return false
	}
	if r.restrictedSources[sourceCity] {
		return false
	}
	return true
}
