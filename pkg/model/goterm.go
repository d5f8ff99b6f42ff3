package model

import "strings"

// GOPair is one domain:description entry of a GO annotation field.
type GOPair struct {
	Domain      Domain
	Description string
}

// ParseGOField splits a ';'-separated GO field into pairs. Each pair is trimmed
// and split on its first ':' only. Empty segments (e.g. a trailing ';') are
// skipped. row is only used for error reporting.
func ParseGOField(row int, field string) ([]GOPair, error) {
	var pairs []GOPair

	for _, raw := range strings.Split(field, goPairSeparator) {
		item := strings.TrimSpace(raw)
		if item == "" {
			continue
		}

		domain, description, ok := strings.Cut(item, goDomainSeparator)
		if !ok {
			return nil, &MalformedGOPairError{Row: row, Pair: item, GO: field}
		}

		d := Domain(domain)
		if !d.Valid() {
			return nil, &UnknownDomainError{Row: row, Domain: domain, GO: field}
		}

		pairs = append(pairs, GOPair{Domain: d, Description: description})
	}

	return pairs, nil
}

// NormalizeGeneID strips a version suffix: everything from the first '.'.
func NormalizeGeneID(id string) string {
	if i := strings.Index(id, geneVersionSeparator); i >= 0 {
		return id[:i]
	}
	return id
}

func isNull(v string) bool {
	return nullValues[strings.TrimSpace(v)]
}
