package model

// termSums is an insertion-ordered description -> running sum map.
type termSums struct {
	order []string
	sums  map[string]float64
}

func newTermSums() *termSums {
	return &termSums{sums: make(map[string]float64)}
}

func (s *termSums) add(description string, v float64) {
	if _, ok := s.sums[description]; !ok {
		s.order = append(s.order, description)
	}
	s.sums[description] += v
}

type groupKey struct {
	domain Domain
	phase  Phase
}

// Aggregate explodes the GO field of every joined record and sums T1 into the
// phase I and T2 into the phase II accumulator of each (domain, description)
// the record lists. A record contributes once per distinct pair. Records
// without GO annotation, and pairs whose description is "---NA---", add nothing.
func Aggregate(joined *JoinedTable) (*Summary, error) {
	groups := make(map[groupKey]*termSums, len(Domains)*len(Phases))
	for _, d := range Domains {
		for _, p := range Phases {
			groups[groupKey{d, p}] = newTermSums()
		}
	}

	for _, rec := range joined.Records {
		if !rec.HasGO {
			continue
		}

		pairs, err := ParseGOField(rec.Row, rec.GO)
		if err != nil {
			return nil, err
		}

		seen := make(map[GOPair]bool, len(pairs))
		for _, pair := range pairs {
			if seen[pair] || pair.Description == NoNameSentinel {
				continue
			}
			seen[pair] = true

			groups[groupKey{pair.Domain, PhaseI}].add(pair.Description, rec.T1)
			groups[groupKey{pair.Domain, PhaseII}].add(pair.Description, rec.T2)
		}
	}

	summary := &Summary{}
	for _, d := range Domains {
		for _, p := range Phases {
			g := groups[groupKey{d, p}]
			for _, desc := range g.order {
				summary.Records = append(summary.Records, Abundance{
					Phase:       p,
					Domain:      d,
					Description: desc,
					Abundance:   g.sums[desc],
				})
			}
		}
	}

	return summary, nil
}
