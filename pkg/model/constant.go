package model

// Column names of the expression export and the GO annotation table.
const (
	ColGene        = "gene"
	ColT1          = "T1"
	ColT2          = "T2"
	ColQValue      = "q_value"
	ColSignificant = "significant"
	ColName        = "name"
	ColDescription = "description"
	ColGO          = "GO"
)

const (
	// DefaultQValueMax is the significance cutoff; rows with q_value above it are dropped.
	DefaultQValueMax = 0.05

	// NoGOSentinel in the GO column marks a gene without annotation.
	NoGOSentinel = "0"

	// NoNameSentinel in the name column (or as a GO description) marks a missing annotation.
	NoNameSentinel = "---NA---"

	geneVersionSeparator = "."
	goPairSeparator      = ";"
	goDomainSeparator    = ":"
)

// Domain is a GO ontology namespace.
type Domain string

const (
	CellularComponent Domain = "C"
	BiologicalProcess Domain = "P"
	MolecularFunction Domain = "F"
)

// Domains in summary emission order.
var Domains = []Domain{CellularComponent, BiologicalProcess, MolecularFunction}

func (d Domain) Valid() bool {
	switch d {
	case CellularComponent, BiologicalProcess, MolecularFunction:
		return true
	}
	return false
}

// Phase is the experimental phase an abundance was measured in.
type Phase string

const (
	PhaseI  Phase = "I"  // T1
	PhaseII Phase = "II" // T2
)

var Phases = []Phase{PhaseI, PhaseII}

// Values read as null, following the usual spreadsheet export spellings.
var nullValues = map[string]bool{
	"":     true,
	"NA":   true,
	"N/A":  true,
	"n/a":  true,
	"#N/A": true,
	"NaN":  true,
	"nan":  true,
	"-NaN": true,
	"null": true,
	"NULL": true,
	"None": true,
	"<NA>": true,
}
