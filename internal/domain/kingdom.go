package domain

// Kingdom is one of the six biological kingdoms a species can belong to.
type Kingdom string

const (
	KingdomAnimalia Kingdom = "Animalia"
	KingdomPlantae  Kingdom = "Plantae"
	KingdomFungi    Kingdom = "Fungi"
	KingdomProtista Kingdom = "Protista"
	KingdomArchaea  Kingdom = "Archaea"
	KingdomBacteria Kingdom = "Bacteria"
)

var kingdoms = []Kingdom{
	KingdomAnimalia,
	KingdomPlantae,
	KingdomFungi,
	KingdomProtista,
	KingdomArchaea,
	KingdomBacteria,
}

// Kingdoms returns the allowed kingdoms in display order.
func Kingdoms() []Kingdom {
	out := make([]Kingdom, len(kingdoms))
	copy(out, kingdoms)
	return out
}

// Valid reports whether k is one of the six allowed values. Matching is exact.
func (k Kingdom) Valid() bool {
	for _, v := range kingdoms {
		if k == v {
			return true
		}
	}
	return false
}

func (k Kingdom) String() string { return string(k) }
