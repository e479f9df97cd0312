package fx

// Path names how a conversion was resolved.
type Path string

const (
	PathDirect   Path = "direct"
	PathInverse  Path = "inverse"
	PathFallback Path = "fallback"
)

// Leg is one side of a conversion.
type Leg string

const (
	LegSource Leg = "source"
	LegTarget Leg = "target"
)

// Conversion is a resolved conversion.
type Conversion struct {
	Amount float64 `json:"amount"`
	// Rate is units of target per unit of source.
	Rate      float64 `json:"rate"`
	Path      Path    `json:"path"`
	Corrected []Leg   `json:"corrected,omitempty"`
}

// LegSides returns the quote sides consulted for the source and the target
// currency. Each leg is read on its counter-quote: a buying conversion reads
// the source's selling price and the target's buying price.
func LegSides(mode Side) (source, target Side) {
	if mode == Buying {
		return Selling, Buying
	}
	return Buying, Selling
}

// Convert converts amount of from into to.
//
// A directly configured from->to pair wins, then an inverse to->from pair,
// then the per-currency rates of both sides. The second return value is false
// when none of these yields a finite result.
func (r Resolver) Convert(amount float64, from, to *Currency, mode Side, pairs []PairRate) (Conversion, bool) {
	if from == nil || to == nil || !mode.Valid() || !finite(amount) {
		return Conversion{}, false
	}

	if conv, ok := direct(amount, from, to, mode, pairs); ok {
		return conv, true
	}
	if conv, ok := inverse(amount, from, to, mode, pairs); ok {
		return conv, true
	}
	return r.fallback(amount, from, to, mode)
}

func direct(amount float64, from, to *Currency, mode Side, pairs []PairRate) (Conversion, bool) {
	p := findPair(pairs, from.Code, to.Code)
	if p == nil {
		return Conversion{}, false
	}
	price, ok := p.price(mode).Float()
	if !ok || price < 0 {
		return Conversion{}, false
	}
	out := amount * price
	if !finite(out) {
		return Conversion{}, false
	}
	return Conversion{Amount: out, Rate: price, Path: PathDirect}, true
}

func inverse(amount float64, from, to *Currency, mode Side, pairs []PairRate) (Conversion, bool) {
	p := findPair(pairs, to.Code, from.Code)
	if p == nil {
		return Conversion{}, false
	}
	field := p.price(mode.Opposite())
	if !field.Present() {
		field = p.price(mode)
	}
	price, ok := field.Float()
	if !ok || price <= 0 {
		return Conversion{}, false
	}
	out := amount / price
	if !finite(out) {
		return Conversion{}, false
	}
	return Conversion{Amount: out, Rate: 1 / price, Path: PathInverse}, true
}

func (r Resolver) fallback(amount float64, from, to *Currency, mode Side) (Conversion, bool) {
	sourceSide, targetSide := LegSides(mode)

	fromRate, ok := r.EffectiveRate(from, sourceSide)
	if !ok {
		return Conversion{}, false
	}
	toRate, ok := r.EffectiveRate(to, targetSide)
	if !ok {
		return Conversion{}, false
	}

	var corrected []Leg
	var fixed bool
	if fromRate, fixed = r.correctSource(from, to, sourceSide, fromRate); fixed {
		corrected = append(corrected, LegSource)
	}
	if toRate, fixed = r.correctLeg(to, targetSide, toRate); fixed {
		corrected = append(corrected, LegTarget)
	}

	// A percentage below -100% yields a negative rate, which is never a price.
	if fromRate < 0 || toRate <= 0 {
		return Conversion{}, false
	}
	rate := fromRate / toRate
	out := amount * rate
	if !finite(rate) || !finite(out) {
		return Conversion{}, false
	}
	return Conversion{Amount: out, Rate: rate, Path: PathFallback, Corrected: corrected}, true
}
