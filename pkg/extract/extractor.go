package extract

import "github.com/entrhq/apptcapture/pkg/types"

// DefaultInterest pre-populates "looking for" when the page names no vehicle.
const DefaultInterest = "Open to inventory"

// Result is everything the panel is seeded with.
type Result struct {
	Contact  types.ContactCandidate
	Source   string
	Interest string
	Location string

	// Strategy names the strategy that produced Contact, empty if none applied.
	Strategy string
}

// Extractor runs an ordered list of strategies, first match wins.
type Extractor struct {
	strategies []ExtractionStrategy
}

// NewExtractor returns an extractor that prefers the conversation view over
// the edit form: the form's inputs are reused across records and go stale.
func NewExtractor() *Extractor {
	return &Extractor{
		strategies: []ExtractionStrategy{
			ConversationViewStrategy{},
			EditFormStrategy{},
		},
	}
}

// NewExtractorWith builds an extractor from a custom strategy order.
func NewExtractorWith(strategies ...ExtractionStrategy) *Extractor {
	return &Extractor{strategies: strategies}
}

// Strategies returns the names in the order they are tried.
func (e *Extractor) Strategies() []string {
	names := make([]string, len(e.strategies))
	for i, s := range e.strategies {
		names[i] = s.Name()
	}
	return names
}

// Contact returns the first applicable strategy's result.
func (e *Extractor) Contact(p Page) (types.ContactCandidate, string) {
	for _, s := range e.strategies {
		if c, ok := s.Extract(p); ok {
			return c, s.Name()
		}
	}
	return types.ContactCandidate{}, ""
}

// Extract reads every seeded field. It never fails: a lookup that finds
// nothing yields an empty string.
func (e *Extractor) Extract(p Page) Result {
	contact, strategy := e.Contact(p)
	return Result{
		Contact:  contact,
		Source:   ExtractSource(p),
		Interest: ExtractInterest(p),
		Location: ExtractLocation(p),
		Strategy: strategy,
	}
}

// ExtractSource returns the lead source input.
func ExtractSource(p Page) string {
	return input(p, InputSource)
}

// ExtractInterest joins year, make, model and stock number, falling back to
// DefaultInterest when all are empty.
func ExtractInterest(p Page) string {
	vehicle := joinNonEmpty(" ",
		input(p, InputYear),
		input(p, InputMake),
		input(p, InputModel),
		input(p, InputStock),
	)
	if vehicle == "" {
		return DefaultInterest
	}
	return vehicle
}

// ExtractLocation returns "City, State", dropping whichever side is empty.
func ExtractLocation(p Page) string {
	return joinNonEmpty(", ", input(p, InputCity), input(p, InputState))
}
