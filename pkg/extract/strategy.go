package extract

import "github.com/entrhq/apptcapture/pkg/types"

// Host page selectors and input names. The host application can change these
// without notice; they are the whole contract with it.
const (
	SelectorConversationName = "h2.clamp-text.conversation-header-text"
	SelectorTruncatedText    = "span.truncate-text > span.truncate-text"

	InputFirstName = "contact.first_name"
	InputLastName  = "contact.last_name"
	InputEmail     = "contact.email"
	InputPhone     = "contact.phone"
	InputSource    = "contact.source"
	InputYear      = "contact.year"
	InputMake      = "contact.make"
	InputModel     = "contact.model"
	InputStock     = "contact.stock"
	InputCity      = "contact.city"
	InputState     = "contact.state"
)

// ExtractionStrategy derives contact fields from one representation of the
// host page. ok is false when the strategy's anchors are absent and the next
// strategy should be tried.
type ExtractionStrategy interface {
	Name() string
	Extract(p Page) (contact types.ContactCandidate, ok bool)
}

// ConversationViewStrategy reads the conversation header: a name heading and
// two truncated-text spans holding email then phone.
type ConversationViewStrategy struct{}

// Name implements ExtractionStrategy.
func (ConversationViewStrategy) Name() string { return "conversation-view" }

// Extract implements ExtractionStrategy. It applies when any of its three
// anchors is present; the missing ones come back empty.
func (ConversationViewStrategy) Extract(p Page) (types.ContactCandidate, bool) {
	name, nameOK := p.QueryText(SelectorConversationName, 0)
	email, emailOK := p.QueryText(SelectorTruncatedText, 0)
	phone, phoneOK := p.QueryText(SelectorTruncatedText, 1)
	if !nameOK && !emailOK && !phoneOK {
		return types.ContactCandidate{}, false
	}
	return types.ContactCandidate{Name: name, Email: email, Phone: phone}, true
}

// EditFormStrategy reads the contact edit form inputs. It always applies.
type EditFormStrategy struct{}

// Name implements ExtractionStrategy.
func (EditFormStrategy) Name() string { return "edit-form" }

// Extract implements ExtractionStrategy.
func (EditFormStrategy) Extract(p Page) (types.ContactCandidate, bool) {
	return types.ContactCandidate{
		Name:  joinNonEmpty(" ", input(p, InputFirstName), input(p, InputLastName)),
		Email: input(p, InputEmail),
		Phone: input(p, InputPhone),
	}, true
}
