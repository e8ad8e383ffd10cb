package domain

// MessageKind classifies an inbound message event.
type MessageKind string

const (
	KindText  MessageKind = "text"
	KindMedia MessageKind = "media"
	KindOther MessageKind = "other"
)

// InboundMessage is one message event received from the gateway. It is
// consumed exactly once by the router and never mutated.
type InboundMessage struct {
	Kind           MessageKind
	Body           string
	HasQuotedReply bool
	QuotedBody     string // body of the quoted message, empty when none
	Sender         CanonicalNumber
}

// FAQ holds the question/answer pairs the router replies with. Questions and
// answers are parallel: the answer to Questions[i] is Answers[i]. Loaded once
// at startup and treated as immutable from then on.
type FAQ struct {
	Questions []string
	Answers   []string
}

// AnswerFor returns the answer whose question exactly matches body.
func (f FAQ) AnswerFor(body string) (string, bool) {
	for i, q := range f.Questions {
		if q == body {
			return f.Answers[i], true
		}
	}
	return "", false
}

// Owner is a property owner record the owner-lookup handler resolves.
type Owner struct {
	PropertyRef string
	Name        string
	Phone       CanonicalNumber
}
