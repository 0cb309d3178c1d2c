package services

import "strings"

const (
	LabelSameInstitution     = "same institution"
	LabelExternalInstitution = "external institution"
)

// DestinationClassifier labels a card number by issuer prefix. It has no
// effect on validation or on money movement.
type DestinationClassifier struct {
	homePrefixes []string
}

// NewDestinationClassifier builds a classifier from the issuer prefixes that
// belong to this institution.
func NewDestinationClassifier(homePrefixes []string) *DestinationClassifier {
	prefixes := make([]string, 0, len(homePrefixes))
	for _, p := range homePrefixes {
		if p = strings.TrimSpace(p); p != "" {
			prefixes = append(prefixes, p)
		}
	}
	return &DestinationClassifier{homePrefixes: prefixes}
}

func (c *DestinationClassifier) Classify(cardNumber string) string {
	for _, p := range c.homePrefixes {
		if strings.HasPrefix(cardNumber, p) {
			return LabelSameInstitution
		}
	}
	return LabelExternalInstitution
}
