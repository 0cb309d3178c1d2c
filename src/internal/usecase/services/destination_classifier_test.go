package services_test

import (
	"testing"

	"github.com/pr-poehali-dev/bank-brill-design/src/internal/usecase/services"
	"github.com/stretchr/testify/assert"
)

func TestDestinationClassifierClassify(t *testing.T) {
	classifier := services.NewDestinationClassifier([]string{"2", " 5536 ", ""})

	tests := []struct {
		card string
		want string
	}{
		{"2200123456789010", services.LabelSameInstitution},
		{"5536913700000000", services.LabelSameInstitution},
		{"5500000000000004", services.LabelExternalInstitution},
		{"4000000000000001", services.LabelExternalInstitution},
	}
	for _, tt := range tests {
		t.Run(tt.card, func(t *testing.T) {
			assert.Equal(t, tt.want, classifier.Classify(tt.card))
		})
	}
}

func TestDestinationClassifierWithoutPrefixes(t *testing.T) {
	classifier := services.NewDestinationClassifier(nil)
	assert.Equal(t, services.LabelExternalInstitution, classifier.Classify("2200123456789010"))
}
