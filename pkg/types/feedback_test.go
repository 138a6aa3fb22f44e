package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewFeedbackRecord(t *testing.T) {
	rec := NewFeedbackRecord("id-1", "Ada", "Lovelace", "great rides")

	assert.Equal(t, "id-1", rec.ID)
	assert.Equal(t, "Ada Lovelace", rec.Name)
	assert.Empty(t, rec.Sentiment)
	assert.Empty(t, rec.Gender)
}

func TestNewFeedbackRecord_EmptyInputs(t *testing.T) {
	rec := NewFeedbackRecord("id-2", "", "", "")
	assert.Equal(t, " ", rec.Name)
}

func TestParseSentiment(t *testing.T) {
	tests := []struct {
		in   string
		want Sentiment
		ok   bool
	}{
		{"POSITIVE", SentimentPositive, true},
		{"negative", SentimentNegative, true},
		{"  Neutral\n", SentimentNeutral, true},
		{"MIXED", SentimentMixed, true},
		{"happy", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseSentiment(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAnnotationKind_Attribute(t *testing.T) {
	assert.Equal(t, "Sentiment", AnnotationSentiment.Attribute())
	assert.Equal(t, "Gender", AnnotationGender.Attribute())
	assert.Equal(t, "", AnnotationKind("AGE").Attribute())
}

func TestFeedbackRecord_Apply(t *testing.T) {
	rec := NewFeedbackRecord("id", "Bo", "Li", "meh")

	rec.Apply(AnnotationSentiment, "NEUTRAL")
	rec.Apply(AnnotationGender, "Male")

	assert.Equal(t, SentimentNeutral, rec.Sentiment)
	assert.Equal(t, GenderMale, rec.Gender)
}
