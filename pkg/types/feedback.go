package types

import "strings"

// FeedbackRecord is a single feedback submission plus its derived annotations.
// Attribute names match the UnicornFeedback table.
type FeedbackRecord struct {
	ID        string    `json:"ID" dynamodbav:"ID"`
	FirstName string    `json:"FirstName" dynamodbav:"FirstName"`
	LastName  string    `json:"LastName" dynamodbav:"LastName"`
	Name      string    `json:"Name" dynamodbav:"Name"` // FirstName + " " + LastName
	Feedback  string    `json:"Feedback" dynamodbav:"Feedback"`
	Sentiment Sentiment `json:"Sentiment,omitempty" dynamodbav:"Sentiment,omitempty"`
	Gender    Gender    `json:"Gender,omitempty" dynamodbav:"Gender,omitempty"`
}

// NewFeedbackRecord builds an unannotated record. Inputs are not validated.
func NewFeedbackRecord(id, firstName, lastName, feedback string) FeedbackRecord {
	return FeedbackRecord{
		ID:        id,
		FirstName: firstName,
		LastName:  lastName,
		Name:      FullName(firstName, lastName),
		Feedback:  feedback,
	}
}

// FullName is the display name used as the table's update key
func FullName(firstName, lastName string) string {
	return firstName + " " + lastName
}

// Sentiment is the label returned by a sentiment classifier
type Sentiment string

const (
	SentimentPositive Sentiment = "POSITIVE"
	SentimentNegative Sentiment = "NEGATIVE"
	SentimentNeutral  Sentiment = "NEUTRAL"
	SentimentMixed    Sentiment = "MIXED"
)

// ParseSentiment normalizes a classifier answer. ok is false for anything
// outside the four known labels.
func ParseSentiment(s string) (Sentiment, bool) {
	switch Sentiment(strings.ToUpper(strings.TrimSpace(s))) {
	case SentimentPositive:
		return SentimentPositive, true
	case SentimentNegative:
		return SentimentNegative, true
	case SentimentNeutral:
		return SentimentNeutral, true
	case SentimentMixed:
		return SentimentMixed, true
	}
	return "", false
}

// Gender is the annotation derived from a first name
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
)

// AnnotationKind selects which derived field an annotation run writes
type AnnotationKind string

const (
	AnnotationSentiment AnnotationKind = "SENTIMENT"
	AnnotationGender    AnnotationKind = "GENDER"
)

// Attribute returns the record attribute written for this kind, or "" if the
// kind is unknown.
func (k AnnotationKind) Attribute() string {
	switch k {
	case AnnotationSentiment:
		return "Sentiment"
	case AnnotationGender:
		return "Gender"
	}
	return ""
}

// Apply sets the annotation field for kind on the record
func (r *FeedbackRecord) Apply(kind AnnotationKind, value string) {
	switch kind {
	case AnnotationSentiment:
		r.Sentiment = Sentiment(value)
	case AnnotationGender:
		r.Gender = Gender(value)
	}
}
