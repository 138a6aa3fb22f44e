package types

// EnterFeedbackEvent is the payload accepted by the intake handler
type EnterFeedbackEvent struct {
	FirstName string `json:"FirstName"`
	LastName  string `json:"LastName"`
	Feedback  string `json:"Feedback"`
}

// AnnotateEvent is the payload accepted by the sentiment and gender handlers.
// ID holds one or more record ids joined with commas.
type AnnotateEvent struct {
	ID string `json:"ID"`
}

// StatusResponse is returned by the HTTP intake endpoint. ID is the id
// assigned to the stored submission.
type StatusResponse struct {
	Status string `json:"status"`
	ID     string `json:"id,omitempty"`
	Error  string `json:"error,omitempty"`
}
