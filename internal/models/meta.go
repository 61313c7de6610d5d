package models

// SubmissionMeta describes where a booking submission came from.
// It is only used for logs and the operator email footer.
type SubmissionMeta struct {
	RequestID string `json:"request_id,omitempty"`
	ClientIP  string `json:"client_ip,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`
	Device    string `json:"device,omitempty"`
}
