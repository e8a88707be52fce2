package types

import "strings"

// SubmissionSource tags where on the website a submission originated.
type SubmissionSource string

const (
	SourceContact SubmissionSource = "contact"
	SourceBooking SubmissionSource = "booking"
)

// SubmissionRequest is the raw JSON body of one incoming form submission.
// It is the only place the untyped client payload is consumed; everything
// downstream works with the validated Submission.
type SubmissionRequest struct {
	Name        string           `json:"name"`
	Email       string           `json:"email"`
	Phone       string           `json:"phone,omitempty"`
	Subject     string           `json:"subject,omitempty"`
	Service     string           `json:"service,omitempty"`
	Source      SubmissionSource `json:"source,omitempty"`
	Message     string           `json:"message"`
	Attachments []AttachmentIn   `json:"attachments,omitempty"`
}

// MissingFields returns the names of required fields that are absent or
// blank after trimming. An empty result means the submission passes
// presence validation; no format validation is applied beyond that.
func (r *SubmissionRequest) MissingFields() []string {
	var missing []string
	if strings.TrimSpace(r.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(r.Email) == "" {
		missing = append(missing, "email")
	}
	if strings.TrimSpace(r.Message) == "" {
		missing = append(missing, "message")
	}
	return missing
}

// AttachmentIn is a client-supplied file as it arrives on the wire:
// base64 text, optionally prefixed with a data-URI scheme.
type AttachmentIn struct {
	Filename    string `json:"filename,omitempty"`
	Content     string `json:"content"`
	ContentType string `json:"contentType,omitempty"`
}

// Attachment is a decoded file ready to be forwarded to the provider.
type Attachment struct {
	Filename    string
	Content     []byte
	ContentType string
}

// Submission is a validated payload with decoded attachments, produced
// only by the relay handler's validation step.
type Submission struct {
	Name        string
	Email       string
	Phone       string
	Subject     string
	Service     string
	Source      SubmissionSource
	Message     string
	Attachments []Attachment
}

// RelayResult is the normalized outcome of one delivery attempt.
type RelayResult struct {
	OK bool
	// ID is the provider-assigned message identifier, present on success.
	ID string
}
