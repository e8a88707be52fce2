package types

// RelayResponse is the JSON body returned for a successful delivery.
type RelayResponse struct {
	OK bool   `json:"ok"`
	ID string `json:"id,omitempty"`
}

// ErrorResponse is the JSON body produced by the error-handler middleware.
type ErrorResponse struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
	Code    string `json:"code"`
}
