package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMissingFields(t *testing.T) {
	tests := []struct {
		name string
		req  SubmissionRequest
		want []string
	}{
		{
			name: "complete",
			req:  SubmissionRequest{Name: "Jane", Email: "jane@x.com", Message: "Hi"},
			want: nil,
		},
		{
			name: "blank name",
			req:  SubmissionRequest{Name: "", Email: "jane@x.com", Message: "Hi"},
			want: []string{"name"},
		},
		{
			name: "whitespace-only name",
			req:  SubmissionRequest{Name: "   ", Email: "jane@x.com", Message: "Hi"},
			want: []string{"name"},
		},
		{
			name: "missing email and message",
			req:  SubmissionRequest{Name: "Jane"},
			want: []string{"email", "message"},
		},
		{
			name: "everything missing",
			req:  SubmissionRequest{},
			want: []string{"name", "email", "message"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.req.MissingFields())
		})
	}
}
