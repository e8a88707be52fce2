package handlers

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "github.com/flexprint/mail-relay/errors"
	"github.com/flexprint/mail-relay/logger"
	"github.com/flexprint/mail-relay/middleware"
	"github.com/flexprint/mail-relay/types"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.IsTest = true
	gin.SetMode(gin.TestMode)
	m.Run()
}

// MockSubmissionSender implements SubmissionSender for handler tests.
type MockSubmissionSender struct {
	mock.Mock
}

func (m *MockSubmissionSender) Send(ctx context.Context, sub *types.Submission) (*types.RelayResult, error) {
	args := m.Called(ctx, sub)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.RelayResult), args.Error(1)
}

// compile-time check
var _ SubmissionSender = (*MockSubmissionSender)(nil)

// buildRelayRouter wraps the handler in a Gin router with the error
// handler middleware, matching the production setup so c.Error() calls
// produce the correct HTTP status.
func buildRelayRouter(h *RelayHandler) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		c.String(http.StatusMethodNotAllowed, "Method Not Allowed")
	})
	r.Use(middleware.ErrorHandler())
	r.GET("/relay", h.Ping)
	r.POST("/relay", h.Submit)
	return r
}

func postJSON(r *gin.Engine, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/relay", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestPingReturnsOK(t *testing.T) {
	sender := new(MockSubmissionSender)
	r := buildRelayRouter(NewRelayHandler(sender))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/relay", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
	sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestSubmitHappyPath(t *testing.T) {
	sender := new(MockSubmissionSender)
	var captured *types.Submission
	sender.On("Send", mock.Anything, mock.AnythingOfType("*types.Submission")).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(*types.Submission)
		}).
		Return(&types.RelayResult{OK: true, ID: "msg_1"}, nil).Once()

	r := buildRelayRouter(NewRelayHandler(sender))
	w := postJSON(r, `{"name":"Jane","email":"jane@x.com","message":"Hi"}`)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp types.RelayResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.OK)
	assert.Equal(t, "msg_1", resp.ID)

	require.NotNil(t, captured)
	assert.Equal(t, "Jane", captured.Name)
	assert.Equal(t, "jane@x.com", captured.Email)
	assert.Equal(t, "Hi", captured.Message)
	assert.Empty(t, captured.Attachments)

	sender.AssertExpectations(t)
}

func TestSubmitTrimsWhitespace(t *testing.T) {
	sender := new(MockSubmissionSender)
	var captured *types.Submission
	sender.On("Send", mock.Anything, mock.AnythingOfType("*types.Submission")).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(*types.Submission)
		}).
		Return(&types.RelayResult{OK: true}, nil).Once()

	r := buildRelayRouter(NewRelayHandler(sender))
	w := postJSON(r, `{"name":"  Jane  ","email":" jane@x.com ","message":"Hi"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, captured)
	assert.Equal(t, "Jane", captured.Name)
	assert.Equal(t, "jane@x.com", captured.Email)
}

func TestSubmitMissingRequiredFields(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"blank name", `{"name":"","email":"jane@x.com","message":"Hi"}`},
		{"absent name", `{"email":"jane@x.com","message":"Hi"}`},
		{"blank email", `{"name":"Jane","email":"","message":"Hi"}`},
		{"blank message", `{"name":"Jane","email":"jane@x.com","message":""}`},
		{"whitespace-only message", `{"name":"Jane","email":"jane@x.com","message":"   "}`},
		{"all missing", `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := new(MockSubmissionSender)
			r := buildRelayRouter(NewRelayHandler(sender))

			w := postJSON(r, tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)

			var resp types.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, string(apperrors.ValidationError), resp.Type)

			sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
		})
	}
}

func TestSubmitMalformedJSON(t *testing.T) {
	sender := new(MockSubmissionSender)
	r := buildRelayRouter(NewRelayHandler(sender))

	w := postJSON(r, `{"name": "Jane", `)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp types.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, string(apperrors.MalformedBodyError), resp.Type)

	sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestSubmitAttachmentsTooLarge(t *testing.T) {
	sender := new(MockSubmissionSender)
	r := buildRelayRouter(NewRelayHandler(sender))

	nineMiB := base64.StdEncoding.EncodeToString(make([]byte, 9*1024*1024))
	payload, err := json.Marshal(map[string]interface{}{
		"name":    "Jane",
		"email":   "jane@x.com",
		"message": "Hi",
		"attachments": []map[string]string{
			{"filename": "huge.bin", "content": nineMiB},
		},
	})
	require.NoError(t, err)

	w := postJSON(r, string(payload))

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestSubmitMalformedAttachmentBase64(t *testing.T) {
	sender := new(MockSubmissionSender)
	r := buildRelayRouter(NewRelayHandler(sender))

	w := postJSON(r, `{"name":"Jane","email":"jane@x.com","message":"Hi","attachments":[{"filename":"x.bin","content":"%%%"}]}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestSubmitForwardsDecodedAttachments(t *testing.T) {
	sender := new(MockSubmissionSender)
	var captured *types.Submission
	sender.On("Send", mock.Anything, mock.AnythingOfType("*types.Submission")).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(*types.Submission)
		}).
		Return(&types.RelayResult{OK: true, ID: "msg_2"}, nil).Once()

	r := buildRelayRouter(NewRelayHandler(sender))

	content := base64.StdEncoding.EncodeToString([]byte("invoice body"))
	w := postJSON(r, `{"name":"Jane","email":"jane@x.com","message":"Hi","attachments":[{"filename":"invoice.txt","content":"`+content+`","contentType":"text/plain"}]}`)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, captured)
	require.Len(t, captured.Attachments, 1)
	assert.Equal(t, "invoice.txt", captured.Attachments[0].Filename)
	assert.Equal(t, []byte("invoice body"), captured.Attachments[0].Content)
	assert.Equal(t, "text/plain", captured.Attachments[0].ContentType)
}

func TestSubmitNotConfigured(t *testing.T) {
	sender := new(MockSubmissionSender)
	sender.On("Send", mock.Anything, mock.AnythingOfType("*types.Submission")).
		Return(nil, apperrors.NotConfigured()).Once()

	r := buildRelayRouter(NewRelayHandler(sender))
	w := postJSON(r, `{"name":"Jane","email":"jane@x.com","message":"Hi"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp types.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, string(apperrors.NotConfiguredError), resp.Type)
	assert.Equal(t, "Email is not configured", resp.Message)
}

func TestSubmitProviderRejected(t *testing.T) {
	sender := new(MockSubmissionSender)
	sender.On("Send", mock.Anything, mock.AnythingOfType("*types.Submission")).
		Return(nil, apperrors.ProviderRejected(assert.AnError)).Once()

	r := buildRelayRouter(NewRelayHandler(sender))
	w := postJSON(r, `{"name":"Jane","email":"jane@x.com","message":"Hi"}`)

	assert.Equal(t, http.StatusBadGateway, w.Code)

	var resp types.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, string(apperrors.ProviderError), resp.Type)
	// The provider's own diagnostic text is forwarded to the caller.
	assert.Contains(t, resp.Details, assert.AnError.Error())
}

// Submitting the same payload twice issues two independent delivery
// attempts; the relay makes no idempotence promise.
func TestSubmitIsNotDeduplicated(t *testing.T) {
	sender := new(MockSubmissionSender)
	sender.On("Send", mock.Anything, mock.AnythingOfType("*types.Submission")).
		Return(&types.RelayResult{OK: true, ID: "msg_3"}, nil).Twice()

	r := buildRelayRouter(NewRelayHandler(sender))
	body := `{"name":"Jane","email":"jane@x.com","message":"Hi"}`

	w1 := postJSON(r, body)
	w2 := postJSON(r, body)

	assert.Equal(t, http.StatusOK, w1.Code)
	assert.Equal(t, http.StatusOK, w2.Code)
	sender.AssertExpectations(t)
}

func TestUnsupportedMethod(t *testing.T) {
	sender := new(MockSubmissionSender)
	r := buildRelayRouter(NewRelayHandler(sender))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/relay", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.NotEmpty(t, w.Body.String())
}
