package response

import (
	"Inkwell/internal/api/dto"
	"Inkwell/internal/pkg/thread"
	"Inkwell/internal/service"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, h gin.HandlerFunc) dto.Response {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	h(c)

	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestErrorCodes(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{"mapped", service.ErrPostNotFound, NotFound, "post not found"},
		{"wrapped rejection", fmt.Errorf("%w: spam.", service.ErrCommentRejected), Unprocessable, "Comment blocked: spam."},
		{"restricted thread", thread.ErrRestrictedThread, Forbidden, thread.ErrRestrictedThread.Error()},
		{"moderation down", service.ErrModerationUnavailable, ServiceUnavailable, service.ErrModerationUnavailable.Error()},
		{"unmapped hides detail", errors.New("dial tcp: refused"), InternalServerError, service.UnExpectedError.Error()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := run(t, func(c *gin.Context) { Error(c, tt.err) })
			assert.Equal(t, tt.code, resp.Code)
			assert.Equal(t, tt.message, resp.Message)
		})
	}
}

func TestSuccessEnvelope(t *testing.T) {
	resp := run(t, func(c *gin.Context) { Success(c, gin.H{"id": 1}) })
	assert.Equal(t, Ok, resp.Code)
	assert.Equal(t, "success", resp.Message)
	assert.NotNil(t, resp.Data)
}
