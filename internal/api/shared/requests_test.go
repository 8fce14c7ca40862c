package shared

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Title string `json:"title" validate:"required,max=5"`
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
		isEmpty bool
	}{
		{name: "valid", body: `{"title":"abc"}`},
		{name: "malformed", body: `{"title":`, wantErr: true},
		{name: "empty", body: ``, wantErr: true, isEmpty: true},
		{name: "trailing data", body: `{"title":"a"}{"title":"b"}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var dst sampleRequest
			err := DecodeJSON(httptest.NewRecorder(), req, &dst)
			if !tt.wantErr {
				require.NoError(t, err)
				assert.Equal(t, "abc", dst.Title)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.isEmpty, errors.Is(err, ErrEmptyBody))
		})
	}
}

func TestDecodeJSON_TooLarge(t *testing.T) {
	body := `{"title":"` + strings.Repeat("a", MaxRequestBodyBytes) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	var dst sampleRequest
	err := DecodeJSON(httptest.NewRecorder(), req, &dst)

	var maxErr *http.MaxBytesError
	assert.ErrorAs(t, err, &maxErr)
}

type selfValidating struct{ ok bool }

func (s selfValidating) Validate() error {
	if !s.ok {
		return errors.New("not ok")
	}
	return nil
}

func TestValidateRequest(t *testing.T) {
	assert.NoError(t, ValidateRequest(&sampleRequest{Title: "abc"}))
	assert.Error(t, ValidateRequest(&sampleRequest{Title: ""}))
	assert.Error(t, ValidateRequest(&sampleRequest{Title: "too long"}))
	assert.NoError(t, ValidateRequest(selfValidating{ok: true}))
	assert.Error(t, ValidateRequest(selfValidating{ok: false}))
}
