package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quiz-drill/internal/domain"
	"quiz-drill/internal/dto"
)

func intPtr(v int) *int { return &v }

func TestValidateStruct(t *testing.T) {
	v := NewValidator()

	t.Run("valid submit", func(t *testing.T) {
		assert.Empty(t, v.ValidateStruct(dto.SubmitAnswerRequest{Selected: []int{0, 2}}))
	})

	t.Run("missing selection", func(t *testing.T) {
		errs := v.ValidateStruct(dto.SubmitAnswerRequest{})
		require.Len(t, errs, 1)
		assert.Equal(t, "selected", errs[0].Field)
		assert.Equal(t, domain.CodeMissingField, errs[0].Code)
	})

	t.Run("negative index", func(t *testing.T) {
		errs := v.ValidateStruct(dto.SubmitAnswerRequest{Selected: []int{1, -1}})
		require.Len(t, errs, 1)
		assert.Equal(t, "selected[1]", errs[0].Field)
		assert.Equal(t, domain.CodeOutOfRange, errs[0].Code)
	})

	t.Run("count below one", func(t *testing.T) {
		errs := v.ValidateStruct(dto.StartSessionRequest{Count: intPtr(0)})
		require.Len(t, errs, 1)
		assert.Equal(t, "count", errs[0].Field)
		assert.Equal(t, domain.CodeOutOfRange, errs[0].Code)
	})

	t.Run("count omitted", func(t *testing.T) {
		assert.Empty(t, v.ValidateStruct(dto.StartSessionRequest{}))
	})

	t.Run("selection without click", func(t *testing.T) {
		errs := v.ValidateStruct(dto.SelectionRequest{Current: []int{1}})
		require.Len(t, errs, 1)
		assert.Equal(t, "clicked", errs[0].Field)
	})
}

func TestValidateSessionID(t *testing.T) {
	v := NewValidator()

	assert.Empty(t, v.ValidateSessionID("01ARZ3NDEKTSV4RRFFQ69G5FAV"))

	errs := v.ValidateSessionID("")
	require.Len(t, errs, 1)
	assert.Equal(t, domain.CodeMissingField, errs[0].Code)

	errs = v.ValidateSessionID("session-1")
	require.Len(t, errs, 1)
	assert.Equal(t, domain.CodeInvalidFormat, errs[0].Code)
}

func TestValidateLimit(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		raw      string
		want     int
		wantCode domain.ErrorCode
	}{
		{raw: "", want: 0},
		{raw: "10", want: 10},
		{raw: "200", want: 200},
		{raw: "0", wantCode: domain.CodeOutOfRange},
		{raw: "201", wantCode: domain.CodeOutOfRange},
		{raw: "ten", wantCode: domain.CodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, errs := v.ValidateLimit(tt.raw)
			if tt.wantCode != "" {
				require.Len(t, errs, 1)
				assert.Equal(t, tt.wantCode, errs[0].Code)
				return
			}
			assert.Empty(t, errs)
			assert.Equal(t, tt.want, got)
		})
	}
}
