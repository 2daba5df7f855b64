package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/adjustment"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/punch"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleError_StatusMapping(t *testing.T) {
	var validationErrs validator.ValidationErrors
	validationErrs.Add("month", "month must be between 1 and 12")

	tests := []struct {
		name string
		err  error
		want int
		code string
	}{
		{"validation", validationErrs, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"missing company claim", user.ErrCompanyIDRequired, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"foreign record", punch.ErrUnauthorized, http.StatusForbidden, "FORBIDDEN"},
		{"wrapped not found", fmt.Errorf("lookup: %w", payroll.ErrPayrollRecordNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"version conflict", schedule.ErrScheduleVersionConflict, http.StatusConflict, "CONFLICT"},
		{"processed adjustment", adjustment.ErrAlreadyProcessed, http.StatusConflict, "CONFLICT"},
		{"bad clock", schedule.ErrInvalidClock, http.StatusBadRequest, "BAD_REQUEST"},
		{"unknown", errors.New("connection reset"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			HandleError(rr, tt.err)

			assert.Equal(t, tt.want, rr.Code)

			var body Response
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.code, body.Error.Code)
		})
	}
}

func TestHandleError_ValidationDetails(t *testing.T) {
	var errs validator.ValidationErrors
	errs.Add("installments", "installments must be between 1 and 24")

	rr := httptest.NewRecorder()
	HandleError(rr, errs)

	var body Response
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "installments must be between 1 and 24", body.Error.Details["installments"])
}
