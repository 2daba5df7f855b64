package advancedsalary

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func approved(amount string, installments, paid int, recovered string) AdvancedSalary {
	a := decimal.RequireFromString(amount)
	return AdvancedSalary{
		Status:           StatusApproved,
		ApprovedAmount:   &a,
		Installments:     installments,
		InstallmentsPaid: paid,
		RecoveredAmount:  decimal.RequireFromString(recovered),
	}
}

func TestDueAmount_Installments(t *testing.T) {
	cases := []struct {
		name string
		adv  AdvancedSalary
		want string
	}{
		{"single installment", approved("1000", 1, 0, "0"), "1000.00"},
		{"first of three", approved("1000", 3, 0, "0"), "333.33"},
		{"second of three", approved("1000", 3, 1, "333.33"), "333.33"},
		{"last takes remainder", approved("1000", 3, 2, "666.66"), "333.34"},
		{"fully recovered", approved("1000", 3, 3, "1000"), "0.00"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, c.adv.DueAmount().StringFixed(2))
		})
	}
}

func TestDueAmount_NotApproved(t *testing.T) {
	a := approved("1000", 1, 0, "0")
	a.Status = StatusPending
	assert.True(t, a.DueAmount().IsZero())

	var empty AdvancedSalary
	assert.True(t, empty.DueAmount().IsZero())
}

func TestCanDelete(t *testing.T) {
	assert.True(t, AdvancedSalary{Status: StatusPending}.CanDelete())
	assert.True(t, approved("10", 2, 0, "0").CanDelete())
	assert.False(t, approved("10", 2, 1, "5").CanDelete())
	assert.False(t, AdvancedSalary{Status: StatusCompleted, Processed: true}.CanDelete())
}
