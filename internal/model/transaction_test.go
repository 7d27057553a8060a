package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTransactionType(t *testing.T) {
	tests := []struct {
		input   string
		want    TransactionType
		wantErr bool
	}{
		{input: "deposit", want: TypeDeposit},
		{input: "  Withdrawal ", want: TypeWithdrawal},
		{input: "DISPUTE", want: TypeDispute},
		{input: "resolve", want: TypeResolve},
		{input: "ChargeBack", want: TypeChargeback},
		{input: "transfer", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTransactionType(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTransaction_AmountOrZero(t *testing.T) {
	tx := Transaction{Type: TypeDispute, Client: 1, TX: 1}
	assert.True(t, tx.AmountOrZero().IsZero())

	amount := decimal.RequireFromString("12.34")
	tx.Amount = &amount
	assert.True(t, tx.AmountOrZero().Equal(amount))
}
