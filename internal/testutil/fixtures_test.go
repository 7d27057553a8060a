package testutil

import (
	"errors"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/payments-engine/internal/model"
)

func TestBuilders(t *testing.T) {
	dep := Deposit(1, 2, "1.50")
	assert.Equal(t, model.TypeDeposit, dep.Type)
	assert.Equal(t, model.ClientID(1), dep.Client)
	assert.Equal(t, model.TransactionID(2), dep.TX)
	assert.Equal(t, "1.5", dep.Amount.String())

	assert.Equal(t, model.TypeWithdrawal, Withdrawal(1, 3, "1").Type)
	for _, tx := range []model.Transaction{Dispute(1, 2), Resolve(1, 2), Chargeback(1, 2)} {
		assert.Nil(t, tx.Amount, "%s carries no amount", tx.Type)
		assert.True(t, tx.Type.IsValid())
	}
}

func TestSource(t *testing.T) {
	boom := errors.New("boom")
	src := &Source{Txs: []model.Transaction{Dispute(1, 1)}, Err: boom}

	tx, err := src.Next()
	require.NoError(t, err)
	assert.Equal(t, model.TypeDispute, tx.Type)

	_, err = src.Next()
	require.ErrorIs(t, err, boom)

	_, err = (&Source{}).Next()
	require.ErrorIs(t, err, io.EOF)
}

func TestWriteCSV(t *testing.T) {
	path := WriteCSV(t, "type,client,tx,amount", "deposit,1,1,1")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "type,client,tx,amount\ndeposit,1,1,1\n", string(data))
}
