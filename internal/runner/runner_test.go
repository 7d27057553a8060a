package runner

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/payments-engine/internal/engine"
	"github.com/Veraticus/payments-engine/internal/ingest"
	"github.com/Veraticus/payments-engine/internal/model"
	"github.com/Veraticus/payments-engine/internal/testutil"
)

func TestRun(t *testing.T) {
	input := strings.Join([]string{
		"type,client,tx,amount",
		"deposit,1,1,10",
		"withdrawal,1,2,3",
		"dispute,1,1",
		"chargeback,1,1",
		"deposit,1,3,5",
		"withdrawal,2,4,1",
		"bogus,1,5,1",
		"deposit,2,10,5",
		"deposit,2,11,5",
		"resolve,2,99",
	}, "\n")

	src, err := ingest.NewReader(strings.NewReader(input))
	require.NoError(t, err)
	e := engine.New()

	stats, err := Run(context.Background(), src, e)
	require.NoError(t, err)

	assert.Equal(t, 9, stats.Processed)
	assert.Equal(t, 6, stats.Applied)
	assert.Equal(t, 1, stats.Malformed)
	assert.Equal(t, 3, stats.RejectedTotal())
	assert.Equal(t, map[string]int{
		"account_frozen":        1,
		"insufficient_funds":    1,
		"transaction_not_found": 1,
	}, stats.Rejected)
	assert.Equal(t, []string{"account_frozen", "insufficient_funds", "transaction_not_found"}, stats.RejectedKinds())

	one, ok := e.Account(1)
	require.True(t, ok)
	assert.Equal(t, "-3", one.Available.String())
	assert.True(t, one.Held.IsZero())
	assert.Equal(t, "-3", one.Total.String())
	assert.True(t, one.Locked)

	two, ok := e.Account(2)
	require.True(t, ok)
	assert.Equal(t, "10", two.Available.String())
	assert.False(t, two.Locked)
}

type cancelingProcessor struct {
	cancel context.CancelFunc
	seen   int
}

func (p *cancelingProcessor) Process(model.Transaction) error {
	p.seen++
	p.cancel()
	return nil
}

func TestRun_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src := &testutil.Source{Txs: []model.Transaction{
		testutil.Deposit(1, 1, "1"),
		testutil.Deposit(1, 2, "1"),
	}}
	proc := &cancelingProcessor{cancel: cancel}

	stats, err := Run(ctx, src, proc)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, proc.seen)
	assert.Equal(t, 1, stats.Applied)
}

func TestRun_SourceError(t *testing.T) {
	boom := errors.New("disk gone")
	src := &testutil.Source{
		Txs: []model.Transaction{testutil.Deposit(1, 1, "1")},
		Err: boom,
	}

	stats, err := Run(context.Background(), src, engine.New())
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, stats.Applied)
}
