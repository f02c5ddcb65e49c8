package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moneyman/internal/amqp"
	"moneyman/internal/core"
	"moneyman/internal/query"
	"moneyman/internal/storage"
)

type recordingPublisher struct {
	msgs []*amqp.ExpenseChangeMessage
	err  error
}

func (p *recordingPublisher) PublishExpenseChange(_ context.Context, msg *amqp.ExpenseChangeMessage) error {
	p.msgs = append(p.msgs, msg)
	return p.err
}

func TestExpenseServicePublishesChanges(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	svc := NewExpenseService(storage.NewJSONStore("", "udiboy"), pub, "udiboy")

	id, err := svc.Create(ctx, core.ExpenseInput{Name: "Dinner", Category: "Food", Amount: "10", Date: "2021-01-01"})
	require.NoError(t, err)
	require.NoError(t, svc.Update(ctx, id, core.ExpenseInput{Name: "Dinner", Category: "Food", Amount: "12", Date: "2021-01-01"}))
	require.NoError(t, svc.Delete(ctx, id))

	require.Len(t, pub.msgs, 3)
	assert.Equal(t, amqp.OpCreated, pub.msgs[0].Op)
	assert.Equal(t, amqp.OpUpdated, pub.msgs[1].Op)
	assert.Equal(t, amqp.OpDeleted, pub.msgs[2].Op)
	for _, m := range pub.msgs {
		assert.Equal(t, "udiboy", m.Username)
		assert.Equal(t, id, m.ID)
	}
	require.NotNil(t, pub.msgs[2].Expense)
	assert.Equal(t, "12", pub.msgs[2].Expense.Amount.String())
}

func TestExpenseServiceSkipsEventsOnFailure(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	svc := NewExpenseService(storage.NewJSONStore("", "udiboy"), pub, "udiboy")

	_, err := svc.Create(ctx, core.ExpenseInput{Name: "x", Amount: "1", Date: "bad"})
	assert.ErrorIs(t, err, core.ErrInvalidDateFormat)
	assert.Empty(t, pub.msgs)
}

func TestExpenseServicePublishErrorDoesNotFail(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{err: errors.New("broker down")}
	svc := NewExpenseService(storage.NewJSONStore("", "udiboy"), pub, "udiboy")

	id, err := svc.Create(ctx, core.ExpenseInput{Name: "x", Amount: "1", Date: "2021-01-01"})
	require.NoError(t, err)

	got, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "x", got.Name)
}

func TestExpenseServiceWithoutPublisher(t *testing.T) {
	ctx := context.Background()
	svc := NewExpenseService(storage.NewJSONStore("", "udiboy"), nil, "udiboy")

	id, err := svc.Create(ctx, core.ExpenseInput{Name: "x", Amount: "1", Date: "2021-01-01"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, id))
	require.NoError(t, svc.Delete(ctx, id))

	list, err := svc.Query(ctx, query.Filter{})
	require.NoError(t, err)
	assert.Zero(t, list.Len())
}

func TestExpenseServiceIgnoresAbsentRecords(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	svc := NewExpenseService(storage.NewJSONStore("", "udiboy"), pub, "udiboy")

	require.NoError(t, svc.Delete(ctx, 999))
	require.NoError(t, svc.Update(ctx, 999, core.ExpenseInput{Name: "x", Amount: "1", Date: "2021-01-01"}))
	assert.Empty(t, pub.msgs)

	_, err := svc.Get(ctx, 999)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestExpenseServiceSecondDeletePublishesOnce(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	svc := NewExpenseService(storage.NewJSONStore("", "udiboy"), pub, "udiboy")

	id, err := svc.Create(ctx, core.ExpenseInput{Name: "x", Amount: "1", Date: "2021-01-01"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, id))
	require.NoError(t, svc.Delete(ctx, id))

	require.Len(t, pub.msgs, 2)
	assert.Equal(t, amqp.OpCreated, pub.msgs[0].Op)
	assert.Equal(t, amqp.OpDeleted, pub.msgs[1].Op)
}
