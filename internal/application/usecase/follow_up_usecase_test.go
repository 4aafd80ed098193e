package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/catalogo-api/internal/application/dto"
	"github.com/jhoicas/catalogo-api/internal/domain"
)

func TestFollowUp_AddRequiresQuotation(t *testing.T) {
	s := newStores(t)
	fu := NewFollowUpUseCase(s.followUps, s.quotations)

	_, err := fu.Add(context.Background(), dto.CreateFollowUpRequest{
		QuotationID: "nope", Message: "llamar", FollowUpDate: s.clock.Now(),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = fu.Add(context.Background(), dto.CreateFollowUpRequest{QuotationID: "nope"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestFollowUp_UpcomingAndComplete(t *testing.T) {
	s := newStores(t)
	quotes := newQuotationUC(s, &fakeMailer{})
	fu := NewFollowUpUseCase(s.followUps, s.quotations)
	fu.now = s.clock.Now
	ctx := context.Background()

	q, err := quotes.Submit(ctx, validSubmit())
	require.NoError(t, err)

	now := s.clock.Now()
	soon, err := fu.Add(ctx, dto.CreateFollowUpRequest{QuotationID: q.ID, Message: "mañana", FollowUpDate: now.Add(24 * time.Hour)})
	require.NoError(t, err)
	_, err = fu.Add(ctx, dto.CreateFollowUpRequest{QuotationID: q.ID, Message: "en dos semanas", FollowUpDate: now.Add(14 * 24 * time.Hour)})
	require.NoError(t, err)

	upcoming := fu.Upcoming()
	require.Len(t, upcoming, 1)
	assert.Equal(t, soon.ID, upcoming[0].ID)
	require.NotNil(t, upcoming[0].Quotation)
	assert.Equal(t, q.ID, upcoming[0].Quotation.ID)

	done, err := fu.Complete(ctx, soon.ID)
	require.NoError(t, err)
	assert.True(t, done.Completed)
	assert.Empty(t, fu.Upcoming())

	all := fu.List(q.ID)
	require.Len(t, all, 2)
	assert.True(t, all[0].FollowUpDate.Before(all[1].FollowUpDate))

	_, err = fu.Complete(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFollowUp_NeedingFollowUp(t *testing.T) {
	s := newStores(t)
	quotes := newQuotationUC(s, &fakeMailer{})
	fu := NewFollowUpUseCase(s.followUps, s.quotations)
	fu.now = s.clock.Now
	ctx := context.Background()

	pending, err := quotes.Submit(ctx, validSubmit())
	require.NoError(t, err)
	quoted, err := quotes.Submit(ctx, validSubmit())
	require.NoError(t, err)
	_, err = quotes.SendQuotation(ctx, quoted.ID, "ok")
	require.NoError(t, err)

	need := fu.NeedingFollowUp()
	require.Len(t, need, 1)
	assert.Equal(t, quoted.ID, need[0].ID)
	assert.NotEqual(t, pending.ID, need[0].ID)

	_, err = fu.Add(ctx, dto.CreateFollowUpRequest{QuotationID: quoted.ID, Message: "llamar", FollowUpDate: s.clock.Now()})
	require.NoError(t, err)
	assert.Empty(t, fu.NeedingFollowUp())

	// pasada una semana el seguimiento ya no cuenta como reciente
	s.clock.Advance(8 * 24 * time.Hour)
	assert.Len(t, fu.NeedingFollowUp(), 1)
}
