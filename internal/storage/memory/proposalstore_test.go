package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/vire-intake/internal/interfaces"
	"github.com/bobmcallan/vire-intake/internal/models"
)

func TestProposalStore_SaveAndGet(t *testing.T) {
	store := NewProposalStore(nil)
	ctx := context.Background()

	rec := &models.ProposalRecord{
		ClientName: "Asha Menon",
		Advisor:    "priya",
		Proposal:   &models.InvestmentProposal{ClientName: "Asha Menon", Disclaimer: "d"},
	}
	require.NoError(t, store.Save(ctx, rec))
	assert.Contains(t, rec.ID, "prop_")
	assert.False(t, rec.CreatedAt.IsZero())

	rec.Proposal.Disclaimer = "changed"

	got, err := store.Get(ctx, rec.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "d", got.Proposal.Disclaimer, "stored copy must not alias the caller's proposal")

	missing, err := store.Get(ctx, "prop_missing")
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestProposalStore_List(t *testing.T) {
	store := NewProposalStore(nil)
	ctx := context.Background()
	base := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)

	for i, r := range []struct{ client, advisor string }{
		{"Asha Menon", "priya"},
		{"Rahul Iyer", "priya"},
		{"Meera Shah", "vikram"},
	} {
		require.NoError(t, store.Save(ctx, &models.ProposalRecord{
			ClientName: r.client,
			Advisor:    r.advisor,
			CreatedAt:  base.Add(time.Duration(i) * time.Hour),
		}))
	}

	all, err := store.List(ctx, interfaces.ProposalListOptions{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Meera Shah", all[0].ClientName, "newest first")

	mine, _ := store.List(ctx, interfaces.ProposalListOptions{Advisor: "priya"})
	assert.Len(t, mine, 2)

	byName, _ := store.List(ctx, interfaces.ProposalListOptions{ClientName: "IYER"})
	require.Len(t, byName, 1)
	assert.Equal(t, "Rahul Iyer", byName[0].ClientName)

	limited, _ := store.List(ctx, interfaces.ProposalListOptions{Limit: 1})
	assert.Len(t, limited, 1)
}

func TestProposalStore_Delete(t *testing.T) {
	store := NewProposalStore(nil)
	ctx := context.Background()

	rec := &models.ProposalRecord{ClientName: "Asha Menon"}
	require.NoError(t, store.Save(ctx, rec))
	require.NoError(t, store.Delete(ctx, rec.ID))
	require.NoError(t, store.Delete(ctx, rec.ID))

	got, err := store.Get(ctx, rec.ID)
	assert.NoError(t, err)
	assert.Nil(t, got)
}
