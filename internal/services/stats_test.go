package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/broomstones/loaners/internal/models"
	"github.com/broomstones/loaners/internal/services"
)

func TestStats_Empty(t *testing.T) {
	s := newStore(t)
	st, err := s.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, services.EquipmentTotals{}, st.Equipment)
	assert.Zero(t, st.Kids.Total)
	assert.NotNil(t, st.KidsSizeDistribution)
	assert.NotNil(t, st.RecentActivity)
	assert.Empty(t, st.Shortages)
}

func TestStats_ShortagesBySize(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	for _, size := range []string{"5", "5", "6"} {
		mustKid(t, s, "Kid", size)
	}
	mustKid(t, s, "No Size", "")
	mustShoes(t, s, "5")
	mustShoes(t, s, "6")
	mustShoes(t, s, "6")
	_, err := s.CreateEquipment(ctx, services.EquipmentInput{Type: "broom", Size: "junior"})
	require.NoError(t, err)

	st, err := s.Stats(ctx)
	require.NoError(t, err)

	assert.Equal(t, services.EquipmentTotals{Total: 4, Available: 4, TotalShoes: 3, TotalBrooms: 1}, st.Equipment)
	assert.Equal(t, int64(4), st.Kids.Total)
	assert.Equal(t, []services.ShoeSizeCount{{ShoeSize: "5", Count: 2}, {ShoeSize: "6", Count: 1}}, st.KidsSizeDistribution)
	assert.Equal(t, []services.SizeCount{{Size: "junior", Count: 1}}, st.AvailableBroomsBySize)
	assert.Equal(t, []services.Shortage{
		{Size: "5", Need: 2, Available: 1, Shortage: 1},
		{Size: "6", Need: 1, Available: 2, Surplus: 1},
	}, st.Shortages)
}

func TestStats_RecentActivityAndCounts(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	k := mustKid(t, s, "Ava", "5")
	a := mustShoes(t, s, "5")
	b := mustShoes(t, s, "5")
	coA, err := s.Checkout(ctx, services.CheckoutInput{EquipmentID: a.ID, KidID: k.ID})
	require.NoError(t, err)
	_, err = s.Checkout(ctx, services.CheckoutInput{EquipmentID: b.ID, KidID: k.ID})
	require.NoError(t, err)
	_, err = s.ReturnCheckout(ctx, coA.ID)
	require.NoError(t, err)

	st, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), st.Checkouts.ActiveCheckouts)
	assert.Equal(t, int64(1), st.Equipment.CheckedOut)
	assert.Equal(t, int64(1), st.Equipment.Available)
	require.Len(t, st.RecentActivity, 2)
	// the return is the latest event
	assert.Equal(t, coA.ID, st.RecentActivity[0].ID)
	assert.Equal(t, []services.SizeCount{{Size: "5", Count: 1}}, st.AvailableShoesBySize)
}

func TestShortages_SizesWithoutSupply(t *testing.T) {
	got := services.Shortages(
		[]services.ShoeSizeCount{{ShoeSize: "4", Count: 3}},
		[]services.SizeCount{{Size: "9", Count: 1}},
	)
	assert.Equal(t, []services.Shortage{{Size: "4", Need: 3, Shortage: 3}}, got)
}

func TestMatchBoard(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	mustKid(t, s, "Ava", "5")
	mustKid(t, s, "Ben", "10")
	mustKid(t, s, "Cal", "5")
	mustShoes(t, s, "5")
	mustShoes(t, s, "5.5")
	_, err := s.CreateEquipment(ctx, services.EquipmentInput{Type: "broom", Size: "5"})
	require.NoError(t, err)

	rows, err := s.MatchBoard(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"5", "5.5", "10"}, services.Sizes(rows))
	assert.Len(t, rows[0].Kids, 2)
	assert.Len(t, rows[0].Available, 1)
	assert.Equal(t, 1, rows[0].Shortage)
	assert.Equal(t, 1, rows[2].Shortage)
	assert.Zero(t, rows[1].Shortage)

	one := services.FilterSize(rows, "5.5")
	require.Len(t, one, 1)
	assert.Empty(t, one[0].Kids)
	assert.Equal(t, models.TypeShoes, one[0].Available[0].Type)

	assert.Empty(t, services.FilterSize(rows, "12"))
	assert.Len(t, services.FilterSize(rows, ""), 3)
}

// Parent registers, coordinator lends shoes, parent finds them, kid returns them.
func TestScenario_LoanLifecycle(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	ava, err := s.CreateKid(ctx, services.KidInput{Name: "Ava", ShoeSize: "5", ParentEmail: "p@example.com"})
	require.NoError(t, err)
	shoes := mustShoes(t, s, "5")

	co, err := s.Checkout(ctx, services.CheckoutInput{EquipmentID: shoes.ID, KidID: ava.ID})
	require.NoError(t, err)

	found, err := s.Lookup(ctx, "av")
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Len(t, found[0].Checkouts, 1)
	assert.Equal(t, co.ID, found[0].Checkouts[0].ID)

	st, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, []services.Shortage{{Size: "5", Need: 1, Shortage: 1}}, st.Shortages)

	_, err = s.ReturnCheckout(ctx, co.ID)
	require.NoError(t, err)

	found, err = s.Lookup(ctx, "av")
	require.NoError(t, err)
	assert.Empty(t, found[0].Checkouts)
	st, err = s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), st.Equipment.Available)
}
