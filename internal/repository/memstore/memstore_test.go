package memstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hairfit-server/internal/model"
	"github.com/iliyamo/hairfit-server/internal/repository"
)

func strp(s string) *string { return &s }

func TestUsers_UniqueEmailCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	users := New().Users()

	require.NoError(t, users.Create(ctx, &model.User{Email: "a@x.io", Username: "a"}))
	err := users.Create(ctx, &model.User{Email: "A@X.io", Username: "b"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestTokens_RevokeOnce(t *testing.T) {
	ctx := context.Background()
	tokens := New().Tokens()
	require.NoError(t, tokens.Store(ctx, 1, "h", time.Now().Add(time.Hour)))

	first, _ := tokens.Revoke(ctx, "h")
	second, _ := tokens.Revoke(ctx, "h")
	unknown, _ := tokens.Revoke(ctx, "nope")

	assert.True(t, first)
	assert.False(t, second)
	assert.False(t, unknown)
}

func TestSalons_EnsureIsIdempotent(t *testing.T) {
	ctx := context.Background()
	salons := New().Salons()

	a, err := salons.EnsureForOwner(ctx, 1, "first")
	require.NoError(t, err)
	b, err := salons.EnsureForOwner(ctx, 1, "second")
	require.NoError(t, err)

	assert.Equal(t, a.ID, b.ID)
	assert.Equal(t, "first", b.Name)
}

func TestMembers_ScopedAndOrdered(t *testing.T) {
	ctx := context.Background()
	st := New()
	members := st.Members()
	ts := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, members.Create(ctx, &model.Member{ID: "m1", SalonID: 1, Name: "old", CreatedAt: ts}))
	require.NoError(t, members.Create(ctx, &model.Member{ID: "m2", SalonID: 1, Name: "tie-a", CreatedAt: ts.Add(time.Hour)}))
	require.NoError(t, members.Create(ctx, &model.Member{ID: "m3", SalonID: 1, Name: "tie-b", CreatedAt: ts.Add(time.Hour)}))
	require.NoError(t, members.Create(ctx, &model.Member{ID: "x1", SalonID: 2, Name: "other", CreatedAt: ts}))

	got, err := members.ListBySalon(ctx, 1, 0, 10)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"m3", "m2", "m1"}, []string{got[0].ID, got[1].ID, got[2].ID})

	got, _ = members.ListBySalon(ctx, 1, 1, 1)
	require.Len(t, got, 1)
	assert.Equal(t, "m2", got[0].ID)

	got, _ = members.ListBySalon(ctx, 1, 10, 5)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	_, err = members.GetInSalon(ctx, 1, "x1")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, members.Delete(ctx, 1, "x1"), repository.ErrNotFound)
}

func TestMembers_DeleteCascadesHistory(t *testing.T) {
	ctx := context.Background()
	st := New()
	require.NoError(t, st.Members().Create(ctx, &model.Member{ID: "m1", SalonID: 1}))
	require.NoError(t, st.Histories().Create(ctx, &model.SynthesisHistory{ID: "h1", SalonID: 1, MemberID: strp("m1")}))
	require.NoError(t, st.Histories().Create(ctx, &model.SynthesisHistory{ID: "h2", SalonID: 1}))

	require.NoError(t, st.Members().Delete(ctx, 1, "m1"))

	_, err := st.Histories().GetOwned(ctx, 1, "h1")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = st.Histories().GetOwned(ctx, 1, "h2")
	assert.NoError(t, err)
}

func TestHistories_Visibility(t *testing.T) {
	ctx := context.Background()
	st := New()
	require.NoError(t, st.Members().Create(ctx, &model.Member{ID: "a", SalonID: 1}))
	require.NoError(t, st.Members().Create(ctx, &model.Member{ID: "b", SalonID: 2}))
	h := st.Histories()
	require.NoError(t, h.Create(ctx, &model.SynthesisHistory{ID: "mine", SalonID: 1, MemberID: strp("a")}))
	require.NoError(t, h.Create(ctx, &model.SynthesisHistory{ID: "theirs", SalonID: 2, MemberID: strp("b")}))
	require.NoError(t, h.Create(ctx, &model.SynthesisHistory{ID: "walkin", SalonID: 2}))
	require.NoError(t, h.Create(ctx, &model.SynthesisHistory{ID: "legacy", MemberID: strp("a")}))

	got, err := h.ListVisible(ctx, 1, 0, 100)
	require.NoError(t, err)
	ids := map[string]bool{}
	for _, r := range got {
		ids[r.ID] = true
	}
	assert.Equal(t, map[string]bool{"mine": true, "walkin": true, "legacy": true}, ids)

	_, err = h.GetOwned(ctx, 1, "walkin")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = h.GetOwned(ctx, 1, "legacy")
	assert.NoError(t, err)

	result := strp("results/x.png")
	assert.ErrorIs(t, h.UpdateOwned(ctx, 1, &model.SynthesisHistory{ID: "walkin", ResultPhotoPath: result}), repository.ErrNotFound)
	assert.NoError(t, h.UpdateOwned(ctx, 2, &model.SynthesisHistory{ID: "walkin", ResultPhotoPath: result}))

	assert.ErrorIs(t, h.DeleteOwned(ctx, 1, "theirs"), repository.ErrNotFound)
	assert.ErrorIs(t, h.DeleteOwned(ctx, 1, "walkin"), repository.ErrNotFound)
	assert.NoError(t, h.DeleteOwned(ctx, 2, "walkin"))
}

func TestMembers_UpdateMissing(t *testing.T) {
	ctx := context.Background()
	st := New()
	require.NoError(t, st.Members().Create(ctx, &model.Member{ID: "m1", SalonID: 1, Name: "Kim"}))

	assert.ErrorIs(t, st.Members().Update(ctx, &model.Member{ID: "m1", SalonID: 2, Name: "x"}), repository.ErrNotFound)
	assert.ErrorIs(t, st.Members().Update(ctx, &model.Member{ID: "gone", SalonID: 1, Name: "x"}), repository.ErrNotFound)
	require.NoError(t, st.Members().Update(ctx, &model.Member{ID: "m1", SalonID: 1, Name: "Lee"}))

	got, err := st.Members().GetInSalon(ctx, 1, "m1")
	require.NoError(t, err)
	assert.Equal(t, "Lee", got.Name)
}

func TestHistories_CreateUnknownMember(t *testing.T) {
	err := New().Histories().Create(context.Background(), &model.SynthesisHistory{ID: "h", MemberID: strp("ghost")})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
