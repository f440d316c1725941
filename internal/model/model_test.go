package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestRefreshTokenUsable(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		tok  RefreshToken
		want bool
	}{
		{"active", RefreshToken{ExpiresAt: now.Add(time.Hour)}, true},
		{"expired", RefreshToken{ExpiresAt: now.Add(-time.Second)}, false},
		{"expires exactly now", RefreshToken{ExpiresAt: now}, false},
		{"revoked", RefreshToken{ExpiresAt: now.Add(time.Hour), Revoked: true}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.tok.Usable(now))
		})
	}
}

func TestMemberPatchApply_OnlyPresentFields(t *testing.T) {
	m := Member{Name: "Kim", Phone: "010-1111-2222", Memo: ptr("likes bangs")}

	MemberPatch{Phone: ptr("010-9999-0000")}.Apply(&m)

	assert.Equal(t, "Kim", m.Name)
	assert.Equal(t, "010-9999-0000", m.Phone)
	assert.Equal(t, "likes bangs", *m.Memo)
	assert.Nil(t, m.PhotoPath)
}

func TestHistoryPatchApply(t *testing.T) {
	h := SynthesisHistory{OriginalPhotoPath: "originals/a.jpg"}

	HistoryPatch{IsSynced: ptr(true), ResultPhotoPath: Some("results/b.png")}.Apply(&h)

	assert.True(t, h.IsSynced)
	assert.Equal(t, "results/b.png", *h.ResultPhotoPath)
	assert.Equal(t, "originals/a.jpg", h.OriginalPhotoPath)
}

func TestStylePatchApply(t *testing.T) {
	m := StyleMetadata{Tags: []string{"short"}, Gender: "neutral", Category: "unknown"}

	StylePatch{Tags: ptr([]string{"long", "wavy"}), Gender: ptr("female")}.Apply(&m)

	assert.Equal(t, []string{"long", "wavy"}, m.Tags)
	assert.Equal(t, "female", m.Gender)
	assert.Equal(t, "unknown", m.Category)
	assert.Nil(t, m.Name)
}

func TestDefaultSalonName(t *testing.T) {
	assert.Equal(t, "alice's Salon", DefaultSalonName("alice"))
}

func TestMemberPatchApply_NullClears(t *testing.T) {
	m := Member{Name: "Kim", Memo: ptr("allergic"), PhotoPath: ptr("profiles/a.jpg")}

	var p MemberPatch
	require.NoError(t, json.Unmarshal([]byte(`{"memo":null}`), &p))
	p.Apply(&m)

	assert.Nil(t, m.Memo)
	assert.Equal(t, "profiles/a.jpg", *m.PhotoPath, "absent key must not be touched")
	assert.Equal(t, "Kim", m.Name)
}

func TestOptionalUnmarshal(t *testing.T) {
	var body struct {
		A Optional[string] `json:"a"`
		B Optional[string] `json:"b"`
		C Optional[string] `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"x","b":null}`), &body))

	assert.Equal(t, Some("x"), body.A)
	assert.Equal(t, Null[string](), body.B)
	assert.False(t, body.C.Set)

	out, err := json.Marshal(body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":"x","b":null,"c":null}`, string(out))
}

func TestHistoryPatchApply_NullClearsResult(t *testing.T) {
	h := SynthesisHistory{ResultPhotoPath: ptr("results/a.png"), IsSynced: true}

	HistoryPatch{ResultPhotoPath: Null[string]()}.Apply(&h)

	assert.Nil(t, h.ResultPhotoPath)
	assert.True(t, h.IsSynced)
}
