package youtube

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReferenceIsImmutable(t *testing.T) {
	ch := testChannel
	ref := validatedReference(&ch)

	ch.Title = "changed after the fact"
	got, ok := ref.Channel()
	require.True(t, ok)
	assert.Equal(t, "Lofi Girl", got.Title)

	got.Title = "changed through the copy"
	again, _ := ref.Channel()
	assert.Equal(t, "Lofi Girl", again.Title)
}

func TestReferenceEqualIgnoresRecord(t *testing.T) {
	ch := testChannel
	validated := validatedReference(&ch)

	assert.True(t, validated.Equal(RawID(testChannelID)))
	assert.True(t, RawID(testChannelID).Equal(validated.Bare()))
	assert.False(t, validated.Bare().Validated())
	assert.False(t, RawID(testChannelID).Equal(HumanHandle(testChannelID)))
	assert.False(t, UnknownReference("x", "vimeo").Equal(UnknownReference("x", Platform)))
}

func TestReferenceString(t *testing.T) {
	assert.Equal(t, `{HumanHandle:youtube:"LofiGirl"}`, HumanHandle("@LofiGirl").String())

	ch := testChannel
	assert.Equal(t, `{RawID:youtube:"`+testChannelID+`":validated}`, validatedReference(&ch).String())
}

func TestMergeReferences(t *testing.T) {
	a := testChannel
	b := testChannel
	b.Title = "Lofi Girl Radio"
	b.Country = "FR"

	merged, conflicts, err := MergeReferences(validatedReference(&a), validatedReference(&b))
	require.NoError(t, err)

	ch, _ := merged.Channel()
	assert.Equal(t, "Lofi Girl", ch.Title)
	assert.Equal(t, "FR", ch.Country)
	assert.Equal(t, []FieldConflict{{Field: "title", Kept: "Lofi Girl", Discarded: "Lofi Girl Radio"}}, conflicts)

	other := Channel{ID: "UCanotherchannel"}
	_, _, err = MergeReferences(validatedReference(&a), validatedReference(&other))
	assert.ErrorIs(t, err, DistinctChannels)

	got, _, err := MergeReferences(HumanHandle("LofiGirl"), validatedReference(&a))
	require.NoError(t, err)
	assert.True(t, got.Validated())

	got, _, err = MergeReferences(UnknownReference("x", Platform), HumanHandle("LofiGirl"))
	require.NoError(t, err)
	assert.Equal(t, KindHumanHandle, got.Kind())
}

func TestMergeChannels(t *testing.T) {
	primary := Channel{ID: testChannelID, Title: "Lofi Girl", PublishedAt: 100}
	secondary := Channel{ID: testChannelID, Handle: "LofiGirl", Title: "lofi girl", URL: "https://www.youtube.com/@LofiGirl", PublishedAt: 200}

	merged, conflicts := MergeChannels(primary, secondary)

	assert.Equal(t, Channel{
		ID:          testChannelID,
		Handle:      "LofiGirl",
		Title:       "Lofi Girl",
		URL:         "https://www.youtube.com/@LofiGirl",
		PublishedAt: 100,
	}, merged)
	assert.Equal(t, []FieldConflict{
		{Field: "title", Kept: "Lofi Girl", Discarded: "lofi girl"},
		{Field: "published_at", Kept: "100", Discarded: "200"},
	}, conflicts)

	merged, conflicts = MergeChannels(Channel{}, secondary)
	assert.Equal(t, secondary, merged)
	assert.Empty(t, conflicts)
}
