package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseType(t *testing.T) {
	for _, s := range []string{"twitter", "instagram", "linkedin"} {
		typ, err := ParseType(s)
		require.NoError(t, err)
		assert.Equal(t, Type(s), typ)
	}

	_, err := ParseType("tiktok")
	assert.Error(t, err)
}

func TestBuildPromptTwitter(t *testing.T) {
	p := BuildPrompt(TypeTwitter, "electric cars", false)
	assert.Contains(t, p, `Generate twitter content about "electric cars".`)
	assert.Contains(t, p, "thread of 5 tweets")
	assert.Contains(t, p, "280 characters")
}

func TestBuildPromptInstagram(t *testing.T) {
	p := BuildPrompt(TypeInstagram, "sunsets", false)
	assert.Contains(t, p, "Format the output as JSON")
	assert.Contains(t, p, `"caption"`)
	assert.NotContains(t, p, "uploaded image")

	withImage := BuildPrompt(TypeInstagram, "sunsets", true)
	assert.Contains(t, withImage, "Incorporate the uploaded image")
}

func TestBuildPromptLinkedIn(t *testing.T) {
	p := BuildPrompt(TypeLinkedIn, "leadership", false)
	assert.Equal(t, `Generate linkedin content about "leadership".`, p)
}

func TestParseResponseTwitterSplitsOnBlankLines(t *testing.T) {
	raw := "1. First tweet here\n\n2. Second tweet here"
	units := ParseResponse(TypeTwitter, raw)
	require.Len(t, units, 2)
	assert.Equal(t, "1. First tweet here", units[0])
	assert.Equal(t, "2. Second tweet here", units[1])
}

func TestParseResponseTwitterDropsEmptySegments(t *testing.T) {
	raw := "first\n\n\n\n  \n\nsecond\n\n"
	units := ParseResponse(TypeTwitter, raw)
	require.Len(t, units, 2)
	assert.Equal(t, "first", units[0])
	assert.Equal(t, "second", units[1])
}

func TestParseResponseInstagramJSON(t *testing.T) {
	raw := `[
		{"image": "red car at dusk", "caption": "Dream big. #DreamCar"},
		{"image": "city skyline", "caption": "Made it. #Achievement"}
	]`
	units := ParseResponse(TypeInstagram, raw)
	require.Len(t, units, 2)
	assert.Equal(t, "Dream big. #DreamCar", units[0])
	assert.Equal(t, "Made it. #Achievement", units[1])
}

func TestParseResponseInstagramInvalidJSONFallsBack(t *testing.T) {
	raw := "Here are some captions you might like: ..."
	units := ParseResponse(TypeInstagram, raw)
	require.Len(t, units, 1)
	assert.Equal(t, raw, units[0])
}

func TestParseResponseLinkedInSingleUnit(t *testing.T) {
	raw := "A post about leadership.\n\nWith a second paragraph."
	units := ParseResponse(TypeLinkedIn, raw)
	require.Len(t, units, 1)
	assert.Equal(t, raw, units[0])
}
