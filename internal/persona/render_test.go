package persona

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_RoundTrip(t *testing.T) {
	texts := []string{
		"# Helper\nA simple helper persona.\n## Metadata\n- image: http://x/i.png\n- entry_message: Hi there!\n",
		"# P\nDesc.\n## Traits\n- curious\n- patient\n## Tone\nWarm and calm.\n## Info\nimage: http://x/i.png\nvoice: abc123\n",
		"# P\nDesc.\n## Metadata\n- tts_params:\n    speed: 1.2\n    loudness: 3\n    use_ssml: true\n- relevant_links: http://a http://b\n",
		"# P\nDesc.\n## Backstory\nGrew up near the sea.\n",
		"# P\nDesc.\n## Traits\n- curious\nSpeaks three languages.\nLoves puzzles.\n",
	}

	for _, text := range texts {
		original, _, err := Normalize(text)
		require.NoError(t, err)

		rendered := Render(original, DetectLayout(text))
		reparsed, _, err := Normalize(rendered)
		require.NoError(t, err, "rendered text must normalize:\n%s", rendered)

		assert.Equal(t, original, reparsed, "round-trip changed the persona:\n%s", rendered)
	}
}

func TestRender_FreeTextTraitStaysUnbulleted(t *testing.T) {
	original, _, err := Normalize("# P\nDesc.\n## Traits\n- curious\nSpeaks three languages.\nLoves puzzles.\n")
	require.NoError(t, err)
	require.Equal(t, []string{"curious", "Speaks three languages.\nLoves puzzles."}, original.Characteristics)

	rendered := Render(original, DefaultLayout())
	assert.Contains(t, rendered, "- curious\nSpeaks three languages.\nLoves puzzles.\n")

	reparsed, _, err := Normalize(rendered)
	require.NoError(t, err)
	assert.Equal(t, original.Characteristics, reparsed.Characteristics)
}

func TestDetectLayout(t *testing.T) {
	t.Run("alternative headings preserved", func(t *testing.T) {
		layout := DetectLayout("# P\nDesc.\n## Traits\n- curious\n## Info\nimage: x\n")

		assert.Equal(t, "Traits", layout.CharacteristicsHeading)
		assert.Equal(t, "Info", layout.MetadataHeading)
		assert.False(t, layout.DashMetadata)
		assert.True(t, layout.HasCharacteristics)
		assert.False(t, layout.HasVoice)
	})

	t.Run("lowercase headings title cased", func(t *testing.T) {
		layout := DetectLayout("# P\nDesc.\n## speaking style\n- slow\n")

		assert.Equal(t, "Speaking Style", layout.VoiceHeading)
	})

	t.Run("dash style detected", func(t *testing.T) {
		layout := DetectLayout("# P\nDesc.\n## Metadata\n- image: x\n")
		assert.True(t, layout.DashMetadata)
	})

	t.Run("unparseable text falls back to defaults", func(t *testing.T) {
		assert.Equal(t, DefaultLayout(), DetectLayout("no title here"))
	})
}

func TestRender_DefaultLayout(t *testing.T) {
	p := &Persona{
		Name:            "Helper",
		Description:     "A simple helper persona.",
		Characteristics: []string{"curious"},
		Metadata: Metadata{
			Image:        "http://x/i.png",
			EntryMessage: "Hi there!",
		},
	}

	text := Render(p, DefaultLayout())

	assert.Contains(t, text, "# Helper\n")
	assert.Contains(t, text, "## Characteristics\n- curious\n")
	assert.Contains(t, text, "## Metadata\n")
	assert.Contains(t, text, "- image: http://x/i.png\n")
	assert.Contains(t, text, "- entry_message: Hi there!\n")
}

func TestFormatParam(t *testing.T) {
	assert.Equal(t, "true", formatParam(true))
	assert.Equal(t, "3", formatParam(3))
	assert.Equal(t, "1.2", formatParam(1.2))
	assert.Equal(t, "1.0", formatParam(1.0))
	assert.Equal(t, "calm", formatParam("calm"))
}
