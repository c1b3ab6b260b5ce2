package catalog

import (
	"testing"

	"mizan/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	actions, err := Default()
	require.NoError(t, err)
	require.Len(t, actions, 28)

	var good, bad int
	for _, a := range actions {
		switch a.Type {
		case domain.ActionGood:
			good++
		case domain.ActionBad:
			bad++
		}
		assert.True(t, a.Active)
		assert.GreaterOrEqual(t, a.Weight, 0)
	}
	assert.Equal(t, 15, good)
	assert.Equal(t, 13, bad)
}

func TestParseDefaultsWeight(t *testing.T) {
	actions, err := Parse([]byte(`
actions:
  - {type: GOOD, ar: "أ", fr: "a", en: "a"}
  - {type: BAD, weight: 0, ar: "ب", fr: "b", en: "b"}
`))
	require.NoError(t, err)
	require.Len(t, actions, 2)
	assert.Equal(t, 1, actions[0].Weight)
	assert.Equal(t, 0, actions[1].Weight)
}

func TestParseRejectsInvalidEntries(t *testing.T) {
	cases := map[string]string{
		"type":   `actions: [{type: MEH, ar: "a", fr: "a", en: "a"}]`,
		"weight": `actions: [{type: GOOD, weight: -2, ar: "a", fr: "a", en: "a"}]`,
		"name":   `actions: [{type: BAD, ar: "a", en: "a"}]`,
		"yaml":   `actions: [`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}
