package corpus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog(t *testing.T) *Catalog {
	t.Helper()

	records := []ProgramRecord{
		{SchemeName: "A", State: "Goa", SubCategories: []string{"Financial assistance"}},
		{SchemeName: "B", State: "Goa", SubCategories: []string{"Financial assistance"}},
		{SchemeName: "C", State: "Goa", SubCategories: []string{"Animal husbandry"}},
		{SchemeName: "D", State: "Kerala", SubCategories: []string{"Irrigation"}},
		{SchemeName: "E", SubCategories: []string{"Crop insurance"}},
		{SchemeName: "F", SubCategories: []string{"Financial assistance", ""}},
	}

	enriched := make([]EnrichedRecord, 0, len(records))
	for _, r := range records {
		enriched = append(enriched, Normalize(r))
	}
	return BuildCatalog(enriched)
}

func TestCatalog_StateTopics(t *testing.T) {
	c := testCatalog(t)

	topics := c.StateTopics("Goa")
	require.Len(t, topics, 2)
	assert.Equal(t, TopicCount{Name: "Financial assistance", Count: 2}, topics[0])
	assert.Equal(t, TopicCount{Name: "Animal husbandry", Count: 1}, topics[1])

	assert.Empty(t, c.StateTopics("Punjab"))
}

func TestCatalog_StateTopics_CaseInsensitiveState(t *testing.T) {
	c := testCatalog(t)
	assert.Equal(t, c.StateTopics("Goa"), c.StateTopics("goa"))
}

func TestCatalog_CentralTopics(t *testing.T) {
	c := testCatalog(t)

	topics := c.CentralTopics()
	require.Len(t, topics, 2)
	// Equal counts tie-break alphabetically.
	assert.Equal(t, "Crop insurance", topics[0].Name)
	assert.Equal(t, "Financial assistance", topics[1].Name)
}

func TestCatalog_TopicCounts(t *testing.T) {
	c := testCatalog(t)

	count, ok := c.StateTopicCount("Goa", "financial ASSISTANCE")
	assert.True(t, ok)
	assert.Equal(t, 2, count)

	count, ok = c.CentralTopicCount("crop insurance")
	assert.True(t, ok)
	assert.Equal(t, 1, count)

	_, ok = c.StateTopicCount("Goa", "Irrigation")
	assert.False(t, ok)
}

func TestCatalog_Topics_SortedUnique(t *testing.T) {
	c := testCatalog(t)
	assert.Equal(t, []string{
		"Animal husbandry",
		"Crop insurance",
		"Financial assistance",
		"Irrigation",
	}, c.Topics())
}

func TestCatalog_CanonicalTopic(t *testing.T) {
	c := testCatalog(t)

	name, ok := c.CanonicalTopic("ANIMAL husbandry")
	assert.True(t, ok)
	assert.Equal(t, "Animal husbandry", name)

	_, ok = c.CanonicalTopic("Soil health")
	assert.False(t, ok)
}
