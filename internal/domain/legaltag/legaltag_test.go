package legaltag

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchExact(t *testing.T) {
	tag, ok := Match("DUI")
	assert.True(t, ok)
	assert.Equal(t, "DUI", tag)

	tag, ok = Match("dui")
	assert.True(t, ok)
	assert.Equal(t, "DUI", tag)

	tag, ok = Match("  domestic violence  ")
	assert.True(t, ok)
	assert.Equal(t, "Domestic Violence", tag)
}

func TestMatchSubstring(t *testing.T) {
	// Raw contains a vocabulary term.
	tag, ok := Match("felony DUI charge")
	assert.True(t, ok)
	assert.Equal(t, "DUI", tag)

	// Vocabulary term contains the raw tag.
	tag, ok = Match("Suppression")
	assert.True(t, ok)
	assert.Equal(t, "Evidence Suppression", tag)
}

func TestMatchWordOverlap(t *testing.T) {
	// No exact or substring hit; "violation" overlaps "Probation Violation".
	tag, ok := Match("violation hearing notice")
	assert.True(t, ok)
	assert.Equal(t, "Probation Violation", tag)
}

func TestMatchNoResult(t *testing.T) {
	_, ok := Match("zoning variance")
	assert.False(t, ok)

	_, ok = Match("")
	assert.False(t, ok)
}

func TestStrategyOrder(t *testing.T) {
	// "Theft" matches exactly even though it is also a substring of other
	// inputs; the exact strategy must win before substring runs.
	tag, ok := Match("theft")
	assert.True(t, ok)
	assert.Equal(t, "Theft", tag)
}

func TestValidateTags(t *testing.T) {
	got := ValidateTags([]string{"dui", "felony DUI charge", "zoning variance", "Assault"})
	assert.Equal(t, []string{"DUI", "Assault"}, got)
}

func TestValidateTagsEmpty(t *testing.T) {
	assert.Empty(t, ValidateTags(nil))
	assert.Empty(t, ValidateTags([]string{"", "   "}))
}
