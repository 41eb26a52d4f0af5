package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kikibot/aa-alert/internal/catalog"
)

func strptr(s string) *string { return &s }

func TestProjectFiltersToTargets(t *testing.T) {
	entries := []catalog.Entry{
		{ID: "1", Name: "Kraken", Times: []catalog.TimeRule{{Time: "14:00:00"}}},
		{ID: "2", Name: "Fishing Tournament", Times: []catalog.TimeRule{{Time: "15:00:00"}}},
	}

	got := Project(entries, []string{"kraken"}, "NA", wednesdayNoon, nil)
	require.Len(t, got, 1)
	assert.Equal(t, "Kraken", got[0].Event.Name)
}

func TestProjectSubstringMatch(t *testing.T) {
	entries := []catalog.Entry{
		{ID: "1", Name: "Crimson Rift", Times: []catalog.TimeRule{{Time: "14:00:00"}}},
		{ID: "2", Name: "Crimson Rift (Auroria)", Times: []catalog.TimeRule{{Time: "15:00:00"}}},
	}

	// "crimson rift" is contained in both names.
	got := Project(entries, []string{"crimson rift"}, "NA", wednesdayNoon, nil)
	assert.Len(t, got, 2)
}

func TestProjectSkipsDisabled(t *testing.T) {
	entries := []catalog.Entry{
		{ID: "1", Name: "Kraken", Disabled: true, Times: []catalog.TimeRule{{Time: "14:00:00"}}},
	}

	got := Project(entries, []string{"kraken"}, "NA", wednesdayNoon, nil)
	assert.Empty(t, got)
}

func TestProjectRegionExactBeatsFallback(t *testing.T) {
	entries := []catalog.Entry{
		{ID: "1", Name: "Kraken", Times: []catalog.TimeRule{
			{Time: "13:00:00", Region: nil},           // fallback, would be earlier
			{Time: "20:00:00", Region: strptr("NA")},  // exact
			{Time: "22:00:00", Region: strptr("EU")},  // other region
		}},
	}

	got := Project(entries, []string{"kraken"}, "NA", wednesdayNoon, nil)
	require.Len(t, got, 1)
	// Only the exact NA rule counts, even though the fallback is sooner.
	assert.Equal(t, time.Date(2026, 1, 7, 20, 0, 0, 0, time.UTC), got[0].Next)
}

func TestProjectRegionFallbackWhenNoExact(t *testing.T) {
	entries := []catalog.Entry{
		{ID: "1", Name: "Kraken", Times: []catalog.TimeRule{
			{Time: "13:00:00", Region: nil},
			{Time: "22:00:00", Region: strptr("EU")},
		}},
	}

	got := Project(entries, []string{"kraken"}, "NA", wednesdayNoon, nil)
	require.Len(t, got, 1)
	assert.Equal(t, time.Date(2026, 1, 7, 13, 0, 0, 0, time.UTC), got[0].Next)
}

func TestProjectNoRulesForRegion(t *testing.T) {
	entries := []catalog.Entry{
		{ID: "1", Name: "Kraken", Times: []catalog.TimeRule{
			{Time: "22:00:00", Region: strptr("EU")},
		}},
	}

	got := Project(entries, []string{"kraken"}, "NA", wednesdayNoon, nil)
	assert.Empty(t, got)
}

func TestProjectEarliestAcrossRules(t *testing.T) {
	entries := []catalog.Entry{
		{ID: "1", Name: "Grimghast Rift", Times: []catalog.TimeRule{
			{Time: "18:00:00"},
			{Time: "13:00:00"},
			{Time: "21:00:00"},
		}},
	}

	got := Project(entries, []string{"grimghast"}, "NA", wednesdayNoon, nil)
	require.Len(t, got, 1)
	assert.Equal(t, time.Date(2026, 1, 7, 13, 0, 0, 0, time.UTC), got[0].Next)
}

func TestProjectSkipsFullyUnresolvable(t *testing.T) {
	entries := []catalog.Entry{
		{ID: "1", Name: "Kraken", Times: []catalog.TimeRule{
			{Time: "garbage"},
			{Time: "10:00:00", Days: []string{"NODAY"}},
		}},
	}

	got := Project(entries, []string{"kraken"}, "NA", wednesdayNoon, nil)
	assert.Empty(t, got)
}

func TestProjectSurvivesPartiallyUnresolvable(t *testing.T) {
	entries := []catalog.Entry{
		{ID: "1", Name: "Kraken", Times: []catalog.TimeRule{
			{Time: "garbage"},
			{Time: "19:00:00"},
		}},
	}

	got := Project(entries, []string{"kraken"}, "NA", wednesdayNoon, nil)
	require.Len(t, got, 1)
	assert.Equal(t, time.Date(2026, 1, 7, 19, 0, 0, 0, time.UTC), got[0].Next)
}
