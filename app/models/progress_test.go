package models

import (
	"encoding/json"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checklistWith(k int) Checklist {
	var c Checklist
	for _, key := range ChecklistKeys[:k] {
		c.Set(key, true)
	}
	return c
}

func TestComputeProgress(t *testing.T) {
	for k := 0; k <= len(ChecklistKeys); k++ {
		t.Run(fmt.Sprintf("%d of 7", k), func(t *testing.T) {
			p := ComputeProgress(checklistWith(k))
			assert.Equal(t, 7, p.Total)
			assert.Equal(t, k, p.Completed)
			assert.Equal(t, int(math.Round(float64(100*k)/7)), p.Percentage)
		})
	}
}

func TestComputeProgressThreeOfSeven(t *testing.T) {
	c := Checklist{PrsMerged: true, TestsPassing: true, DeployedDemo: true}
	assert.Equal(t, Progress{Total: 7, Completed: 3, Percentage: 43}, ComputeProgress(c))
}

func TestPercentage(t *testing.T) {
	cases := []struct {
		completed, total, expected int
	}{
		{0, 0, 0},
		{0, 7, 0},
		{1, 8, 13},
		{1, 2, 50},
		{1, 3, 33},
		{2, 3, 67},
		{7, 7, 100},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("%d/%d", tc.completed, tc.total), func(t *testing.T) {
			assert.Equal(t, tc.expected, Percentage(tc.completed, tc.total))
		})
	}
}

func TestClassifyStatus(t *testing.T) {
	cases := []struct {
		completed, total int
		expected         Status
	}{
		{0, 0, StatusPlanned},
		{0, 7, StatusPlanned},
		{0, 1, StatusPlanned},
		{1, 1, StatusDone},
		{7, 7, StatusDone},
		{1, 7, StatusOngoing},
		{6, 7, StatusOngoing},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("%d/%d is %s", tc.completed, tc.total, tc.expected), func(t *testing.T) {
			assert.Equal(t, tc.expected, ClassifyStatus(tc.completed, tc.total))
		})
	}
}

func TestDefaults(t *testing.T) {
	assert.Equal(t, Progress{Total: 7}, DefaultProgress())
	assert.Equal(t, DefaultProgress(), ComputeProgress(DefaultChecklist()))
	assert.Equal(t, StatusPlanned, DefaultProgress().Status())
}

func TestChecklistSetAndItems(t *testing.T) {
	var c Checklist
	c.Set("testedDemo", true)
	c.Toggle("prsMerged")
	c.Set("unknown", true)

	assert.True(t, c.TestedDemo)
	assert.True(t, c.PrsMerged)
	assert.False(t, c.Get("unknown"))

	items := c.Items()
	require.Len(t, items, 7)
	assert.Equal(t, "prsMerged", items[0].Key)
	assert.True(t, items[0].Done)
	assert.Equal(t, "deployedProduction", items[6].Key)
	assert.False(t, items[6].Done)
	assert.NotEmpty(t, items[6].Label)
}

func TestChecklistJSONKeys(t *testing.T) {
	b, err := json.Marshal(Checklist{DeployedProduction: true})
	require.NoError(t, err)

	var decoded map[string]bool
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Len(t, decoded, len(ChecklistKeys))
	for _, key := range ChecklistKeys {
		assert.Contains(t, decoded, key)
	}
	assert.True(t, decoded["deployedProduction"])
}

func TestReleaseDate(t *testing.T) {
	d, err := ParseReleaseDate("2026-03-01")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-01", d.String())

	d, err = ParseReleaseDate("2026-03-01T15:04:05Z")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-01", d.String())

	_, err = ParseReleaseDate("03/01/2026")
	assert.Error(t, err)

	b, err := json.Marshal(NewReleaseDate(2026, time.March, 1))
	require.NoError(t, err)
	assert.Equal(t, `"2026-03-01"`, string(b))

	var scanned ReleaseDate
	require.NoError(t, scanned.Scan("2026-04-02 00:00:00+00:00"))
	assert.Equal(t, "2026-04-02", scanned.String())
	require.NoError(t, scanned.Scan(time.Date(2026, 5, 3, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2026-05-03", scanned.String())
	require.NoError(t, scanned.Scan([]byte("2026-06-04")))
	assert.Equal(t, "2026-06-04", scanned.String())
	assert.Error(t, scanned.Scan(42))
}
