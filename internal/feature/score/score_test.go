package score

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sizing-eval/internal/domain"
)

func str(s string) *string { return &s }

func TestParse_BestEffort(t *testing.T) {
	cases := []struct {
		name  string
		raw   *string
		score float64
		valid bool
	}{
		{"number", str(`{"score":82.5,"summary":"ok"}`), 82.5, true},
		{"nil", nil, 0, false},
		{"empty", str(""), 0, false},
		{"json null", str("null"), 0, false},
		{"not json", str("not-json"), 0, false},
		{"missing score", str(`{"summary":"pending"}`), 0, false},
		{"string score", str(`{"score":"80"}`), 0, false},
		{"array", str(`[1,2]`), 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := Parse(Technical, tc.raw)
			assert.Equal(t, tc.score, p.Score)
			assert.Equal(t, tc.valid, p.Valid)
		})
	}
}

func TestParse_KeepsUnknownFields(t *testing.T) {
	p := ParseText(Resource, `{"score":70,"level":"medium","gpuMemory":{"required":320}}`)
	require.True(t, p.Valid)
	assert.Equal(t, "medium", p.Level)
	assert.JSONEq(t, `{"score":70,"level":"medium","gpuMemory":{"required":320}}`, string(p.Raw))
}

func TestOverall(t *testing.T) {
	overall := func(tech, biz *string) int {
		return Overall(Parse(Technical, tech), Parse(Business, biz))
	}
	assert.Equal(t, 70, overall(str(`{"score":80}`), str(`{"score":60}`)))
	assert.Equal(t, 80, overall(str(`{"score":80}`), nil))
	assert.Equal(t, 60, overall(str(`{"score":0}`), str(`{"score":60}`)))
	assert.Equal(t, 0, overall(str("not-json"), nil))
	assert.Equal(t, 0, overall(nil, nil))
	assert.Equal(t, 71, overall(str(`{"score":81}`), str(`{"score":60}`)), "70.5 rounds up")
	assert.Equal(t, 80, overall(str(`{"score":80}`), str(`{"score":-5}`)), "negative counts as absent")
}

func TestForEvaluation(t *testing.T) {
	e := &domain.Evaluation{
		ResourceFeasibility:  `{"score":55}`,
		TechnicalFeasibility: `{"score":80}`,
		BusinessValue:        str(`{"score":60}`),
	}
	s := ForEvaluation(e)
	assert.Equal(t, 55.0, s.Resource.Score)
	assert.Equal(t, 70, s.Overall)

	e.BusinessValue = nil
	assert.Equal(t, 80, ForEvaluation(e).Overall)
}

func TestDailyTrend_ZeroFill(t *testing.T) {
	day3 := time.Date(2026, 5, 3, 18, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 5, 2, 9, 30, 0, 0, time.UTC)

	got := DailyTrend(day3, 3, []Sample{{At: day2, Score: 70}})
	require.Len(t, got, 3)
	assert.Equal(t, []Bucket{
		{Date: "2026-05-01", Count: 0},
		{Date: "2026-05-02", Count: 1, AvgScore: 70},
		{Date: "2026-05-03", Count: 0},
	}, got)
}

func TestDailyTrend_BucketsByUTCDate(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*3600)
	end := time.Date(2026, 5, 3, 12, 0, 0, 0, time.UTC)
	// 2026-05-03 01:00 at UTC+8 is 2026-05-02 17:00 UTC.
	early := time.Date(2026, 5, 3, 1, 0, 0, 0, loc)
	outside := time.Date(2026, 4, 20, 0, 0, 0, 0, time.UTC)

	got := DailyTrend(end, 2, []Sample{{At: early, Score: 50}, {At: early, Score: 0}, {At: outside, Score: 90}})
	require.Len(t, got, 2)
	assert.Equal(t, "2026-05-02", got[0].Date)
	assert.Equal(t, 2, got[0].Count)
	assert.Equal(t, 50, got[0].AvgScore)
	assert.Equal(t, 0, got[1].Count)
}

func TestDailyTrend_DefaultWindow(t *testing.T) {
	got := DailyTrend(time.Now(), 0, nil)
	assert.Len(t, got, DefaultTrendDays)
	assert.Equal(t, time.Now().UTC().Format("2006-01-02"), got[len(got)-1].Date)
}

func TestWindowStart(t *testing.T) {
	end := time.Date(2026, 3, 1, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC), WindowStart(end, 2))
}

func TestTop_SortsAndTruncates(t *testing.T) {
	var groups []domain.GroupCount
	for i := 0; i < 15; i++ {
		groups = append(groups, domain.GroupCount{Key: string(rune('a' + i)), Count: int64(i % 4)})
	}
	got := Top(groups, TopK)
	require.Len(t, got, TopK)
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Count, got[i].Count)
	}
	// ties keep input order
	assert.Equal(t, "d", got[0].Key)
	assert.Equal(t, "h", got[1].Key)
	// input untouched
	assert.Equal(t, "a", groups[0].Key)
}

func TestAverage(t *testing.T) {
	assert.Equal(t, 0, Average(nil))
	assert.Equal(t, 0, Average([]int{0, 0}))
	assert.Equal(t, 75, Average([]int{70, 0, 80}))
}
