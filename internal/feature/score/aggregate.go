package score

import (
	"math"
	"sort"
	"time"

	"sizing-eval/internal/domain"
)

// DefaultTrendDays is the trend window used when the caller gives none.
const DefaultTrendDays = 30

// TopK is the fixed size of top-N groupings.
const TopK = 10

// Overall combines technical and business scores: the rounded mean when
// both are positive, whichever one is positive otherwise, else 0.
func Overall(technical, business Payload) int {
	t, b := technical.Score, business.Score
	switch {
	case t > 0 && b > 0:
		return int(math.Round((t + b) / 2))
	case t > 0:
		return int(math.Round(t))
	case b > 0:
		return int(math.Round(b))
	}
	return 0
}

// Scores is the parsed view of one record.
type Scores struct {
	Resource  Payload
	Technical Payload
	Business  Payload
	Overall   int
}

func ForEvaluation(e *domain.Evaluation) Scores {
	s := Scores{
		Resource:  ParseText(Resource, e.ResourceFeasibility),
		Technical: ParseText(Technical, e.TechnicalFeasibility),
		Business:  Parse(Business, e.BusinessValue),
	}
	s.Overall = Overall(s.Technical, s.Business)
	return s
}

// Sample is one record's contribution to a trend.
type Sample struct {
	At    time.Time
	Score int
}

type Bucket struct {
	Date     string `json:"date"`
	Count    int    `json:"count"`
	AvgScore int    `json:"avgScore"`
}

const dateLayout = "2006-01-02"

// WindowStart is midnight UTC of the first day of a days-long window ending on end's date.
func WindowStart(end time.Time, days int) time.Time {
	if days <= 0 {
		days = DefaultTrendDays
	}
	y, m, d := end.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -(days - 1))
}

// DailyTrend buckets samples by UTC calendar date over the days ending on
// end's date. Every day in the window gets a bucket, oldest first. AvgScore
// averages the positive scores of the day.
func DailyTrend(end time.Time, days int, samples []Sample) []Bucket {
	if days <= 0 {
		days = DefaultTrendDays
	}
	start := WindowStart(end, days)
	buckets := make([]Bucket, days)
	index := make(map[string]int, days)
	for i := 0; i < days; i++ {
		key := start.AddDate(0, 0, i).Format(dateLayout)
		buckets[i].Date = key
		index[key] = i
	}

	sums := make([]int, days)
	scored := make([]int, days)
	for _, s := range samples {
		i, ok := index[s.At.UTC().Format(dateLayout)]
		if !ok {
			continue
		}
		buckets[i].Count++
		if s.Score > 0 {
			sums[i] += s.Score
			scored[i]++
		}
	}
	for i := range buckets {
		if scored[i] > 0 {
			buckets[i].AvgScore = int(math.Round(float64(sums[i]) / float64(scored[i])))
		}
	}
	return buckets
}

// Top sorts groups by count, highest first, and keeps at most k. Equal
// counts keep the order the store returned them in.
func Top(groups []domain.GroupCount, k int) []domain.GroupCount {
	out := append([]domain.GroupCount(nil), groups...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if k > 0 && len(out) > k {
		out = out[:k]
	}
	return out
}

// Average is the rounded mean of the positive values, 0 when there are none.
func Average(values []int) int {
	sum, n := 0, 0
	for _, v := range values {
		if v > 0 {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return int(math.Round(float64(sum) / float64(n)))
}
