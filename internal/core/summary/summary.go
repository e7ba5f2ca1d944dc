// Package summary aggregates stored facts into the numbers shown on the report page
package summary

import (
	"math"
	"time"

	"matchlog/internal/core/classify"
	ptime "matchlog/internal/platform/time"
)

// Summary is the per-user report
type Summary struct {
	Matches           int            `json:"matches"`
	Likes             int            `json:"likes"`
	MatchesYouLiked   int            `json:"matches_you_liked"`
	MatchesTheyLiked  int            `json:"matches_they_liked"`
	ConversionPercent int            `json:"conversion_percent"`
	LikesPerDay       float64        `json:"likes_per_day"`
	MatchesPerDay     float64        `json:"matches_per_day"`
	LikeKinds         map[string]int `json:"like_kinds"`
	Conversations     int            `json:"conversations"`
	StartDate         *time.Time     `json:"start_date,omitempty"`
	EndDate           *time.Time     `json:"end_date,omitempty"`
}

// Input is what Compute reads
type Input struct {
	Matches       []classify.MatchFact
	Likes         []classify.LikeFact
	Conversations int
}

// Compute builds the report. Conversion is the ceiling of matches over likes as a percent
func Compute(in Input) Summary {
	s := Summary{
		Matches:       len(in.Matches),
		Likes:         len(in.Likes),
		LikeKinds:     map[string]int{},
		Conversations: in.Conversations,
	}

	var span ptime.Bounds
	matchStamps := make([]*time.Time, 0, len(in.Matches))
	for _, m := range in.Matches {
		switch m.Type {
		case classify.YouLiked:
			s.MatchesYouLiked++
		case classify.TheyLiked:
			s.MatchesTheyLiked++
		}
		matchStamps = append(matchStamps, m.Timestamp)
		span.Observe(m.Timestamp)
	}
	likeStamps := make([]*time.Time, 0, len(in.Likes))
	for _, l := range in.Likes {
		s.LikeKinds[l.Type.String()]++
		likeStamps = append(likeStamps, l.Timestamp)
		span.Observe(l.Timestamp)
	}

	if s.Likes > 0 {
		s.ConversionPercent = int(math.Ceil(float64(s.Matches) / float64(s.Likes) * 100))
	}
	s.LikesPerDay = PerDay(likeStamps)
	s.MatchesPerDay = PerDay(matchStamps)
	if span.N > 0 {
		s.StartDate = ptime.Ptr(span.First)
		s.EndDate = ptime.Ptr(span.Last)
	}
	return s
}

// PerDay is the count of stamps over the whole days between the earliest and latest, rounded to 2 places.
// Nil stamps still count. A span shorter than a day counts as one day; no dated stamps gives 0
func PerDay(stamps []*time.Time) float64 {
	var b ptime.Bounds
	for _, ts := range stamps {
		b.Observe(ts)
	}
	if b.N == 0 {
		return 0
	}
	days := math.Floor(b.Days())
	if days < 1 {
		days = 1
	}
	return math.Round(float64(len(stamps))/days*100) / 100
}
