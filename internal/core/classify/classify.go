// Package classify turns export events into match, like and person facts
//
// Each event is matched against five ordered rules over the set of keys it carries.
// The first rule that fits wins:
//
//	1 match and like   MatchFact(YouLiked), LikeFact, Person(matched, you)
//	2 match and chats  MatchFact(TheyLiked), Person(matched, them)
//	3 match            MatchFact(TheyLiked), Person(matched, them)
//	4 like             LikeFact, Person(not matched, you)
//	5 anything else    nothing
//
// we_met and block only ever modify the person produced by rules 1 to 4.
package classify

import (
	"math"
	"time"

	"matchlog/internal/core/events"
	"matchlog/internal/core/likecontent"
	"matchlog/internal/core/timestamp"
)

// Rule identifies which branch classified an event
type Rule int

const (
	RuleMatchLike Rule = iota + 1
	RuleMatchChats
	RuleMatch
	RuleLike
	RuleInert
)

func (r Rule) String() string {
	switch r {
	case RuleMatchLike:
		return "match_like"
	case RuleMatchChats:
		return "match_chats"
	case RuleMatch:
		return "match"
	case RuleLike:
		return "like"
	default:
		return "inert"
	}
}

type keySet uint8

const (
	hasMatch keySet = 1 << iota
	hasLike
	hasChats
	hasBlock
	hasWeMet
)

func (k keySet) has(bits keySet) bool { return k&bits == bits }

var keyBits = [...]struct {
	key string
	bit keySet
}{
	{events.KindMatch, hasMatch},
	{events.KindLike, hasLike},
	{events.KindChats, hasChats},
	{events.KindBlock, hasBlock},
	{events.KindWeMet, hasWeMet},
}

func keysOf(ev events.Event) keySet {
	var k keySet
	for _, kb := range keyBits {
		if ev.Has(kb.key) {
			k |= kb.bit
		}
	}
	return k
}

func ruleFor(k keySet) Rule {
	switch {
	case k.has(hasMatch | hasLike):
		return RuleMatchLike
	case k.has(hasMatch | hasChats):
		return RuleMatchChats
	case k.has(hasMatch):
		return RuleMatch
	case k.has(hasLike):
		return RuleLike
	default:
		return RuleInert
	}
}

// Outcome is what one event produced
type Outcome struct {
	Rule   Rule
	Match  *MatchFact
	Like   *LikeFact
	Person *PersonRecord
	Issues []Issue
}

// Event classifies a single event for userID. ev is never modified
func Event(ev events.Event, userID string) Outcome {
	keys := keysOf(ev)
	out := Outcome{Rule: ruleFor(keys)}

	switch out.Rule {
	case RuleMatchLike:
		matchAt := out.stamp(ev, events.KindMatch)
		likeAt := out.stamp(ev, events.KindLike)
		content := likeContent(ev)
		out.Match = &MatchFact{UserID: userID, Type: YouLiked, Timestamp: matchAt}
		out.Like = &LikeFact{UserID: userID, Type: content.Kind, Timestamp: likeAt}
		out.Person = &PersonRecord{
			UserID:         userID,
			Matched:        true,
			WhoLiked:       You,
			LikeTimestamp:  likeAt,
			MatchTimestamp: matchAt,
		}
		out.Person.setContent(content)

	case RuleMatchChats, RuleMatch:
		matchAt := out.stamp(ev, events.KindMatch)
		out.Match = &MatchFact{UserID: userID, Type: TheyLiked, Timestamp: matchAt}
		out.Person = &PersonRecord{
			UserID:         userID,
			Matched:        true,
			WhoLiked:       Them,
			MatchTimestamp: matchAt,
		}

	case RuleLike:
		likeAt := out.stamp(ev, events.KindLike)
		content := likeContent(ev)
		out.Like = &LikeFact{UserID: userID, Type: content.Kind, Timestamp: likeAt}
		out.Person = &PersonRecord{
			UserID:        userID,
			WhoLiked:      You,
			LikeTimestamp: likeAt,
		}
		out.Person.setContent(content)

	default:
		return out
	}

	if keys.has(hasWeMet) {
		met := weMet(ev)
		out.Person.WeMet = &met
	}
	out.Person.Blocked = keys.has(hasBlock)
	return out
}

// stamp parses the timestamp of key's first record, recording an issue when it is malformed
func (o *Outcome) stamp(ev events.Event, key string) *time.Time {
	rec, ok := ev.First(key)
	if !ok {
		return nil
	}
	t, found, err := timestamp.Field(rec)
	if err != nil {
		o.Issues = append(o.Issues, Issue{Key: key, Err: err})
		return nil
	}
	if !found {
		return nil
	}
	return &t
}

func likeContent(ev events.Event) likecontent.Content {
	rec, ok := ev.First(events.KindLike)
	if !ok {
		return likecontent.Content{}
	}
	return likecontent.Classify(rec)
}

func weMet(ev events.Event) bool {
	rec, ok := ev.First(events.KindWeMet)
	if !ok {
		return false
	}
	answer, _ := rec["did_meet_subject"].(string)
	return answer == "Yes"
}

// Result collects everything a run over an export produced
type Result struct {
	Matches []MatchFact
	Likes   []LikeFact
	Persons []PersonRecord
	Issues  []Issue
	Tally   Tally
}

// All classifies evs in order. progress, when set, is called once per event after it is consumed
func All(evs []events.Event, userID string, progress func(done, total int)) Result {
	var res Result
	total := len(evs)
	for i, ev := range evs {
		out := Event(ev, userID)
		res.Collect(i, out)
		res.Tally.Add(ev)
		if progress != nil {
			progress(i+1, total)
		}
	}
	return res
}

// Collect appends one outcome, stamping its issues with the event index
func (r *Result) Collect(index int, out Outcome) {
	if out.Match != nil {
		r.Matches = append(r.Matches, *out.Match)
	}
	if out.Like != nil {
		r.Likes = append(r.Likes, *out.Like)
	}
	if out.Person != nil {
		r.Persons = append(r.Persons, *out.Person)
	}
	for _, is := range out.Issues {
		is.Index = index
		r.Issues = append(r.Issues, is)
	}
}

// Progress is round(100*done/total, 2). An empty run is complete
func Progress(done, total int) float64 {
	if total <= 0 {
		return 100
	}
	v := float64(done) * 100 / float64(total)
	return math.Round(v*100) / 100
}
