package classify

import (
	"fmt"
	"time"

	"matchlog/internal/core/likecontent"
)

// MatchType tells who made the first move on a match
type MatchType int

const (
	// YouLiked means you liked them and they matched
	YouLiked MatchType = 1
	// TheyLiked means they liked you and you matched
	TheyLiked MatchType = 2
)

// WhoLiked is the side that sent the like
type WhoLiked string

const (
	You  WhoLiked = "you"
	Them WhoLiked = "them"
)

type MatchFact struct {
	UserID    string     `json:"user_id"`
	Type      MatchType  `json:"type"`
	Timestamp *time.Time `json:"timestamp"`
}

type LikeFact struct {
	UserID    string           `json:"user_id"`
	Type      likecontent.Kind `json:"type"`
	Timestamp *time.Time       `json:"timestamp"`
}

// PersonRecord describes the outcome with one counterpart. At most one liked field is set
type PersonRecord struct {
	UserID         string                    `json:"user_id"`
	Matched        bool                      `json:"matched"`
	WhoLiked       WhoLiked                  `json:"who_liked"`
	LikedPhoto     *string                   `json:"what_you_liked_photo,omitempty"`
	LikedPrompt    *likecontent.PromptAnswer `json:"what_you_liked_prompt,omitempty"`
	LikedVideo     *string                   `json:"what_you_liked_video,omitempty"`
	LikeTimestamp  *time.Time                `json:"like_timestamp,omitempty"`
	MatchTimestamp *time.Time                `json:"match_timestamp,omitempty"`
	WeMet          *bool                     `json:"we_met,omitempty"`
	HasMedia       bool                      `json:"has_media"`
	Blocked        bool                      `json:"blocked"`
}

// Kind recovers the like content kind from the populated liked field
func (p PersonRecord) Kind() likecontent.Kind {
	switch {
	case p.LikedPhoto != nil:
		return likecontent.Photo
	case p.LikedPrompt != nil:
		return likecontent.Prompt
	case p.LikedVideo != nil:
		return likecontent.Video
	default:
		return likecontent.Unknown
	}
}

func (p *PersonRecord) setContent(c likecontent.Content) {
	p.HasMedia = c.HasMedia()
	switch c.Kind {
	case likecontent.Photo:
		url := c.URL
		p.LikedPhoto = &url
	case likecontent.Prompt:
		p.LikedPrompt = c.Prompt
	case likecontent.Video:
		url := c.URL
		p.LikedVideo = &url
	}
}

// Issue is an event-scoped problem that did not stop classification
type Issue struct {
	Index int
	Key   string
	Err   error
}

func (i Issue) Error() string {
	return fmt.Sprintf("event %d %s: %v", i.Index, i.Key, i.Err)
}

func (i Issue) Unwrap() error { return i.Err }
