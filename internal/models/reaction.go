package models

import (
	"errors"
	"sort"
	"strings"
)

type ReactionType string

const (
	ReactionLike  ReactionType = "LIKE"
	ReactionLove  ReactionType = "LOVE"
	ReactionLaugh ReactionType = "LAUGH"
	ReactionWow   ReactionType = "WOW"
	ReactionSad   ReactionType = "SAD"
	ReactionAngry ReactionType = "ANGRY"
)

var ReactionTypes = []ReactionType{
	ReactionLike, ReactionLove, ReactionLaugh, ReactionWow, ReactionSad, ReactionAngry,
}

func (t ReactionType) Valid() bool {
	for _, rt := range ReactionTypes {
		if t == rt {
			return true
		}
	}
	return false
}

// ParseReactionType accepts any letter case ("like", "Like").
func ParseReactionType(s string) (ReactionType, error) {
	t := ReactionType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", errors.New("reaction type must be one of LIKE, LOVE, LAUGH, WOW, SAD, ANGRY")
	}
	return t, nil
}

type TargetKind string

const (
	TargetPost  TargetKind = "post"
	TargetReply TargetKind = "reply"
)

// Target identifies the post or the reply a reaction applies to. Exactly one
// of PostID and ReplyID must be set.
type Target struct {
	PostID  string
	ReplyID string
}

func PostTarget(postID string) Target {
	return Target{PostID: postID}
}

func ReplyTarget(replyID string) Target {
	return Target{ReplyID: replyID}
}

var ErrInvalidTarget = errors.New("exactly one of postId or replyId must be set")

func (t Target) Validate() error {
	if (t.PostID == "") == (t.ReplyID == "") {
		return ErrInvalidTarget
	}
	return nil
}

func (t Target) Kind() TargetKind {
	if t.PostID != "" {
		return TargetPost
	}
	return TargetReply
}

func (t Target) ID() string {
	if t.PostID != "" {
		return t.PostID
	}
	return t.ReplyID
}

type ToggleAction string

const (
	ToggleAdded   ToggleAction = "added"
	ToggleRemoved ToggleAction = "removed"
)

type ToggleResult struct {
	Action   ToggleAction `json:"action"`
	Reaction Reaction     `json:"reaction"`
}

type ReactionCount struct {
	Type  ReactionType `json:"type"`
	Count int          `json:"count"`
}

// CountReactions returns, per type, the number of distinct actors that hold
// that reaction. Types with no reactions are omitted; the result follows the
// order of ReactionTypes.
func CountReactions(reactions []FeedReaction) []ReactionCount {
	actors := make(map[ReactionType]map[string]struct{})
	for _, r := range reactions {
		if actors[r.Type] == nil {
			actors[r.Type] = make(map[string]struct{})
		}
		actors[r.Type][r.Author.ID] = struct{}{}
	}

	counts := make([]ReactionCount, 0, len(actors))
	for t, set := range actors {
		counts = append(counts, ReactionCount{Type: t, Count: len(set)})
	}

	sort.Slice(counts, func(i, j int) bool {
		return typeOrder(counts[i].Type) < typeOrder(counts[j].Type)
	})

	return counts
}

func typeOrder(t ReactionType) int {
	for i, rt := range ReactionTypes {
		if rt == t {
			return i
		}
	}
	return len(ReactionTypes)
}
