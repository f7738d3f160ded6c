package models

import "time"

type ReactionAuthor struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type FeedReaction struct {
	ReactionID string         `json:"reactionId"`
	Type       ReactionType   `json:"type"`
	Author     ReactionAuthor `json:"author"`
	CreatedAt  time.Time      `json:"createdAt"`
}

type FeedReply struct {
	ReplyID        string          `json:"replyId"`
	Content        string          `json:"content"`
	PhotoURL       *string         `json:"photoUrl"`
	PostID         string          `json:"postId"`
	CreatedAt      time.Time       `json:"createdAt"`
	Author         AuthorSummary   `json:"author"`
	Reactions      []FeedReaction  `json:"reactions"`
	ReactionCounts []ReactionCount `json:"reactionCounts"`
}

// FeedPost is a post hydrated for the feed.
type FeedPost struct {
	PostID         string          `json:"postId"`
	Title          string          `json:"title"`
	Body           string          `json:"body"`
	PhotoURL       *string         `json:"photoUrl"`
	CreatedAt      time.Time       `json:"createdAt"`
	Author         AuthorSummary   `json:"author"`
	Replies        []FeedReply     `json:"replies"`
	Reactions      []FeedReaction  `json:"reactions"`
	ReactionCounts []ReactionCount `json:"reactionCounts"`
}

// FillCounts computes ReactionCounts for the post and each of its replies.
func (p *FeedPost) FillCounts() {
	p.ReactionCounts = CountReactions(p.Reactions)
	for i := range p.Replies {
		p.Replies[i].ReactionCounts = CountReactions(p.Replies[i].Reactions)
	}
}
