package model

import "fmt"

type VoteType string

const (
	Upvote   VoteType = "upvote"
	Downvote VoteType = "downvote"
)

func ParseVoteType(s string) (VoteType, bool) {
	switch VoteType(s) {
	case Upvote, Downvote:
		return VoteType(s), true
	}
	return "", false
}

// Vote 同一个 voter 对同一条评论只能有一票，由 (comment_id, voter_key) 联合唯一索引保证
type Vote struct {
	BaseModel
	CommentID uint64   `gorm:"not null;uniqueIndex:idx_comment_voter"`
	VoterKey  string   `gorm:"size:128;not null;uniqueIndex:idx_comment_voter"`
	UserID    *uint64  `gorm:"index"`
	VoteType  VoteType `gorm:"size:16;not null"`
}

func (Vote) TableName() string {
	return "comment_votes"
}

// Tally 一条评论的票数，没有投票时是 {0, 0}
type Tally struct {
	Upvotes   int64
	Downvotes int64
}

func (t Tally) Score() int64 {
	return t.Upvotes - t.Downvotes
}

func (t Tally) String() string {
	return fmt.Sprintf("+%d/-%d", t.Upvotes, t.Downvotes)
}
