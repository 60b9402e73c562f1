package sorting

import "strings"

// Mode 一级评论的排序方式
type Mode string

const (
	Newest    Mode = "newest"
	Oldest    Mode = "oldest"
	Helpful   Mode = "helpful"
	Discussed Mode = "discussed"
)

// 置顶永远排在最前面，pin_order 越小越靠前
var pinnedFirst = []string{"comments.is_pinned DESC", "comments.pin_order ASC"}

// helpful 只数赞成票，不是净得分
const upvoteCount = "(SELECT COUNT(*) FROM comment_votes WHERE comment_votes.comment_id = comments.id AND comment_votes.vote_type = 'upvote')"

const replyCount = "(SELECT COUNT(*) FROM comments AS replies WHERE replies.parent_id = comments.id)"

// ParseMode 空值或不认识的值都按 newest 处理
func ParseMode(s string) Mode {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case Oldest, Helpful, Discussed:
		return m
	default:
		return Newest
	}
}

// OrderBy 返回 ORDER BY 子句序列，最后总是以 id 收尾，保证分页结果稳定
func (m Mode) OrderBy() []string {
	var byMode []string
	switch m {
	case Oldest:
		byMode = []string{"comments.created_at ASC", "comments.id ASC"}
	case Helpful:
		byMode = []string{upvoteCount + " DESC", "comments.created_at DESC", "comments.id DESC"}
	case Discussed:
		byMode = []string{replyCount + " DESC", "comments.created_at DESC", "comments.id DESC"}
	default:
		byMode = []string{"comments.created_at DESC", "comments.id DESC"}
	}
	return append(append([]string{}, pinnedFirst...), byMode...)
}
