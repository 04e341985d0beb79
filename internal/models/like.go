package models

import "time"

// PostLike is the join-table row recording that a profile liked a post.
// The unique index makes a second like by the same profile a conflict
// rather than a duplicate; posts.LikesCount tracks the row count.
type PostLike struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PostID    string    `json:"post_id" gorm:"type:uuid;index;uniqueIndex:idx_post_profile_like"`
	ProfileID string    `json:"profile_id" gorm:"type:uuid;index;uniqueIndex:idx_post_profile_like"`
	CreatedAt time.Time `json:"created_at"`
}
