package models

import (
	"fmt"
	"time"
)

// TextPreviewLength is how many characters of a post or comment the
// String methods show.
const TextPreviewLength = 15

type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Username  string    `json:"username" gorm:"size:150;not null;uniqueIndex"`
	CreatedAt time.Time `json:"created_at"`
}

func (u User) String() string {
	return u.Username
}

type Group struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	Title       string  `json:"title" gorm:"size:200;not null"`
	Slug        string  `json:"slug" gorm:"size:50;not null;uniqueIndex"`
	Description *string `json:"description"`
}

func (g Group) String() string {
	return g.Title
}

type Post struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Text      string    `json:"text" gorm:"not null"`
	CreatedAt time.Time `json:"created_at" gorm:"not null;index"`
	AuthorID  uint      `json:"author_id" gorm:"not null;index"`
	Author    User      `json:"author"`
	GroupID   *uint     `json:"group_id" gorm:"index"`
	Group     *Group    `json:"group,omitempty"`
	// Image is a blob reference handed out by the media store; empty when
	// the post has no image.
	Image string `json:"image"`
}

func (p Post) String() string {
	return truncate(p.Text, TextPreviewLength)
}

type Comment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PostID    uint      `json:"post_id" gorm:"not null;index"`
	Post      Post      `json:"-"`
	AuthorID  uint      `json:"author_id" gorm:"not null;index"`
	Author    User      `json:"author"`
	Text      string    `json:"text" gorm:"not null"`
	CreatedAt time.Time `json:"created_at" gorm:"not null"`
}

func (c Comment) String() string {
	return truncate(c.Text, TextPreviewLength)
}

// Follow is a directed subscription of User to Author. The pair is unique.
type Follow struct {
	ID       uint `json:"id" gorm:"primaryKey"`
	UserID   uint `json:"user_id" gorm:"not null;uniqueIndex:idx_follows_user_author"`
	User     User `json:"user"`
	AuthorID uint `json:"author_id" gorm:"not null;uniqueIndex:idx_follows_user_author;index"`
	Author   User `json:"author"`
}

func (f Follow) String() string {
	return fmt.Sprintf("%s follows %s", f.User, f.Author)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
