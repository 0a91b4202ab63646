package models

import "time"

type User struct {
	ID           int
	Email        string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

type Session struct {
	ID        string
	UserID    int
	CreatedAt time.Time
	ExpiresAt time.Time
	RevokedAt *time.Time
}

// Group is a named category a post may optionally belong to. Groups are
// seeded at migration time; there is no group CRUD surface.
type Group struct {
	ID          int
	Title       string
	Slug        string
	Description string
}

type Post struct {
	ID       int
	Text     string
	PubDate  time.Time
	AuthorID int
	Author   string // username, joined in by the queries
	GroupID  *int
	Group    string // group title, empty when ungrouped
	GroupSlug string
	Image    string // media-relative path, empty when the post has no image
}

type Comment struct {
	ID       int
	PostID   int
	AuthorID int
	Author   string
	Text     string
	Created  time.Time
}
