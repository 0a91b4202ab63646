package models

import (
	"database/sql"
	"errors"
	"time"
)

const postSelect = `
SELECT p.id, p.text, p.pub_date, p.user_id, u.username,
       p.group_id, COALESCE(g.title, ''), COALESCE(g.slug, ''), COALESCE(p.image, '')
FROM posts p
JOIN users u ON u.id = p.user_id
LEFT JOIN groups g ON g.id = p.group_id
`

// CreatePost persists a new post. The publication time is assigned here,
// never taken from the client.
func CreatePost(db *sql.DB, authorID int, text string, groupID *int, image string) (int64, error) {
	res, err := db.Exec(`INSERT INTO posts (text, pub_date, user_id, group_id, image) VALUES (?, ?, ?, ?, ?)`,
		text, time.Now(), authorID, groupID, nullable(image))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// UpdatePost mutates an existing post in place. Publication time and
// ownership never change; an empty image keeps whatever is stored.
func UpdatePost(db *sql.DB, id int, text string, groupID *int, image string) error {
	if image == "" {
		_, err := db.Exec(`UPDATE posts SET text = ?, group_id = ? WHERE id = ?`, text, groupID, id)
		return err
	}
	_, err := db.Exec(`UPDATE posts SET text = ?, group_id = ?, image = ? WHERE id = ?`, text, groupID, image, id)
	return err
}

// GetPostByAuthor fetches one post scoped to (author, id). A correct post
// id under the wrong author is ErrNotFound, never a cross-author hit.
func GetPostByAuthor(db *sql.DB, authorID, postID int) (*Post, error) {
	row := db.QueryRow(postSelect+`WHERE p.id = ? AND p.user_id = ?`, postID, authorID)
	var p Post
	var groupID sql.NullInt64
	err := row.Scan(&p.ID, &p.Text, &p.PubDate, &p.AuthorID, &p.Author,
		&groupID, &p.Group, &p.GroupSlug, &p.Image)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if groupID.Valid {
		id := int(groupID.Int64)
		p.GroupID = &id
	}
	return &p, nil
}

func CountPostsByAuthor(db *sql.DB, authorID int) (int, error) {
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM posts WHERE user_id = ?`, authorID).Scan(&n)
	return n, err
}

// FeedPage lists all posts, newest first.
func FeedPage(db *sql.DB, number int) (*Page, error) {
	return listPage(db, number, ``, nil)
}

// GroupPage lists one group's posts, newest first.
func GroupPage(db *sql.DB, groupID, number int) (*Page, error) {
	return listPage(db, number, `WHERE p.group_id = ?`, []any{groupID})
}

// AuthorPage lists one author's posts, newest first.
func AuthorPage(db *sql.DB, authorID, number int) (*Page, error) {
	return listPage(db, number, `WHERE p.user_id = ?`, []any{authorID})
}

// FollowingPage lists posts by every author the user follows, newest first.
func FollowingPage(db *sql.DB, userID, number int) (*Page, error) {
	return listPage(db, number, `WHERE p.user_id IN (SELECT author_id FROM follows WHERE user_id = ?)`, []any{userID})
}

func listPage(db *sql.DB, number int, where string, args []any) (*Page, error) {
	var total int
	if err := db.QueryRow(`SELECT COUNT(*) FROM posts p `+where, args...).Scan(&total); err != nil {
		return nil, err
	}
	pages := (total + PageSize - 1) / PageSize
	if pages < 1 {
		pages = 1
	}
	// out-of-range page numbers clamp instead of erroring
	if number < 1 {
		number = 1
	}
	if number > pages {
		number = pages
	}

	q := postSelect + where + ` ORDER BY p.pub_date DESC, p.id DESC LIMIT ? OFFSET ?`
	rows, err := db.Query(q, append(args, PageSize, (number-1)*PageSize)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	page := &Page{Number: number, Total: total, Pages: pages}
	for rows.Next() {
		var p Post
		var groupID sql.NullInt64
		if err := rows.Scan(&p.ID, &p.Text, &p.PubDate, &p.AuthorID, &p.Author,
			&groupID, &p.Group, &p.GroupSlug, &p.Image); err != nil {
			return nil, err
		}
		if groupID.Valid {
			id := int(groupID.Int64)
			p.GroupID = &id
		}
		page.Posts = append(page.Posts, p)
	}
	return page, rows.Err()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
