package models

import (
	"database/sql"
	"time"
)

func CreateComment(db *sql.DB, postID, authorID int, text string) error {
	_, err := db.Exec(`INSERT INTO comments (post_id, user_id, text, created) VALUES (?, ?, ?, ?)`,
		postID, authorID, text, time.Now())
	return err
}

// ListComments returns a post's comments, newest first.
func ListComments(db *sql.DB, postID int) ([]Comment, error) {
	rows, err := db.Query(`
		SELECT c.id, c.post_id, c.user_id, u.username, c.text, c.created
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.post_id = ?
		ORDER BY c.created DESC, c.id DESC`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var cs []Comment
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.AuthorID, &c.Author, &c.Text, &c.Created); err != nil {
			return nil, err
		}
		cs = append(cs, c)
	}
	return cs, rows.Err()
}
