package models

import "database/sql"

// FollowAuthor records that user follows author. The insert runs under the
// (user_id, author_id) unique index, so a duplicate submission leaves
// exactly one edge. Self-follows are a silent no-op.
func FollowAuthor(db *sql.DB, userID, authorID int) error {
	if userID == authorID {
		return nil
	}
	_, err := db.Exec(`INSERT OR IGNORE INTO follows (user_id, author_id) VALUES (?, ?)`, userID, authorID)
	return err
}

// UnfollowAuthor deletes the follow edge if present; deleting an absent
// edge is not an error.
func UnfollowAuthor(db *sql.DB, userID, authorID int) error {
	_, err := db.Exec(`DELETE FROM follows WHERE user_id = ? AND author_id = ?`, userID, authorID)
	return err
}

func IsFollowing(db *sql.DB, userID, authorID int) (bool, error) {
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM follows WHERE user_id = ? AND author_id = ?`, userID, authorID).Scan(&n)
	return n > 0, err
}
