package models

import (
	"database/sql"
	"errors"
)

func GetGroupBySlug(db *sql.DB, slug string) (*Group, error) {
	return scanGroup(db.QueryRow(`SELECT id, title, slug, description FROM groups WHERE slug = ?`, slug))
}

func GetGroupByID(db *sql.DB, id int) (*Group, error) {
	return scanGroup(db.QueryRow(`SELECT id, title, slug, description FROM groups WHERE id = ?`, id))
}

func scanGroup(row *sql.Row) (*Group, error) {
	var g Group
	err := row.Scan(&g.ID, &g.Title, &g.Slug, &g.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// ListGroups returns all groups for the post form's select box.
func ListGroups(db *sql.DB) ([]Group, error) {
	rows, err := db.Query(`SELECT id, title, slug, description FROM groups ORDER BY title`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var groups []Group
	for rows.Next() {
		var g Group
		if err := rows.Scan(&g.ID, &g.Title, &g.Slug, &g.Description); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}
