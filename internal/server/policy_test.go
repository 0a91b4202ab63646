package server

import (
	"testing"

	"yatube/internal/models"
)

func TestDecideEdit(t *testing.T) {
	post := &models.Post{ID: 1, AuthorID: 7}
	owner := &models.User{ID: 7}
	other := &models.User{ID: 8}

	if got := DecideEdit(owner, post); got != EditAllowed {
		t.Fatalf("owner: got %v", got)
	}
	if got := DecideEdit(other, post); got != EditDenied {
		t.Fatalf("non-owner: got %v", got)
	}
	if got := DecideEdit(nil, post); got != EditDenied {
		t.Fatalf("anonymous: got %v", got)
	}
}
