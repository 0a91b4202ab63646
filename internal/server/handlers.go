package server

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"

	"yatube/internal/forms"
	"yatube/internal/models"
)

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	page, err := models.FeedPage(s.DB, pageNumber(r))
	if err != nil {
		s.serverError(w, err)
		return
	}
	s.render(w, http.StatusOK, "index", map[string]any{
		"Page": page,
		"User": s.currentUser(r),
	})
}

func (s *Server) handleGroup(w http.ResponseWriter, r *http.Request) {
	group, err := models.GetGroupBySlug(s.DB, r.PathValue("slug"))
	if errors.Is(err, models.ErrNotFound) {
		s.notFound(w, r)
		return
	}
	if err != nil {
		s.serverError(w, err)
		return
	}
	page, err := models.GroupPage(s.DB, group.ID, pageNumber(r))
	if err != nil {
		s.serverError(w, err)
		return
	}
	s.render(w, http.StatusOK, "group", map[string]any{
		"Group": group,
		"Page":  page,
		"User":  s.currentUser(r),
	})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	author, err := models.GetUserByUsername(s.DB, r.PathValue("username"))
	if errors.Is(err, models.ErrNotFound) {
		s.notFound(w, r)
		return
	}
	if err != nil {
		s.serverError(w, err)
		return
	}
	page, err := models.AuthorPage(s.DB, author.ID, pageNumber(r))
	if err != nil {
		s.serverError(w, err)
		return
	}
	viewer := s.currentUser(r)
	following := false
	if viewer != nil {
		following, err = models.IsFollowing(s.DB, viewer.ID, author.ID)
		if err != nil {
			s.serverError(w, err)
			return
		}
	}
	s.render(w, http.StatusOK, "profile", map[string]any{
		"Author":    author,
		"Page":      page,
		"Count":     page.Total,
		"Following": following,
		"IsSelf":    viewer != nil && viewer.ID == author.ID,
		"User":      viewer,
	})
}

// lookupPost resolves the {username}/{post_id} pair of r, writing a 404
// when either half does not resolve or the post belongs to someone else.
func (s *Server) lookupPost(w http.ResponseWriter, r *http.Request) (*models.User, *models.Post, bool) {
	author, err := models.GetUserByUsername(s.DB, r.PathValue("username"))
	if errors.Is(err, models.ErrNotFound) {
		s.notFound(w, r)
		return nil, nil, false
	}
	if err != nil {
		s.serverError(w, err)
		return nil, nil, false
	}
	postID, err := strconv.Atoi(r.PathValue("post_id"))
	if err != nil || postID < 1 {
		s.notFound(w, r)
		return nil, nil, false
	}
	post, err := models.GetPostByAuthor(s.DB, author.ID, postID)
	if errors.Is(err, models.ErrNotFound) {
		s.notFound(w, r)
		return nil, nil, false
	}
	if err != nil {
		s.serverError(w, err)
		return nil, nil, false
	}
	return author, post, true
}

func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	author, post, ok := s.lookupPost(w, r)
	if !ok {
		return
	}
	s.renderPostView(w, r, author, post, s.currentUser(r))
}

func (s *Server) renderPostView(w http.ResponseWriter, r *http.Request, author *models.User, post *models.Post, viewer *models.User) {
	comments, err := models.ListComments(s.DB, post.ID)
	if err != nil {
		s.serverError(w, err)
		return
	}
	count, err := models.CountPostsByAuthor(s.DB, author.ID)
	if err != nil {
		s.serverError(w, err)
		return
	}
	s.render(w, http.StatusOK, "post", map[string]any{
		"Author":   author,
		"Post":     post,
		"Comments": comments,
		"Count":    count,
		"User":     viewer,
	})
}

func (s *Server) handleNewPost(w http.ResponseWriter, r *http.Request, user *models.User) {
	switch r.Method {
	case http.MethodGet:
		s.renderPostForm(w, user, &forms.PostForm{Errors: forms.Errors{}}, nil)
	case http.MethodPost:
		f := s.validatePostForm(w, r)
		if f == nil {
			return
		}
		if !f.Valid() {
			s.renderPostForm(w, user, f, nil)
			return
		}
		image, err := s.saveImage(f.Image)
		if err != nil {
			s.serverError(w, err)
			return
		}
		if _, err := models.CreatePost(s.DB, user.ID, f.Text, f.GroupID, image); err != nil {
			s.serverError(w, err)
			return
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleEditPost(w http.ResponseWriter, r *http.Request, user *models.User) {
	author, post, ok := s.lookupPost(w, r)
	if !ok {
		return
	}
	if DecideEdit(user, post) == EditDenied {
		// not the owner: degrade to the read-only post view, not an error
		s.renderPostView(w, r, author, post, user)
		return
	}
	switch r.Method {
	case http.MethodGet:
		f := &forms.PostForm{Text: post.Text, GroupID: post.GroupID, Errors: forms.Errors{}}
		s.renderPostForm(w, user, f, post)
	case http.MethodPost:
		f := s.validatePostForm(w, r)
		if f == nil {
			return
		}
		if !f.Valid() {
			// a rejected upload leaves the stored image untouched
			s.renderPostForm(w, user, f, post)
			return
		}
		image, err := s.saveImage(f.Image)
		if err != nil {
			s.serverError(w, err)
			return
		}
		if err := models.UpdatePost(s.DB, post.ID, f.Text, f.GroupID, image); err != nil {
			s.serverError(w, err)
			return
		}
		http.Redirect(w, r, fmt.Sprintf("/%s/%d/", author.Username, post.ID), http.StatusSeeOther)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// validatePostForm parses the form and settles the group reference against
// the database. A nil return means the response is already written.
func (s *Server) validatePostForm(w http.ResponseWriter, r *http.Request) *forms.PostForm {
	f := forms.ParsePostForm(r)
	if f.GroupID != nil {
		_, err := models.GetGroupByID(s.DB, *f.GroupID)
		if errors.Is(err, models.ErrNotFound) {
			f.Errors.Add("group", "unknown group")
		} else if err != nil {
			s.serverError(w, err)
			return nil
		}
	}
	return f
}

func (s *Server) renderPostForm(w http.ResponseWriter, user *models.User, f *forms.PostForm, post *models.Post) {
	groups, err := models.ListGroups(s.DB)
	if err != nil {
		s.serverError(w, err)
		return
	}
	status := http.StatusOK
	if !f.Valid() {
		status = http.StatusUnprocessableEntity
	}
	s.render(w, status, "new", map[string]any{
		"Form":   f,
		"Groups": groups,
		"Post":   post, // nil when creating
		"User":   user,
	})
}

func (s *Server) handleComment(w http.ResponseWriter, r *http.Request, user *models.User) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	author, post, ok := s.lookupPost(w, r)
	if !ok {
		return
	}
	// the comment is bound to the URL-addressed post and the session user;
	// client-supplied references are ignored
	f := forms.ParseCommentForm(r)
	if f.Valid() {
		if err := models.CreateComment(s.DB, post.ID, user.ID, f.Text); err != nil {
			s.serverError(w, err)
			return
		}
	}
	http.Redirect(w, r, fmt.Sprintf("/%s/%d/", author.Username, post.ID), http.StatusSeeOther)
}

func (s *Server) handleFollow(w http.ResponseWriter, r *http.Request, user *models.User) {
	s.handleFollowChange(w, r, user, models.FollowAuthor)
}

func (s *Server) handleUnfollow(w http.ResponseWriter, r *http.Request, user *models.User) {
	s.handleFollowChange(w, r, user, models.UnfollowAuthor)
}

func (s *Server) handleFollowChange(w http.ResponseWriter, r *http.Request, user *models.User, change func(db *sql.DB, userID, authorID int) error) {
	author, err := models.GetUserByUsername(s.DB, r.PathValue("username"))
	if errors.Is(err, models.ErrNotFound) {
		s.notFound(w, r)
		return
	}
	if err != nil {
		s.serverError(w, err)
		return
	}
	if err := change(s.DB, user.ID, author.ID); err != nil {
		s.serverError(w, err)
		return
	}
	http.Redirect(w, r, "/"+author.Username+"/", http.StatusSeeOther)
}

func (s *Server) handleFollowFeed(w http.ResponseWriter, r *http.Request, user *models.User) {
	page, err := models.FollowingPage(s.DB, user.ID, pageNumber(r))
	if err != nil {
		s.serverError(w, err)
		return
	}
	s.render(w, http.StatusOK, "follow", map[string]any{
		"Page": page,
		"User": user,
	})
}

// saveImage writes a validated upload under the posts/ media namespace and
// returns the stored media-relative path. A nil upload is an empty path.
func (s *Server) saveImage(img *forms.ImageFile) (string, error) {
	if img == nil {
		return "", nil
	}
	dir := filepath.Join(s.MediaDir, "posts")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	ext := img.Format
	if ext == "jpeg" {
		ext = "jpg"
	}
	name := uuid.NewString() + "." + ext
	if err := os.WriteFile(filepath.Join(dir, name), img.Data, 0644); err != nil {
		return "", err
	}
	return "posts/" + name, nil
}
