// Package blog coordinates the file-resident post store and the relational
// account/like stores, enforcing authorization and the cross-store invariant
// that like rows only reference posts that exist.
package blog

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"mdblog/internal/posts"
	"mdblog/internal/render"
	"mdblog/internal/store"
)

var (
	// ErrInvalidInput is the sentinel for blank required fields and
	// password policy failures surfaced by the coordinator.
	ErrInvalidInput = errors.New("invalid input")

	// ErrSelfTarget is returned when an administrator tries to demote or
	// delete their own account.
	ErrSelfTarget = errors.New("cannot modify your own account")
)

func invalidInput(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, msg)
}

// PostView is the read model merged from both stores: post content plus
// aggregate like metadata for the requesting actor.
type PostView struct {
	Filename    string
	Title       string
	Author      string
	Body        string
	HTML        string
	LikeCount   int
	ViewerLiked bool
}

// Service sequences post, account, and like operations under the
// authorization gate.
type Service struct {
	posts  *posts.Store
	users  *store.UserStore
	likes  *store.LikeStore
	render func(string) string
}

func NewService(p *posts.Store, u *store.UserStore, l *store.LikeStore) *Service {
	return &Service{posts: p, users: u, likes: l, render: render.HTML}
}

// ListPosts returns all posts newest-first, each merged with its like count
// and whether actor has liked it. Like metadata is fetched in two batched
// queries, not one pair per post.
func (s *Service) ListPosts(ctx context.Context, actor Actor) ([]PostView, error) {
	list, err := s.posts.List(ctx)
	if err != nil {
		return nil, err
	}

	counts, err := s.likes.Counts(ctx)
	if err != nil {
		return nil, err
	}
	viewerLiked := map[string]bool{}
	if actor.Authenticated {
		viewerLiked, err = s.likes.LikedBy(ctx, actor.ID)
		if err != nil {
			return nil, err
		}
	}

	views := make([]PostView, 0, len(list))
	for _, p := range list {
		views = append(views, PostView{
			Filename:    p.Filename,
			Title:       p.Title,
			Author:      p.Author,
			Body:        p.Body,
			HTML:        s.render(p.Body),
			LikeCount:   counts[p.Filename],
			ViewerLiked: viewerLiked[p.Filename],
		})
	}
	return views, nil
}

// SearchPosts filters the listing to posts whose title contains q,
// case-insensitively. An empty query returns everything.
func (s *Service) SearchPosts(ctx context.Context, actor Actor, q string) ([]PostView, error) {
	views, err := s.ListPosts(ctx, actor)
	if err != nil {
		return nil, err
	}
	q = strings.TrimSpace(q)
	if q == "" {
		return views, nil
	}

	needle := strings.ToLower(q)
	matched := views[:0]
	for _, v := range views {
		if strings.Contains(strings.ToLower(v.Title), needle) {
			matched = append(matched, v)
		}
	}
	return matched, nil
}

// GetPost returns a single post view or posts.ErrNotFound.
func (s *Service) GetPost(ctx context.Context, actor Actor, filename string) (*PostView, error) {
	p, err := s.posts.Get(ctx, filename)
	if err != nil {
		return nil, err
	}

	count, err := s.likes.Count(ctx, filename)
	if err != nil {
		return nil, err
	}
	liked := false
	if actor.Authenticated {
		liked, err = s.likes.HasLiked(ctx, actor.ID, filename)
		if err != nil {
			return nil, err
		}
	}

	return &PostView{
		Filename:    p.Filename,
		Title:       p.Title,
		Author:      p.Author,
		Body:        p.Body,
		HTML:        s.render(p.Body),
		LikeCount:   count,
		ViewerLiked: liked,
	}, nil
}

// CreatePost records actor as the post's author and writes the file.
// Returns the derived filename.
func (s *Service) CreatePost(ctx context.Context, actor Actor, title, body string) (string, error) {
	if err := authorize(actor, ActionCreate, ""); err != nil {
		return "", err
	}
	title, body = strings.TrimSpace(title), strings.TrimSpace(body)
	if title == "" || body == "" {
		return "", invalidInput("title and content are required")
	}
	return s.posts.Create(ctx, title, actor.Username, body)
}

// EditPost rewrites a post, preserving the recorded author even when the
// editing administrator is someone else. A title change re-identifies the
// file and moves its like rows to the new filename.
func (s *Service) EditPost(ctx context.Context, actor Actor, filename, title, body string) (string, error) {
	if err := authorize(actor, ActionEdit, ""); err != nil {
		return "", err
	}
	title, body = strings.TrimSpace(title), strings.TrimSpace(body)
	if title == "" || body == "" {
		return "", invalidInput("title and content are required")
	}

	p, err := s.posts.Get(ctx, filename)
	if err != nil {
		return "", err
	}

	newFilename, err := s.posts.Update(ctx, filename, title, p.Author, body)
	if err != nil {
		return "", err
	}

	if newFilename != filename {
		if err := s.likes.Rekey(ctx, filename, newFilename); err != nil {
			// The post was renamed; its likes are orphaned until cleanup.
			// Read paths tolerate the stale rows, so log and continue.
			log.Printf("blog: rekey likes %s -> %s: %v", filename, newFilename, err)
		}
	}
	return newFilename, nil
}

// DeletePost removes a post and all likes referencing it. Likes go first so
// the file removal is the last step that can fail; a post is never left
// live with its likes gone silently, since a purge failure aborts.
func (s *Service) DeletePost(ctx context.Context, actor Actor, filename string) error {
	p, err := s.posts.Get(ctx, filename)
	if err != nil {
		return err
	}
	if err := authorize(actor, ActionDelete, p.Author); err != nil {
		return err
	}

	if err := s.likes.PurgeForPost(ctx, filename); err != nil {
		return fmt.Errorf("purge likes for %s: %w", filename, err)
	}
	return s.posts.Delete(ctx, filename)
}

// ToggleLike flips actor's like on a post and returns the new state plus
// the updated count.
func (s *Service) ToggleLike(ctx context.Context, actor Actor, filename string) (liked bool, count int, err error) {
	if err := authorize(actor, ActionLike, ""); err != nil {
		return false, 0, err
	}
	if _, err := s.posts.Get(ctx, filename); err != nil {
		return false, 0, err
	}

	liked, err = s.likes.Toggle(ctx, actor.ID, filename)
	if err != nil {
		return false, 0, err
	}
	count, err = s.likes.Count(ctx, filename)
	if err != nil {
		return liked, 0, err
	}
	return liked, count, nil
}

// Register creates an account for a guest actor.
func (s *Service) Register(ctx context.Context, actor Actor, username, email, password, confirm string) (*store.User, error) {
	if err := authorize(actor, ActionRegister, ""); err != nil {
		return nil, err
	}
	if password != confirm {
		return nil, invalidInput("passwords do not match")
	}
	return s.users.Register(ctx, username, email, password)
}

// Login authenticates a guest actor's credentials.
func (s *Service) Login(ctx context.Context, actor Actor, username, password string) (*store.User, error) {
	if err := authorize(actor, ActionLogin, ""); err != nil {
		return nil, err
	}
	if username == "" || password == "" {
		return nil, invalidInput("username and password are required")
	}
	return s.users.Authenticate(ctx, username, password)
}

// ChangePassword verifies the current password before storing a new digest.
func (s *Service) ChangePassword(ctx context.Context, actor Actor, current, newPassword, confirm string) error {
	if !actor.Authenticated {
		return denied("please log in to change your password")
	}
	if current == "" || newPassword == "" || confirm == "" {
		return invalidInput("all fields are required")
	}
	if newPassword != confirm {
		return invalidInput("new passwords do not match")
	}

	ok, err := s.users.VerifyPassword(ctx, actor.ID, current)
	if err != nil {
		return err
	}
	if !ok {
		return invalidInput("current password is incorrect")
	}
	return s.users.UpdatePassword(ctx, actor.ID, newPassword)
}

// ListUsers returns every account. Administrators only.
func (s *Service) ListUsers(ctx context.Context, actor Actor) ([]*store.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return s.users.List(ctx)
}

// SetAdmin grants or revokes the administrator role. An administrator
// cannot change their own role.
func (s *Service) SetAdmin(ctx context.Context, actor Actor, targetID int64, admin bool) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if targetID == actor.ID {
		return ErrSelfTarget
	}
	return s.users.SetAdmin(ctx, targetID, admin)
}

// DeleteUser removes an account and cascades to its like rows. An
// administrator cannot delete themselves.
func (s *Service) DeleteUser(ctx context.Context, actor Actor, targetID int64) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if targetID == actor.ID {
		return ErrSelfTarget
	}

	if err := s.likes.PurgeForUser(ctx, targetID); err != nil {
		return fmt.Errorf("purge likes for user %d: %w", targetID, err)
	}
	return s.users.Delete(ctx, targetID)
}
