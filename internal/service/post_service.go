package service

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"astra/internal/models"
	"astra/internal/repository"

	"gorm.io/gorm"
)

type PostService struct {
	postRepo repository.PostRepository
}

type CreatePostInput struct {
	UserID    uint
	Content   string
	MediaURLs []string
}

type ListPostsInput struct {
	Take          int
	Skip          int
	CurrentUserID uint
}

type UpdatePostInput struct {
	UserID    uint
	PostID    uint
	Content   string
	MediaURLs []string
}

type DeletePostInput struct {
	UserID uint
	PostID uint
}

// PostPage is one window of the feed plus a flag indicating whether more
// posts exist past it.
type PostPage struct {
	Posts   []*models.Post `json:"posts"`
	HasMore bool           `json:"has_more"`
}

// ToggleLikeResult reports the like state after a toggle along with the
// refreshed post.
type ToggleLikeResult struct {
	Liked bool         `json:"liked"`
	Post  *models.Post `json:"post"`
}

func NewPostService(postRepo repository.PostRepository) *PostService {
	return &PostService{postRepo: postRepo}
}

const maxPostContentLen = 50000 // 50K characters
const maxMediaURLs = 10

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if strings.TrimSpace(in.Content) == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxPostContentLen {
		return nil, models.NewValidationError("Content too long (max 50000 characters)")
	}
	if len(in.MediaURLs) > maxMediaURLs {
		return nil, models.NewValidationError("Too many media attachments (max 10)")
	}
	for _, u := range in.MediaURLs {
		if _, err := url.ParseRequestURI(u); err != nil {
			return nil, models.NewValidationError("media_urls must contain valid URLs")
		}
	}

	post := &models.Post{
		Content:   in.Content,
		MediaURLs: in.MediaURLs,
		UserID:    in.UserID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, models.NewInternalError(err)
	}

	return s.GetPost(ctx, post.ID, in.UserID)
}

// ListPosts fetches one extra row past the requested window to decide
// whether more posts exist, then trims it off before returning.
func (s *PostService) ListPosts(ctx context.Context, in ListPostsInput) (*PostPage, error) {
	posts, err := s.postRepo.List(ctx, in.Take+1, in.Skip, in.CurrentUserID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	hasMore := len(posts) > in.Take
	if hasMore {
		posts = posts[:in.Take]
	}
	if posts == nil {
		posts = []*models.Post{}
	}
	return &PostPage{Posts: posts, HasMore: hasMore}, nil
}

func (s *PostService) GetPost(ctx context.Context, id uint, currentUserID uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id, currentUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return post, nil
}

func (s *PostService) GetUserPosts(ctx context.Context, userID uint, in ListPostsInput) (*PostPage, error) {
	posts, err := s.postRepo.GetByUserID(ctx, userID, in.Take+1, in.Skip, in.CurrentUserID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	hasMore := len(posts) > in.Take
	if hasMore {
		posts = posts[:in.Take]
	}
	if posts == nil {
		posts = []*models.Post{}
	}
	return &PostPage{Posts: posts, HasMore: hasMore}, nil
}

func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.GetPost(ctx, in.PostID, in.UserID)
	if err != nil {
		return nil, err
	}

	// Same response whether the post is missing or owned by someone else
	if post.UserID != in.UserID {
		return nil, models.NewNotFoundOrUnauthorizedError("Post")
	}

	if in.Content != "" {
		if len(in.Content) > maxPostContentLen {
			return nil, models.NewValidationError("Content too long (max 50000 characters)")
		}
		post.Content = in.Content
	}
	if in.MediaURLs != nil {
		if len(in.MediaURLs) > maxMediaURLs {
			return nil, models.NewValidationError("Too many media attachments (max 10)")
		}
		post.MediaURLs = in.MediaURLs
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, models.NewInternalError(err)
	}
	return post, nil
}

func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) error {
	post, err := s.GetPost(ctx, in.PostID, in.UserID)
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == "NOT_FOUND" {
			return models.NewNotFoundOrUnauthorizedError("Post")
		}
		return err
	}

	if post.UserID != in.UserID {
		return models.NewNotFoundOrUnauthorizedError("Post")
	}

	if err := s.postRepo.Delete(ctx, in.PostID); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// ToggleLike flips the caller's like on the post. The insert is atomic, so
// two concurrent toggles for the same pair cannot both report liked=true.
func (s *PostService) ToggleLike(ctx context.Context, userID, postID uint) (*ToggleLikeResult, error) {
	if _, err := s.GetPost(ctx, postID, userID); err != nil {
		return nil, err
	}

	inserted, err := s.postRepo.Like(ctx, userID, postID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	liked := inserted
	if !inserted {
		// Row already existed: this toggle removes it.
		if err := s.postRepo.Unlike(ctx, userID, postID); err != nil {
			return nil, models.NewInternalError(err)
		}
	}

	post, err := s.GetPost(ctx, postID, userID)
	if err != nil {
		return nil, err
	}
	return &ToggleLikeResult{Liked: liked, Post: post}, nil
}
