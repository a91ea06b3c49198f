package service

import (
	"context"
	"strings"
	"time"

	"astra/internal/models"
	"astra/internal/repository"
	"astra/internal/validation"
)

type UserService struct {
	userRepo   repository.UserRepository
	followRepo repository.FollowRepository
}

// Profile is the public view of a user plus the social counters.
type Profile struct {
	ID             uint      `json:"id"`
	Username       string    `json:"username"`
	DisplayName    string    `json:"display_name"`
	Bio            string    `json:"bio"`
	Introduction   string    `json:"introduction"`
	Avatar         string    `json:"avatar"`
	PostsCount     int64     `json:"posts_count"`
	FollowersCount int64     `json:"followers_count"`
	FollowingCount int64     `json:"following_count"`
	IsFollowing    bool      `json:"is_following"`
	CreatedAt      time.Time `json:"created_at"`
}

// ToggleFollowResult reports the follow state after a toggle.
type ToggleFollowResult struct {
	Following      bool  `json:"following"`
	FollowersCount int64 `json:"followers_count"`
}

// UpdateProfileInput carries partial profile updates. Nil fields are left
// untouched so a client can clear a field by sending an empty string.
type UpdateProfileInput struct {
	UserID       uint
	Username     *string
	DisplayName  *string
	Bio          *string
	Introduction *string
	Avatar       *string
}

func NewUserService(userRepo repository.UserRepository, followRepo repository.FollowRepository) *UserService {
	return &UserService{userRepo: userRepo, followRepo: followRepo}
}

const searchMinQueryLen = 2
const searchResultCap = 10

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// GetProfile assembles the public profile for the given user, including
// whether viewerID follows them. A viewerID of 0 means anonymous.
func (s *UserService) GetProfile(ctx context.Context, userID, viewerID uint) (*Profile, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	postsCount, err := s.userRepo.CountPosts(ctx, userID)
	if err != nil {
		return nil, err
	}
	followers, err := s.followRepo.CountFollowers(ctx, userID)
	if err != nil {
		return nil, err
	}
	following, err := s.followRepo.CountFollowing(ctx, userID)
	if err != nil {
		return nil, err
	}

	isFollowing := false
	if viewerID != 0 && viewerID != userID {
		isFollowing, err = s.followRepo.IsFollowing(ctx, viewerID, userID)
		if err != nil {
			return nil, err
		}
	}

	return &Profile{
		ID:             user.ID,
		Username:       user.Username,
		DisplayName:    user.DisplayName,
		Bio:            user.Bio,
		Introduction:   user.Introduction,
		Avatar:         user.Avatar,
		PostsCount:     postsCount,
		FollowersCount: followers,
		FollowingCount: following,
		IsFollowing:    isFollowing,
		CreatedAt:      user.CreatedAt,
	}, nil
}

// ToggleFollow flips the follower's edge to the followee. The insert is
// atomic, so concurrent toggles for the same pair converge.
func (s *UserService) ToggleFollow(ctx context.Context, followerID, followeeID uint) (*ToggleFollowResult, error) {
	if followerID == followeeID {
		return nil, models.NewValidationError("You cannot follow yourself")
	}
	if _, err := s.userRepo.GetByID(ctx, followeeID); err != nil {
		return nil, err
	}

	inserted, err := s.followRepo.Follow(ctx, followerID, followeeID)
	if err != nil {
		return nil, err
	}

	followingNow := inserted
	if !inserted {
		// Edge already existed: this toggle removes it.
		if err := s.followRepo.Unfollow(ctx, followerID, followeeID); err != nil {
			return nil, err
		}
	}

	followers, err := s.followRepo.CountFollowers(ctx, followeeID)
	if err != nil {
		return nil, err
	}
	return &ToggleFollowResult{Following: followingNow, FollowersCount: followers}, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	const maxBioLen = 500
	const maxIntroductionLen = 5000
	const maxDisplayNameLen = 50

	if in.Username != nil {
		if err := validation.ValidateUsername(*in.Username); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.Username = *in.Username
	}
	if in.DisplayName != nil {
		if len(*in.DisplayName) > maxDisplayNameLen {
			return nil, models.NewValidationError("Display name too long (max 50 characters)")
		}
		user.DisplayName = *in.DisplayName
	}
	if in.Bio != nil {
		if len(*in.Bio) > maxBioLen {
			return nil, models.NewValidationError("Bio too long (max 500 characters)")
		}
		user.Bio = *in.Bio
	}
	if in.Introduction != nil {
		if len(*in.Introduction) > maxIntroductionLen {
			return nil, models.NewValidationError("Introduction too long (max 5000 characters)")
		}
		user.Introduction = *in.Introduction
	}
	if in.Avatar != nil {
		user.Avatar = *in.Avatar
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// SearchUsers returns users whose username or display name contains the
// query. Queries shorter than two characters return nothing rather than
// scanning the whole table.
func (s *UserService) SearchUsers(ctx context.Context, query string) ([]models.User, error) {
	query = strings.TrimSpace(query)
	if len(query) < searchMinQueryLen {
		return []models.User{}, nil
	}

	users, err := s.userRepo.Search(ctx, query, searchResultCap)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}
