package seed

import (
	"errors"
	"fmt"
	"log"

	"astra/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	// DemoEmail is the login for the built-in demo account.
	DemoEmail    = "demo@example.com"
	demoUsername = "demo_user"
	demoPassword = "password"
)

// EnsureDemoUser creates the demo account if it does not exist yet. The
// account lets a fresh install be explored without registering.
func EnsureDemoUser(db *gorm.DB) (*models.User, error) {
	var user models.User
	err := db.Where("email = ?", DemoEmail).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash demo password: %w", err)
	}

	user = models.User{
		Username:    demoUsername,
		Email:       DemoEmail,
		Password:    string(hashedPassword),
		DisplayName: "Demo User",
		Bio:         "Just here to look around.",
	}
	if err := db.Create(&user).Error; err != nil {
		return nil, err
	}
	log.Printf("demo user created (%s)", DemoEmail)
	return &user, nil
}

// Seed populates the database with generated users, posts, comments, likes
// and follows.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Starting database seeding with %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	// Clear existing data to avoid conflicts if requested
	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway...")
		}
	}

	factory := NewFactory(db, opts)

	demo, err := EnsureDemoUser(db)
	if err != nil {
		return fmt.Errorf("failed to ensure demo user: %w", err)
	}

	users := []*models.User{demo}
	for i := 1; i < opts.NumUsers; i++ {
		user, err := factory.CreateUser()
		if err != nil {
			log.Printf("Failed to create user: %v", err)
			continue
		}
		users = append(users, user)

		if i%100 == 0 {
			log.Printf("Created %d users...", i)
		}
	}
	log.Printf("%d users available", len(users))

	posts, err := createPosts(factory, users, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("%d posts created", len(posts))

	if err := createEngagement(factory, users, posts); err != nil {
		return fmt.Errorf("failed to create engagement: %w", err)
	}

	if err := createFollowMesh(factory, users); err != nil {
		return fmt.Errorf("failed to create follow mesh: %w", err)
	}

	log.Println("Database seeding completed successfully!")
	return nil
}

func clearData(db *gorm.DB) error {
	log.Println("Clearing existing data...")
	sql := `TRUNCATE TABLE comments, likes, follows, posts, users RESTART IDENTITY CASCADE;`
	return db.Exec(sql).Error
}

func createPosts(factory *Factory, users []*models.User, count int) ([]*models.Post, error) {
	posts := make([]*models.Post, 0, count)
	for i := 0; i < count; i++ {
		user := users[factory.rng.Intn(len(users))]
		post, err := factory.CreatePost(user)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)

		if i%100 == 0 {
			log.Printf("Created %d posts...", i)
		}
	}
	return posts, nil
}

// createEngagement sprinkles likes and two-level comment threads over the
// generated posts.
func createEngagement(factory *Factory, users []*models.User, posts []*models.Post) error {
	for _, post := range posts {
		// Likes from a random prefix of distinct users
		likers := factory.rng.Intn(len(users) + 1)
		for i := 0; i < likers && i < len(users); i++ {
			if err := factory.CreateLike(users[i], post); err != nil {
				return err
			}
		}

		// A few top-level comments, some with replies
		for i := 0; i < factory.rng.Intn(4); i++ {
			commenter := users[factory.rng.Intn(len(users))]
			comment, err := factory.CreateComment(commenter, post)
			if err != nil {
				return err
			}
			if factory.rng.Float32() < 0.5 {
				replier := users[factory.rng.Intn(len(users))]
				if _, err := factory.CreateReply(replier, comment); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// createFollowMesh gives each user a handful of distinct follows.
func createFollowMesh(factory *Factory, users []*models.User) error {
	for i, follower := range users {
		followed := map[uint]bool{follower.ID: true}
		edges := factory.rng.Intn(5)
		for j := 0; j < edges; j++ {
			followee := users[factory.rng.Intn(len(users))]
			if followed[followee.ID] {
				continue
			}
			followed[followee.ID] = true
			if err := factory.CreateFollow(follower, followee); err != nil {
				return err
			}
		}
		if i%100 == 0 && i > 0 {
			log.Printf("Created follow edges for %d users...", i)
		}
	}
	return nil
}
