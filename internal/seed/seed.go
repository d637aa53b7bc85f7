// Package seed populates the database with demo data for development.
package seed

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"pawfeed/internal/models"
	"pawfeed/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options controls how much data the seeder creates. The zero value is
// filled with defaults by Normalize.
type Options struct {
	Users      int    `yaml:"users"`
	Posts      int    `yaml:"posts"`
	Clean      bool   `yaml:"clean"`
	AdminEmail string `yaml:"admin_email"`
	Password   string `yaml:"password"`
}

// Normalize fills unset fields with defaults.
func (o *Options) Normalize() {
	if o.Users <= 0 {
		o.Users = 25
	}
	if o.Posts <= 0 {
		o.Posts = 100
	}
	if o.AdminEmail == "" {
		o.AdminEmail = "admin@pawfeed.dev"
	}
	if o.Password == "" {
		o.Password = "password123"
	}
}

var (
	petNames = []string{
		"Thor", "Luna", "Mel", "Bob", "Nina", "Fred", "Amora", "Simba",
		"Mia", "Rex", "Lola", "Chico", "Pandora", "Biscoito", "Paçoca",
	}

	tagPool = []string{
		"filhote", "resgate", "adoção", "banho", "soneca", "travessura",
		"aniversário", "passeio", "petisco", "veterinário", "brincadeira",
	}

	rejectionReasons = []string{
		"Imagem sem animal visível",
		"Conteúdo duplicado",
		"Texto fora do tema do feed",
	}
)

// Seeder creates demo data through the repository layer so domain rules
// (tag normalization, featured singleton, review metadata) hold for seeded
// rows exactly as for real ones.
type Seeder struct {
	db       *gorm.DB
	userRepo repository.UserRepository
	postRepo repository.PostRepository
	tagRepo  repository.TagRepository
	interact repository.InteractionRepository
	rng      *rand.Rand
}

// NewSeeder creates a Seeder bound to the given database.
func NewSeeder(db *gorm.DB) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	tagRepo := repository.NewTagRepository(db)
	return &Seeder{
		db:       db,
		userRepo: repository.NewUserRepository(db),
		postRepo: repository.NewPostRepository(db, tagRepo),
		tagRepo:  tagRepo,
		interact: repository.NewInteractionRepository(db),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ClearAll wipes seeded tables in dependency order.
func (s *Seeder) ClearAll() error {
	tables := []string{
		"admin_logs", "likes", "comments", "follows", "post_tags",
		"tags", "posts", "users",
	}
	for _, table := range tables {
		if err := s.db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}

// Run creates the admin, users, posts across all moderation states, one
// featured post, and a spread of likes, comments and follows.
func (s *Seeder) Run(ctx context.Context, opts Options) error {
	opts.Normalize()

	hash, err := bcrypt.GenerateFromPassword([]byte(opts.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	admin := &models.User{
		Name:     "Pawfeed Admin",
		Email:    opts.AdminEmail,
		Password: string(hash),
		Role:     models.RoleAdmin,
		IsActive: true,
	}
	if err := s.userRepo.Create(ctx, admin); err != nil {
		return fmt.Errorf("create admin: %w", err)
	}

	users := make([]*models.User, 0, opts.Users)
	for i := 0; i < opts.Users; i++ {
		role := models.RoleUser
		if i%10 == 9 {
			role = models.RoleEditor
		}
		user := &models.User{
			Name:     gofakeit.Name(),
			Email:    fmt.Sprintf("%d.%s", i, gofakeit.Email()),
			Password: string(hash),
			Role:     role,
			IsActive: true,
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		users = append(users, user)
	}
	log.Printf("seeded %d users (admin: %s)", len(users)+1, admin.Email)

	var approved []*models.Post
	for i := 0; i < opts.Posts; i++ {
		author := users[s.rng.Intn(len(users))]
		post := &models.Post{
			UserID:   author.ID,
			Title:    s.postTitle(),
			Content:  gofakeit.Paragraph(1, 3, 8, "\n"),
			ImageURL: fmt.Sprintf("https://picsum.photos/seed/%s/800/600", gofakeit.UUID()),
			Category: s.category(),
			Status:   models.StatusPending,
		}
		if err := s.postRepo.Create(ctx, post, s.tags()); err != nil {
			return fmt.Errorf("create post: %w", err)
		}

		switch roll := s.rng.Intn(10); {
		case roll < 7:
			if err := s.review(ctx, post, admin.ID, models.StatusApproved, ""); err != nil {
				return err
			}
			approved = append(approved, post)
		case roll < 8:
			reason := rejectionReasons[s.rng.Intn(len(rejectionReasons))]
			if err := s.review(ctx, post, admin.ID, models.StatusRejected, reason); err != nil {
				return err
			}
		}
	}
	log.Printf("seeded %d posts (%d approved)", opts.Posts, len(approved))

	if len(approved) > 0 {
		pick := approved[s.rng.Intn(len(approved))]
		if err := s.postRepo.SetFeatured(ctx, pick.ID, true); err != nil {
			return fmt.Errorf("feature post: %w", err)
		}
		log.Printf("featured post %d", pick.ID)
	}

	for _, post := range approved {
		for _, user := range users {
			if s.rng.Intn(4) == 0 {
				if _, err := s.interact.ToggleLike(ctx, user.ID, post.ID); err != nil {
					return fmt.Errorf("like post: %w", err)
				}
			}
			if s.rng.Intn(8) == 0 {
				comment := &models.Comment{
					UserID:  user.ID,
					PostID:  post.ID,
					Content: gofakeit.Sentence(8),
				}
				if err := s.interact.AddComment(ctx, comment); err != nil {
					return fmt.Errorf("comment post: %w", err)
				}
			}
		}
	}

	for _, follower := range users {
		for i := 0; i < 3; i++ {
			target := users[s.rng.Intn(len(users))]
			if target.ID == follower.ID {
				continue
			}
			if _, err := s.interact.ToggleFollow(ctx, follower.ID, target.ID); err != nil {
				return fmt.Errorf("follow user: %w", err)
			}
		}
	}

	log.Println("seeding complete")
	return nil
}

func (s *Seeder) review(ctx context.Context, post *models.Post, reviewerID uint, status models.PostStatus, reason string) error {
	now := time.Now()
	post.Status = status
	post.ReviewedByUserID = &reviewerID
	post.ReviewedAt = &now
	post.RejectionReason = reason
	if err := s.postRepo.UpdateReview(ctx, post); err != nil {
		return fmt.Errorf("review post: %w", err)
	}
	return nil
}

func (s *Seeder) category() models.PostCategory {
	if s.rng.Intn(2) == 0 {
		return models.CategoryCats
	}
	return models.CategoryDogs
}

func (s *Seeder) postTitle() string {
	pet := petNames[s.rng.Intn(len(petNames))]
	templates := []string{
		"%s descobriu o espelho hoje",
		"Primeiro passeio do %s no parque",
		"%s e a caixa de papelão",
		"A soneca mais longa do %s",
		"%s aprontou de novo",
	}
	return fmt.Sprintf(templates[s.rng.Intn(len(templates))], pet)
}

func (s *Seeder) tags() []string {
	n := 1 + s.rng.Intn(3)
	picked := make([]string, 0, n)
	for i := 0; i < n; i++ {
		picked = append(picked, tagPool[s.rng.Intn(len(tagPool))])
	}
	return picked
}
