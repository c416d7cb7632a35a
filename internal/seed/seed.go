// Package seed creates demo data for development. Everything goes through
// the engines rather than raw inserts so adjacency lists, edge records and
// settings stay consistent with each other.
package seed

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"weave/internal/database"
	"weave/internal/models"
	"weave/internal/repository"
	"weave/internal/service"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Options controls how much data the seeder creates.
type Options struct {
	NumUsers int
	NumOrgs  int
	NumPosts int
	Clean    bool
}

// Seeder populates the database through the service layer.
type Seeder struct {
	db       *gorm.DB
	users    *service.UserService
	orgs     *service.OrganizationService
	likes    *service.LikeService
	requests *service.RequestService
	blocks   *service.BlockService
	members  *service.MemberService
	posts    *service.PostService
	comments *service.CommentService
	rng      *rand.Rand
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())

	userRepo := repository.NewUserRepository(db)
	orgRepo := repository.NewOrganizationRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	cascade := service.NewCascadeService(db)
	settingsSvc := service.NewSettingsService(settingsRepo, orgRepo)
	blockSvc := service.NewBlockService(db, repository.NewBlockRepository(db), settingsRepo, userRepo)

	return &Seeder{
		db:       db,
		users:    service.NewUserService(db, userRepo, cascade),
		orgs:     service.NewOrganizationService(db, orgRepo),
		likes:    service.NewLikeService(db, repository.NewLikeRepository(db), userRepo),
		requests: service.NewRequestService(db, repository.NewRequestRepository(db), userRepo, orgRepo, settingsSvc, blockSvc),
		blocks:   blockSvc,
		members:  service.NewMemberService(db, repository.NewMemberRepository(db), userRepo, orgRepo),
		posts:    service.NewPostService(db, repository.NewPostRepository(db), userRepo, cascade),
		comments: service.NewCommentService(db, repository.NewCommentRepository(db), repository.NewPostRepository(db), userRepo, cascade),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ClearAll truncates every table the seeder writes to.
func (s *Seeder) ClearAll() error {
	log.Println("Clearing existing data...")
	for _, model := range database.Models() {
		if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(model).Error; err != nil {
			return fmt.Errorf("clearing %T: %w", model, err)
		}
	}
	return nil
}

// Seed fills the database per the options.
func (s *Seeder) Seed(ctx context.Context, opts Options) error {
	if opts.Clean {
		if err := s.ClearAll(); err != nil {
			return err
		}
	}

	users, err := s.seedUsers(ctx, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("seeding users: %w", err)
	}
	log.Printf("created %d users", len(users))

	orgs, err := s.seedOrganizations(ctx, opts.NumOrgs)
	if err != nil {
		return fmt.Errorf("seeding organizations: %w", err)
	}
	log.Printf("created %d organizations", len(orgs))

	if err := s.seedRelationships(ctx, users, orgs); err != nil {
		return fmt.Errorf("seeding relationships: %w", err)
	}

	posts, err := s.seedPosts(ctx, users, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("seeding posts: %w", err)
	}
	log.Printf("created %d posts", len(posts))

	if err := s.seedEngagement(ctx, users, posts); err != nil {
		return fmt.Errorf("seeding engagement: %w", err)
	}

	log.Println("seeding complete")
	return nil
}

func (s *Seeder) seedUsers(ctx context.Context, n int) ([]*models.User, error) {
	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		username := fmt.Sprintf("%s%d", strings.ToLower(gofakeit.Username()), i)
		email := fmt.Sprintf("%d.%s", i, gofakeit.Email())
		user, err := s.users.CreateUser(ctx, username, email, gofakeit.Quote())
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func (s *Seeder) seedOrganizations(ctx context.Context, n int) ([]*models.Organization, error) {
	orgs := make([]*models.Organization, 0, n)
	kinds := []models.OrganizationKind{models.OrganizationKindTeam, models.OrganizationKindBusiness}
	for i := 0; i < n; i++ {
		org, err := s.orgs.CreateOrganization(ctx, gofakeit.Company(), kinds[i%len(kinds)], s.rng.Intn(10) > 0)
		if err != nil {
			return nil, err
		}
		orgs = append(orgs, org)
	}
	return orgs, nil
}

// seedRelationships wires a loose social mesh: follows between users and
// toward pages, some friendships, a few blocks, and org memberships.
// Conflict and PermissionDenied results are expected on random pairs and
// skipped.
func (s *Seeder) seedRelationships(ctx context.Context, users []*models.User, orgs []*models.Organization) error {
	if len(users) < 2 {
		return nil
	}

	follows, friends, blocks := 0, 0, 0
	for _, u := range users {
		for i := 0; i < s.rng.Intn(4); i++ {
			target := users[s.rng.Intn(len(users))]
			if target.ID == u.ID {
				continue
			}
			if _, err := s.requests.SendRequest(ctx, u.ID, target.ID, models.EntityTypeUser, models.RequestTypeFollow); err == nil {
				follows++
			}
		}
		for _, org := range orgs {
			if s.rng.Intn(3) != 0 {
				continue
			}
			entityType := models.EntityTypeTeam
			if org.Kind == models.OrganizationKindBusiness {
				entityType = models.EntityTypeBusiness
			}
			if _, err := s.requests.SendRequest(ctx, u.ID, org.ID, entityType, models.RequestTypeFollow); err == nil {
				follows++
			}
			if s.rng.Intn(4) == 0 {
				if _, err := s.members.AddMember(ctx, u.ID, org.ID, org.Kind, models.MemberRoleMember); err == nil {
					continue
				}
			}
		}
	}

	for i := 0; i+1 < len(users); i += 2 {
		req, err := s.requests.SendRequest(ctx, users[i].ID, users[i+1].ID, models.EntityTypeUser, models.RequestTypeFriend)
		if err != nil {
			continue
		}
		if _, err := s.requests.UpdateRequestStatus(ctx, req.ID, models.RequestStatusAccepted); err == nil {
			friends++
		}
	}

	for i := 0; i < len(users)/10; i++ {
		a := users[s.rng.Intn(len(users))]
		b := users[s.rng.Intn(len(users))]
		if a.ID == b.ID {
			continue
		}
		if _, err := s.blocks.BlockUser(ctx, a.ID, b.ID); err == nil {
			blocks++
		}
	}

	log.Printf("created %d follows, %d friendships, %d blocks", follows, friends, blocks)
	return nil
}

func (s *Seeder) seedPosts(ctx context.Context, users []*models.User, n int) ([]*models.Post, error) {
	posts := make([]*models.Post, 0, n)
	for i := 0; i < n; i++ {
		author := users[s.rng.Intn(len(users))]
		post, err := s.posts.CreatePost(ctx, author.ID, gofakeit.Sentence(5), gofakeit.Paragraph(1, 3, 5, "\n"))
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func (s *Seeder) seedEngagement(ctx context.Context, users []*models.User, posts []*models.Post) error {
	likes, comments := 0, 0
	for _, post := range posts {
		for i := 0; i < s.rng.Intn(5); i++ {
			u := users[s.rng.Intn(len(users))]
			if _, err := s.likes.CreateLike(ctx, u.ID, post.ID, models.LikeKindPost); err == nil {
				likes++
			}
		}
		var parent *models.Comment
		for i := 0; i < s.rng.Intn(3); i++ {
			u := users[s.rng.Intn(len(users))]
			var parentID *uint
			if parent != nil && s.rng.Intn(2) == 0 {
				parentID = &parent.ID
			}
			comment, err := s.comments.CreateComment(ctx, u.ID, post.ID, parentID, gofakeit.Sentence(8))
			if err != nil {
				continue
			}
			comments++
			if parentID == nil {
				parent = comment
			}
			if s.rng.Intn(2) == 0 {
				kind := models.LikeKindComment
				if comment.IsReply() {
					kind = models.LikeKindReply
				}
				liker := users[s.rng.Intn(len(users))]
				if _, err := s.likes.CreateLike(ctx, liker.ID, comment.ID, kind); err == nil {
					likes++
				}
			}
		}
	}
	log.Printf("created %d likes, %d comments", likes, comments)
	return nil
}
