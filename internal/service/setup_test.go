package service

import (
	"testing"

	"weave/internal/cache"
	"weave/internal/database"
	"weave/internal/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// testEnv wires every service over a shared in-memory store, the same
// graph the server assembles in production.
type testEnv struct {
	db *gorm.DB

	users    repository.UserRepository
	orgs     repository.OrganizationRepository
	requests repository.RequestRepository
	likes    repository.LikeRepository
	blocks   repository.BlockRepository
	members  repository.MemberRepository
	settings repository.SettingsRepository
	posts    repository.PostRepository
	comments repository.CommentRepository

	userService     *UserService
	orgService      *OrganizationService
	settingsService *SettingsService
	requestService  *RequestService
	likeService     *LikeService
	blockService    *BlockService
	memberService   *MemberService
	postService     *PostService
	commentService  *CommentService
	cascade         *CascadeService
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.AutoMigrate(database.Models()...); err != nil {
		t.Fatalf("Failed to migrate database: %v", err)
	}

	mr := miniredis.RunT(t)
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { cache.SetClient(nil) })

	env := &testEnv{
		db:       db,
		users:    repository.NewUserRepository(db),
		orgs:     repository.NewOrganizationRepository(db),
		requests: repository.NewRequestRepository(db),
		likes:    repository.NewLikeRepository(db),
		blocks:   repository.NewBlockRepository(db),
		members:  repository.NewMemberRepository(db),
		settings: repository.NewSettingsRepository(db),
		posts:    repository.NewPostRepository(db),
		comments: repository.NewCommentRepository(db),
	}

	env.cascade = NewCascadeService(db)
	env.userService = NewUserService(db, env.users, env.cascade)
	env.orgService = NewOrganizationService(db, env.orgs)
	env.settingsService = NewSettingsService(env.settings, env.orgs)
	env.blockService = NewBlockService(db, env.blocks, env.settings, env.users)
	env.requestService = NewRequestService(db, env.requests, env.users, env.orgs, env.settingsService, env.blockService)
	env.likeService = NewLikeService(db, env.likes, env.users)
	env.memberService = NewMemberService(db, env.members, env.users, env.orgs)
	env.postService = NewPostService(db, env.posts, env.users, env.cascade)
	env.commentService = NewCommentService(db, env.comments, env.posts, env.users, env.cascade)
	return env
}
