// Seeds the development database with the sample users and posts used
// throughout manual testing. Destructive only in the sense that rerunning
// it fails on the duplicate usernames; it never deletes anything.
//
// Usage: go run ./scripts
package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	database "github.com/FACorreiaa/go-juicebox-api/app/db"
	"github.com/FACorreiaa/go-juicebox-api/config"
	"github.com/FACorreiaa/go-juicebox-api/internal/api/post"
	"github.com/FACorreiaa/go-juicebox-api/internal/api/user"
	"github.com/FACorreiaa/go-juicebox-api/internal/types"
)

type seedUser struct {
	username, password, name, location string
	post                               types.CreatePostParams
}

var seedUsers = []seedUser{
	{
		username: "albert", password: "bertie99",
		name: "Al Bert", location: "Sidney, Australia",
		post: types.CreatePostParams{
			Title:   "First Post",
			Content: "This is my first post. I hope I love writing blogs as much as I love writing them.",
			Tags:    []string{"#happy", "#youcandoanything"},
		},
	},
	{
		username: "sandra", password: "2sandy4me",
		name: "Just Sandra", location: "Ain't tellin'",
		post: types.CreatePostParams{
			Title:   "How does this work?",
			Content: "Seriously, does this even do anything?",
			Tags:    []string{"#happy", "#worst-day-ever"},
		},
	},
	{
		username: "glamgal", password: "soglam",
		name: "Joshua", location: "Upper East Side",
		post: types.CreatePostParams{
			Title:   "Living the Glam Life",
			Content: "Do you even? I swear that half of you are posing.",
			Tags:    []string{"#happy", "#youcandoanything", "#canmandoeverything"},
		},
	},
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found or error loading:", err)
	}

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("FATAL: Error initializing config: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	ctx := context.Background()

	dbConfig, err := database.NewDatabaseConfig(&cfg, logger)
	if err != nil {
		log.Fatalf("FATAL: %v", err)
	}
	if err := database.RunMigrations(dbConfig.ConnectionURL, logger); err != nil {
		log.Fatalf("FATAL: %v", err)
	}
	pool, err := database.Init(dbConfig.ConnectionURL, logger)
	if err != nil {
		log.Fatalf("FATAL: %v", err)
	}
	defer pool.Close()

	userRepo := user.NewPostgresUserRepo(pool, logger)
	postRepo := post.NewPostgresPostRepo(pool, logger)

	for _, s := range seedUsers {
		hashed, err := bcrypt.GenerateFromPassword([]byte(s.password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("FATAL: hashing password for %s: %v", s.username, err)
		}

		u, err := userRepo.CreateUser(ctx, types.CreateUserParams{
			Username: s.username,
			Password: string(hashed),
			Name:     s.name,
			Location: s.location,
		})
		if err != nil {
			log.Fatalf("FATAL: seeding user %s: %v", s.username, err)
		}

		p, err := postRepo.CreatePost(ctx, u.ID, s.post)
		if err != nil {
			log.Fatalf("FATAL: seeding post for %s: %v", s.username, err)
		}
		logger.Info("Seeded user with post",
			slog.String("username", u.Username),
			slog.String("postID", p.ID.String()),
			slog.Int("tags", len(p.Tags)))
	}

	logger.Info("Seed complete")
}
