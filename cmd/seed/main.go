package main

import (
	"flag"
	"os"

	"fizikblog/internal/config"
	"fizikblog/internal/database"
	"fizikblog/internal/middleware"
	"fizikblog/internal/seed"
)

func main() {
	opts := seed.DefaultOptions()
	flag.IntVar(&opts.Users, "users", opts.Users, "number of users to create")
	flag.IntVar(&opts.Posts, "posts", opts.Posts, "number of posts to create")
	flag.IntVar(&opts.CommentsPerPost, "comments", opts.CommentsPerPost, "comments per post")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		middleware.Logger.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		middleware.Logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close(db)

	if err := seed.Run(db, opts); err != nil {
		middleware.Logger.Error("Seeding failed", "error", err)
		os.Exit(1)
	}
	middleware.Logger.Info("Seeding complete",
		"users", opts.Users, "posts", opts.Posts, "comments_per_post", opts.CommentsPerPost)
}
