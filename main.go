package main

import (
	"log"
	"time"

	"github.com/aaomarel/billiards-club/config"
	_ "github.com/aaomarel/billiards-club/docs"
	"github.com/aaomarel/billiards-club/internal/match"
	"github.com/aaomarel/billiards-club/internal/user"
	"github.com/aaomarel/billiards-club/pkg/booking"
	"github.com/aaomarel/billiards-club/pkg/elo"
	"github.com/aaomarel/billiards-club/routes"
)

// sweepInterval is how often past open or filled matches get cancelled.
const sweepInterval = time.Hour

// @title Billiards Club API
// @version 1.0
// @description Club management server for scheduling billiards matches, tracking ratings and administering member roles.
// @host localhost:8088
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := config.Initialize(); err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	cfg := config.GetConfig()

	err := config.DB.AutoMigrate(
		&user.User{}, &user.RefreshToken{},
		&match.Match{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}
	log.Println("AutoMigrate successful")

	go runExpiredMatchSweeper(cfg)

	r := routes.SetupRoutes(config.DB, cfg)

	log.Printf("Starting server on port %s in %s mode\n", cfg.App.Port, cfg.App.Env)
	if err := r.Run(":" + cfg.App.Port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}

// runExpiredMatchSweeper cancels matches whose start time has passed without a
// result, once at startup and then on a fixed interval.
func runExpiredMatchSweeper(cfg *config.Config) {
	repo := match.NewMatchRepository(
		config.DB,
		booking.NewValidator(cfg.Club.BookingBufferMinutes),
		elo.NewEngine(elo.Config{KFactor: cfg.Club.EloKFactor, ProvisionalGames: cfg.Club.EloProvisionalGames}),
	)

	sweep := func() {
		n, err := repo.CancelExpired(time.Now())
		if err != nil {
			log.Printf("Expired match sweep failed: %v", err)
			return
		}
		if n > 0 {
			log.Printf("Cancelled %d expired matches", n)
		}
	}

	sweep()
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for range ticker.C {
		sweep()
	}
}
