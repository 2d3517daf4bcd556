package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"

	"adterminal/internal/database"
	"adterminal/internal/domain/ad"
	"adterminal/internal/logging"
)

type demoAd struct {
	title       string
	description string
	cta         string
	category    string
	image       string
	days        int
	active      bool
	age         time.Duration
}

// Demo catalogue. Ages and timeframes are picked so the public feed shows a
// mix of visible, expired and inactive campaigns.
var demoAds = []demoAd{
	{"Spring collection", "New season arrivals, free shipping this week", "https://shop.example.com/spring", "retail", "/uploads/demo-spring.png", 30, true, 2 * 24 * time.Hour},
	{"Weekend brunch", "Two for one on brunch menus every Saturday", "https://food.example.com/brunch", "food", "", 14, true, 10 * 24 * time.Hour},
	{"City marathon", "Registration closes soon", "/events/marathon", "events", "https://images.example.com/marathon.jpg", 7, true, 8 * 24 * time.Hour},
	{"Winter sale", "Last season's stock at half price", "https://shop.example.com/winter", "retail", "", 30, false, 5 * 24 * time.Hour},
	{"Same-day pickup", "Order online, collect in store", "/pickup", "retail", "", 0, true, 3 * time.Hour},
}

func main() {
	_ = godotenv.Load()

	reset := flag.Bool("reset", false, "delete existing ads before seeding")
	flag.Parse()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "ads.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		logging.Fatal().Err(err).Msg("db connection failed")
	}

	logging.Info().Msg("running AutoMigrate")
	if err := db.AutoMigrate(&ad.Ad{}); err != nil {
		logging.Fatal().Err(err).Msg("AutoMigrate failed")
	}

	if *reset {
		logging.Info().Msg("cleaning old ads")
		if err := db.Exec("DELETE FROM ads").Error; err != nil {
			logging.Fatal().Err(err).Msg("cleanup failed")
		}
	}

	repo := ad.NewRepository(db)
	ctx := context.Background()
	now := time.Now().UTC()

	visible := 0
	for _, d := range demoAds {
		a := &ad.Ad{
			Title:         d.title,
			Description:   d.description,
			CTAURL:        d.cta,
			Category:      d.category,
			TimeframeDays: d.days,
			IsActive:      ad.NewActiveFlag(d.active),
			CreatedAt:     ad.NewTimestamp(now.Add(-d.age)),
		}
		if d.image != "" {
			img := d.image
			a.ImageURL = &img
		}
		if err := repo.Create(ctx, a); err != nil {
			logging.Fatal().Err(err).Str("title", d.title).Msg("insert failed")
		}
		if ad.IsCurrentlyVisible(a, now) {
			visible++
		}
	}

	logging.Info().Int("ads", len(demoAds)).Int("visible", visible).Msg("seed completed")
}
