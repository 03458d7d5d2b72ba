package main

import (
	"context"
	"flag"
	"os"

	"github.com/joho/godotenv"

	"github.com/courseforge/courseforge/internal/cache"
	"github.com/courseforge/courseforge/internal/config"
	"github.com/courseforge/courseforge/internal/email"
	"github.com/courseforge/courseforge/internal/logger"
	"github.com/courseforge/courseforge/internal/postgres"
	pgrepo "github.com/courseforge/courseforge/internal/repository/postgres"
	"github.com/courseforge/courseforge/internal/service"
	scripts "github.com/courseforge/courseforge/scripts/internal"
)

// Manual script runner. Usage:
//
//	go run ./scripts/manual -script=import-learners -org=org_xxx -file=learners.csv
func main() {
	_ = godotenv.Load()

	script := flag.String("script", "", "script to run")
	orgID := flag.String("org", "", "organization id")
	file := flag.String("file", "", "input file path")
	flag.Parse()

	cfg, err := config.NewConfig()
	if err != nil {
		panic(err)
	}
	log, err := logger.NewLogger(cfg)
	if err != nil {
		panic(err)
	}

	db, err := postgres.NewDB(cfg, log)
	if err != nil {
		log.Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	params := service.ServiceParams{
		Logger:     log,
		Config:     cfg,
		Cache:      cache.NewInMemoryCache(),
		OrgRepo:    pgrepo.NewOrganizationRepository(db, log),
		PlanRepo:   pgrepo.NewPlanRepository(db, log),
		SubRepo:    pgrepo.NewSubscriptionRepository(db, log),
		PromoRepo:  pgrepo.NewPromoCodeRepository(db, log),
		UserRepo:   pgrepo.NewUserRepository(db, log),
		CourseRepo: pgrepo.NewCourseRepository(db, log),
		Email:      email.NewSender(cfg, log),
	}

	ctx := context.Background()

	switch *script {
	case "import-learners":
		if *orgID == "" || *file == "" {
			log.Fatalw("import-learners requires -org and -file")
		}
		roster := service.NewRosterService(params)
		if _, err := scripts.ImportLearners(ctx, roster, *orgID, *file, log); err != nil {
			log.Errorw("import failed", "error", err)
			os.Exit(1)
		}
	default:
		log.Fatalw("unknown script", "script", *script)
	}
}
