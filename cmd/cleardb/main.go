package main

import (
	"context"
	"flag"

	log "github.com/sirupsen/logrus"

	config "github.com/bezdurakov/quiz-service/configs"
	qconfig "github.com/bezdurakov/quiz-service/internal/quizsvc/config"
	"github.com/bezdurakov/quiz-service/internal/quizsvc/db"
	"github.com/bezdurakov/quiz-service/internal/quizsvc/service"
)

const SERVICE_NAME = "cleardb"

func init() {
	config.Logging(SERVICE_NAME)
	config.LoadEnv(SERVICE_NAME)
}

func main() {
	teams := flag.Bool("t", false, "also clear the teams table after removing all games")
	flag.Parse()

	cfg := qconfig.Load()

	pool, err := db.Connect(cfg.DBUrl)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer db.ClosePool()

	ctx := context.Background()
	gameService := service.NewGameService(pool)

	removed, failed, err := gameService.ClearGames(ctx)
	if err != nil {
		log.Fatalf("clear games: %v", err)
	}
	if removed == 0 && failed == 0 {
		log.Info("game database already empty")
	} else {
		log.Infof("games removed: %d", removed)
		if failed > 0 {
			log.Warnf("games that failed to remove: %d", failed)
		}
	}

	if *teams {
		n, err := gameService.ClearTeams(ctx)
		if err != nil {
			log.Fatalf("clear teams: %v", err)
		}
		log.Infof("teams removed: %d", n)
	}

	log.Info("done")
}
