package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"

	config "github.com/bezdurakov/quiz-service/configs"
	"github.com/bezdurakov/quiz-service/internal/nats"
	"github.com/bezdurakov/quiz-service/internal/quizsvc/broker"
	qconfig "github.com/bezdurakov/quiz-service/internal/quizsvc/config"
	"github.com/bezdurakov/quiz-service/internal/quizsvc/db"
	"github.com/bezdurakov/quiz-service/internal/quizsvc/parser"
	"github.com/bezdurakov/quiz-service/internal/quizsvc/service"
)

const SERVICE_NAME = "loadgames"

func init() {
	config.Logging(SERVICE_NAME)
	config.LoadEnv(SERVICE_NAME)
	config.CreateUniqueInstance(SERVICE_NAME)
}

func main() {
	noSave := flag.Bool("no-save", false, "parse only, do not save to the database")
	verbose := flag.Bool("v", false, "print parsed game data")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [-no-save] [-v] <directory>\n", os.Args[0])
		os.Exit(2)
	}
	dir := flag.Arg(0)

	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Fatalf("read directory %s: %v", dir, err)
	}

	var files []string
	for _, e := range entries {
		name := strings.ToLower(e.Name())
		if !e.IsDir() && (strings.HasSuffix(name, ".xlsm") || strings.HasSuffix(name, ".xlsx")) {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		log.Fatalf("no workbook files found in %s", dir)
	}
	log.Infof("found %d workbook file(s) in %s", len(files), dir)

	ctx := context.Background()

	var gameService *service.GameService
	var events *broker.Broker

	if !*noSave {
		cfg := qconfig.Load()

		pool, err := db.Connect(cfg.DBUrl)
		if err != nil {
			log.Fatalf("Failed to connect to DB: %v", err)
		}
		defer db.ClosePool()
		log.Info("pg connection established successfully")

		gameService = service.NewGameService(pool)

		if cfg.NatsUrl != "" {
			n, err := nats.Connect()
			if err != nil {
				log.Fatalf("unable to connect to NATS server %v", err)
			}
			defer n.Conn.Close()
			log.Infof("NATS connection established successfully %s", n.Url)
			events = broker.NewBroker(n.Conn)
		}
	}

	parsed, saved := 0, 0
	for _, path := range files {
		log.Infof("processing: %s", filepath.Base(path))

		game, err := parser.ParseFile(path)
		if err != nil {
			log.Errorf("parse %s: %v", filepath.Base(path), err)
			continue
		}
		parsed++

		if *verbose {
			fmt.Printf("game date: %s, teams: %d\n", game.Date.Format("02.01.2006"), len(game.Teams))
			for _, t := range game.Teams {
				fmt.Printf("  %s: %s points\n", t.Name, t.TotalPoints().StringFixed(2))
			}
		}

		if *noSave {
			continue
		}

		gameID, stored, err := gameService.SaveGame(ctx, game)
		if err != nil {
			log.Errorf("save %s: %v", filepath.Base(path), err)
			continue
		}
		if !stored {
			continue
		}
		saved++

		if events != nil {
			if err := events.PublishGameSaved(gameID, game); err != nil {
				log.Warnf("publish game-saved event for game %d: %v", gameID, err)
			}
		}
	}

	log.Infof("files processed: %d, parsed: %d, saved: %d", len(files), parsed, saved)
	if parsed < len(files) {
		log.Warnf("failed to parse: %d", len(files)-parsed)
	}
}
