// Package broker announces persisted games so reporting consumers of the
// aggregation view know when fresh results landed. Publishing is fire and
// forget; the ingest pipeline never blocks on a consumer.
package broker

import (
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"

	"github.com/bezdurakov/quiz-service/internal/quizsvc/models"
)

const SubjectGameSaved = "quiz.game.saved"

type Broker struct {
	Conn *nats.Conn
}

func NewBroker(nc *nats.Conn) *Broker {
	return &Broker{Conn: nc}
}

// GameSavedEvent is the payload published after a successful save.
type GameSavedEvent struct {
	GameID   int64  `json:"game_id"`
	GameDate string `json:"game_date"` // YYYY-MM-DD
	Teams    int    `json:"teams"`
	SavedAt  int64  `json:"saved_at"` // unix seconds
}

// PublishGameSaved emits a game-saved event for a freshly stored game.
func (b *Broker) PublishGameSaved(gameID int64, game *models.GameData) error {
	ev := GameSavedEvent{
		GameID:   gameID,
		GameDate: game.Date.Format("2006-01-02"),
		Teams:    len(game.Teams),
		SavedAt:  time.Now().Unix(),
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if err := b.Conn.Publish(SubjectGameSaved, payload); err != nil {
		return err
	}
	log.Infof("published %s for game %d", SubjectGameSaved, gameID)
	return nil
}
