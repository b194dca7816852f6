package assets_test

import (
	"testing"

	"github.com/afdhfjfkcm/spotle-football-bot/assets"
	"github.com/afdhfjfkcm/spotle-football-bot/internal/catalog"
	"github.com/afdhfjfkcm/spotle-football-bot/internal/daily"
)

func TestEmbeddedDataIsConsistent(t *testing.T) {
	rawPlayers, err := assets.PlayersJSON()
	if err != nil {
		t.Fatalf("players: %v", err)
	}
	cat, err := catalog.Parse(rawPlayers)
	if err != nil {
		t.Fatalf("parse players: %v", err)
	}
	if cat.Len() == 0 {
		t.Fatal("empty default catalog")
	}

	rawPuzzles, err := assets.PuzzlesJSON()
	if err != nil {
		t.Fatalf("puzzles: %v", err)
	}
	rot, err := daily.Parse(rawPuzzles, cat)
	if err != nil {
		t.Fatalf("parse puzzles: %v", err)
	}
	if rot.Len() != cat.Len() {
		t.Errorf("rotation covers %d of %d players", rot.Len(), cat.Len())
	}
}
