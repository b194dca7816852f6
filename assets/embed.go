// Package assets embeds the default game data so the server runs out of
// the box. A deployment can point catalog_path/rotation_path at external
// files to override it.
package assets

import "embed"

//go:embed players.json puzzles.json
var fs embed.FS

func PlayersJSON() ([]byte, error) {
	return fs.ReadFile("players.json")
}

func PuzzlesJSON() ([]byte, error) {
	return fs.ReadFile("puzzles.json")
}
