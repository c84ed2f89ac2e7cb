// Package avatar assigns display-image references to new accounts.
package avatar

import (
	"fmt"
	"math/rand"
	"time"
)

const spriteURLFormat = "https://img.pokemondb.net/sprites/sword-shield/icon/%s.png"

// sprites is the pool of icons a new account can be assigned.
var sprites = []string{
	"bulbasaur", "charmander", "squirtle", "pikachu", "eevee",
	"jigglypuff", "meowth", "psyduck", "machop", "gengar",
	"onix", "cubone", "magikarp", "lapras", "ditto",
	"snorlax", "dratini", "mew", "chikorita", "cyndaquil",
	"totodile", "togepi", "mareep", "espeon", "umbreon",
	"wobbuffet", "scizor", "heracross", "sneasel", "teddiursa",
}

// Picker selects an avatar reference for a new account. It is injected into
// the signup path so tests can substitute a deterministic implementation.
type Picker func() string

// NewPicker returns a Picker backed by the given entropy source. A nil source
// gets a time-seeded one.
func NewPicker(r *rand.Rand) Picker {
	if r == nil {
		r = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return func() string {
		return SpriteURL(sprites[r.Intn(len(sprites))])
	}
}

// SpriteURL builds the image reference for a sprite name.
func SpriteURL(name string) string {
	return fmt.Sprintf(spriteURLFormat, name)
}
