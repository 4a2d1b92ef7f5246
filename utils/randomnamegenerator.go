package utils

import (
	"math/rand"

	"github.com/Pallinder/go-randomdata"
)

// RandomNameGenerator hands out unique, reproducible names for unnamed
// bones. The zero value is ready to use.
type RandomNameGenerator struct {
	used map[string]struct{}
	rnd  *rand.Rand
}

func (rng *RandomNameGenerator) RandomName() string {
	if rng.used == nil {
		rng.used = make(map[string]struct{})
		rng.rnd = rand.New(rand.NewSource(0))
	}
	// randomdata keeps a package level source, reseed it for every name
	// so output only depends on this generator
	randomdata.CustomRand(rand.New(rand.NewSource(rng.rnd.Int63())))
	for {
		name := "bone_" + randomdata.SillyName()
		if _, exists := rng.used[name]; !exists {
			rng.used[name] = struct{}{}
			return name
		}
	}
}
