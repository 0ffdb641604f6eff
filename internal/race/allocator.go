// Package race holds the name-race game logic: partitioning the alphabet
// across players and scoring completed runs.
package race

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
)

const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// MaxPlayers is bounded by the alphabet: beyond 26 players some letter sets
// would be empty.
const MaxPlayers = len(Alphabet)

var (
	ErrTooFewPlayers  = errors.New("race: need at least one player")
	ErrTooManyPlayers = fmt.Errorf("race: at most %d players", MaxPlayers)
)

// Allocation is one player's share of the shuffled alphabet plus the 4-digit
// access code handed to that player.
type Allocation struct {
	Code    string
	Letters []string
}

// Assign shuffles the alphabet uniformly and partitions it into n contiguous
// runs of floor(26/n) letters each. Trailing remainder letters are not
// distributed; with n=5 only 25 letters are handed out. Codes are distinct
// within the batch but carry no global uniqueness guarantee.
func Assign(n int) ([]Allocation, error) {
	if n < 1 {
		return nil, ErrTooFewPlayers
	}
	if n > MaxPlayers {
		return nil, ErrTooManyPlayers
	}

	letters := strings.Split(Alphabet, "")
	rand.Shuffle(len(letters), func(i, j int) {
		letters[i], letters[j] = letters[j], letters[i]
	})

	perPlayer := len(letters) / n

	allocations := make([]Allocation, 0, n)
	codes := make(map[string]struct{}, n)

	for i := 0; i < n; i++ {
		code := generateCode()
		for {
			if _, taken := codes[code]; !taken {
				break
			}
			code = generateCode()
		}
		codes[code] = struct{}{}

		run := letters[i*perPlayer : (i+1)*perPlayer]
		allocations = append(allocations, Allocation{
			Code:    code,
			Letters: append([]string(nil), run...),
		})
	}

	return allocations, nil
}

// generateCode returns a random 4-digit numeric string in [1000, 9999].
func generateCode() string {
	return fmt.Sprintf("%d", 1000+rand.IntN(9000))
}
