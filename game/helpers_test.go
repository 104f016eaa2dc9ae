package game

import (
	"fmt"
	"math/rand"
)

const sampleDecklist = `4 Pikachu ex SVI 57
3 Raichu PAL 63
2 Mew ex MEW 151
4 Ultra Ball SVI 196
4 Nest Ball SVI 181
4 Iono PAL 185
3 Boss's Orders PAL 172
4 Arven SVI 166
2 Super Rod PAL 188
2 Switch SVI 194
4 Rare Candy SVI 191
24 Basic Lightning Energy SVE 4
`

// distinctDeck returns 60 different card names.
func distinctDeck() []string {
	deck := make([]string, DeckSize)
	for i := range deck {
		deck[i] = fmt.Sprintf("Card %c%c", 'A'+i/26, 'A'+i%26)
	}
	return deck
}

// fifteenByFour returns a deck of 15 names, four copies each.
func fifteenByFour() []string {
	deck := make([]string, 0, DeckSize)
	for i := 0; i < 15; i++ {
		for n := 0; n < 4; n++ {
			deck = append(deck, fmt.Sprintf("Card %c", 'A'+i))
		}
	}
	return deck
}

func seeded(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
