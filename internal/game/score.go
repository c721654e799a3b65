// internal/game/score.go
//
// Tile coloring and board reconstruction.
//
// The board is never cached: Reconstruct replays Score over the stored
// guesses every time, so a reload draws exactly what the guess response did.

package game

import "strings"

// Score colors one guess against the answer. Both must be WordLen
// upper-case letters; positions outside A–Z come back absent.
func Score(p Policy, guess, answer string) [WordLen]Mark {
	if p == PolicyIndependent {
		return scoreIndependent(guess, answer)
	}
	return scoreStandard(guess, answer)
}

// scoreStandard is the two-pass Wordle algorithm.
//
// Pass 1: mark exact matches and count the answer letters left unmatched.
// Pass 2: left to right, a non-matching guess letter is present only while
// unmatched copies of it remain in the pool.
func scoreStandard(guess, answer string) [WordLen]Mark {
	var res [WordLen]Mark
	var counts [26]int

	for i := 0; i < WordLen; i++ {
		if guess[i] == answer[i] {
			res[i] = MarkCorrect
		} else if j := idx(answer[i]); j >= 0 {
			counts[j]++
		}
	}
	for i := 0; i < WordLen; i++ {
		if res[i] == MarkCorrect {
			continue
		}
		if j := idx(guess[i]); j >= 0 && counts[j] > 0 {
			res[i] = MarkPresent
			counts[j]--
		} else {
			res[i] = MarkAbsent
		}
	}
	return res
}

// scoreIndependent checks each position on its own, with no letter pool.
func scoreIndependent(guess, answer string) [WordLen]Mark {
	var res [WordLen]Mark
	for i := 0; i < WordLen; i++ {
		switch {
		case guess[i] == answer[i]:
			res[i] = MarkCorrect
		case strings.IndexByte(answer, guess[i]) >= 0:
			res[i] = MarkPresent
		default:
			res[i] = MarkAbsent
		}
	}
	return res
}

// Reconstruct rebuilds the board from a game record without touching it.
func Reconstruct(g *Game) Grid {
	grid := EmptyGrid()
	for r, guess := range g.Played() {
		if len(guess) != WordLen || len(g.Answer) != WordLen {
			continue
		}
		marks := Score(g.Policy, guess, g.Answer)
		row := grid.Row(r)
		for i := 0; i < WordLen; i++ {
			row[i] = Tile{Letter: guess[i : i+1], Mark: marks[i]}
		}
	}
	return grid
}

// idx maps an upper-case ASCII letter to 0..25, anything else to -1.
func idx(b byte) int {
	if b < 'A' || b > 'Z' {
		return -1
	}
	return int(b - 'A')
}
