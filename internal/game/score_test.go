package game

import (
	"strings"
	"testing"
)

func marks(s string) [WordLen]Mark {
	var out [WordLen]Mark
	for i, c := range s {
		switch c {
		case 'C':
			out[i] = MarkCorrect
		case 'P':
			out[i] = MarkPresent
		case 'A':
			out[i] = MarkAbsent
		}
	}
	return out
}

func TestScore(t *testing.T) {
	tests := []struct {
		name        string
		guess       string
		answer      string
		standard    string
		independent string
	}{
		{"trace vs crane", "TRACE", "CRANE", "ACCPC", "ACCPC"},
		{"exact", "CRANE", "CRANE", "CCCCC", "CCCCC"},
		{"nothing", "GHOST", "CRANE", "AAAAA", "AAAAA"},
		{"repeated guess letter, single in answer", "EERIE", "CRANE", "AAPAC", "PPPAC"},
		{"repeated in both", "ALLOW", "LOYAL", "PPPPA", "PPPPA"},
		{"second copy absent once the pool is spent", "SPEED", "ABIDE", "AAPAP", "AAPPP"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(PolicyStandard, tt.guess, tt.answer); got != marks(tt.standard) {
				t.Errorf("standard Score(%s, %s) = %v, want %v", tt.guess, tt.answer, got, marks(tt.standard))
			}
			if got := Score(PolicyIndependent, tt.guess, tt.answer); got != marks(tt.independent) {
				t.Errorf("independent Score(%s, %s) = %v, want %v", tt.guess, tt.answer, got, marks(tt.independent))
			}
		})
	}
}

// With no repeated letters in the guess both policies agree: correct exactly
// where the letters line up, present exactly where the letter appears
// elsewhere in the answer.
func TestScoreDistinctLetters(t *testing.T) {
	pool := []string{"CRANE", "TRACE", "SLATE", "BRAIN", "STORM", "PLANT", "GHOST", "WORLD", "FIGHT", "NOVEL"}
	for _, guess := range pool {
		for _, answer := range pool {
			for _, p := range []Policy{PolicyStandard, PolicyIndependent} {
				got := Score(p, guess, answer)
				for i := 0; i < WordLen; i++ {
					var want Mark
					switch {
					case guess[i] == answer[i]:
						want = MarkCorrect
					case strings.IndexByte(answer, guess[i]) >= 0:
						want = MarkPresent
					default:
						want = MarkAbsent
					}
					if got[i] != want {
						t.Errorf("%s Score(%s, %s)[%d] = %s, want %s", p, guess, answer, i, got[i], want)
					}
				}
			}
		}
	}
}

func TestReconstruct(t *testing.T) {
	g := &Game{
		Answer:  "CRANE",
		Guesses: [MaxRounds]string{"TRACE", "CRANE"},
		Round:   2,
		State:   StateWon,
		Policy:  PolicyStandard,
	}
	grid := Reconstruct(g)

	row := grid.Row(0)
	want := marks("ACCPC")
	for i, tile := range row {
		if tile.Letter != string("TRACE"[i]) || tile.Mark != want[i] {
			t.Errorf("row 1 tile %d = %+v", i, tile)
		}
	}
	for _, tile := range grid.Row(1) {
		if tile.Mark != MarkCorrect {
			t.Errorf("row 2 tile = %+v, want correct", tile)
		}
	}
	for i := 2 * WordLen; i < GridSize; i++ {
		if grid[i] != (Tile{Mark: MarkEmpty}) {
			t.Errorf("tile %d = %+v, want empty", i, grid[i])
		}
	}
	if again := Reconstruct(g); again != grid {
		t.Error("Reconstruct is not idempotent")
	}
}

func TestReconstructUsesRecordedPolicy(t *testing.T) {
	g := &Game{Answer: "CRANE", Guesses: [MaxRounds]string{"EERIE"}, Round: 1, Policy: PolicyIndependent}
	grid := Reconstruct(g)
	if got := grid.Row(0)[0].Mark; got != MarkPresent {
		t.Errorf("independent first E = %s, want present", got)
	}
	g.Policy = PolicyStandard
	grid = Reconstruct(g)
	if got := grid.Row(0)[0].Mark; got != MarkAbsent {
		t.Errorf("standard first E = %s, want absent", got)
	}
}

func TestParsePolicy(t *testing.T) {
	tests := map[string]Policy{"": PolicyStandard, "standard": PolicyStandard, "independent": PolicyIndependent}
	for in, want := range tests {
		got, err := ParsePolicy(in)
		if err != nil || got != want {
			t.Errorf("ParsePolicy(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParsePolicy("fuzzy"); err == nil {
		t.Error("ParsePolicy(fuzzy) should fail")
	}
}

func TestStateTerminal(t *testing.T) {
	if StatePlaying.Terminal() {
		t.Error("playing should not be terminal")
	}
	if !StateWon.Terminal() || !StateLost.Terminal() {
		t.Error("won and lost should be terminal")
	}
}
