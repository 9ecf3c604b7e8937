package selfplay

import (
	"fmt"
	"strings"

	"github.com/brensch/overdrive/game"
)

// RenderWindow draws lanes minX..maxX of s as text, one line per lane. Self
// is drawn as 1, the opponent as 2, and a shared cell as *.
func RenderWindow(s game.State, minX, maxX int) string {
	minX = max(minX, 1)
	maxX = min(maxX, s.View.Length())

	var sb strings.Builder
	fmt.Fprintf(&sb, "x %d..%d\nself %+v\nopp  %+v\n", minX, maxX, s.Self, s.Opp)
	for lane := 1; lane <= s.View.Lanes(); lane++ {
		fmt.Fprintf(&sb, "%d ", lane)
		for x := minX; x <= maxX; x++ {
			p := game.Pos{X: x, Lane: lane}
			self, opp := s.Self.Pos() == p, s.Opp.Pos() == p
			switch {
			case self && opp:
				sb.WriteByte('*')
			case self:
				sb.WriteByte('1')
			case opp:
				sb.WriteByte('2')
			default:
				sb.WriteByte(s.View.At(p).Effective().Glyph())
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
