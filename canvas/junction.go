package canvas

// arms records which neighbours a cell's line strokes reach. Strokes meeting in one
// cell merge by OR-ing their arms, so crossings and tees fall out of the table lookup.
type arms uint8

const (
	armN arms = 1 << iota
	armE
	armS
	armW
)

// CharacterSet maps every combination of arms to the glyph drawn for it.
type CharacterSet [16]rune

// Unicode draws with box-drawing characters. Sets are indexed by arms: N=1 E=2 S=4 W=8.
var Unicode = CharacterSet{
	' ', '│', '─', '└', '│', '│', '┌', '├',
	'─', '┘', '─', '┴', '┐', '┤', '┬', '┼',
}

// ASCII draws with plain characters for terminals without box-drawing fonts.
var ASCII = CharacterSet{
	' ', '|', '-', '+', '|', '|', '+', '+',
	'-', '+', '-', '+', '+', '+', '+', '+',
}

// glyph returns the character for a cell with the given arms.
func (cs *CharacterSet) glyph(a arms) rune {
	return cs[a&0xf]
}
