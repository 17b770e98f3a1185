package textentry

// Charset is the ordered list of characters the user scrolls through.
type Charset []rune

var (
	// Basic is letters, digits and a little punctuation.
	Basic = Charset("ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789 .,-_()")
	// Extended is Basic followed by most of the symbols on a US keyboard.
	Extended = Charset(string(Basic) + "@#%&*-+!\"':;/?~`|{}$^=[]\\<>")
)

// Index of the first lower case letter.
const lowerStart = 26

func (c Charset) Len() int {
	return len(c)
}

func (c Charset) IsSpace(i int) bool {
	return i >= 0 && i < len(c) && c[i] == ' '
}

// wrap maps any index into the set.
func (c Charset) wrap(i int) int {
	n := len(c)

	return ((i % n) + n) % n
}
