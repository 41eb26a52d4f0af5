package schedule

import "strings"

// Style describes how an event is presented in a notification embed.
type Style struct {
	// Key is the lowercased name fragment this style matches.
	Key     string
	Display string // Korean channel display name
	Emoji   string
	Color   int
}

// DefaultStyle is used when no styled key matches an event name.
var DefaultStyle = Style{Emoji: "⏰", Color: 0x95a5a6}

// Embed color groups.
const (
	colorBlue   = 0x3498db
	colorPurple = 0x9b59b6
	colorRed    = 0xe74c3c
	colorOrange = 0xf39c12
)

// styles is an ordered priority list, checked by substring containment.
// Order matters: "crimson rift (auroria)" must come before "crimson rift"
// or the generic style would shadow the Auroria variant.
var styles = []Style{
	{Key: "hiram rift", Display: "히라마 징조", Emoji: "🌀", Color: colorBlue},
	{Key: "akasch invasion", Display: "침공", Emoji: "🌌", Color: colorBlue},
	{Key: "kraken", Display: "크라켄", Emoji: "🐙", Color: colorRed},
	{Key: "jola, meina, & glenn", Display: "샤글레", Emoji: "🔥", Color: colorRed},
	{Key: "black dragon", Display: "검은 용", Emoji: "🐉", Color: colorRed},
	{Key: "golden plains battle", Display: "황평", Emoji: "⚔️", Color: colorPurple},
	{Key: "crimson rift (auroria)", Display: "태들징", Emoji: "😈", Color: colorOrange},
	{Key: "crimson rift", Display: "낮징", Emoji: "☀️", Color: colorOrange},
	{Key: "grimghast rift", Display: "밤징", Emoji: "🌙", Color: colorOrange},
}

// Lookup resolves the presentation style for an event name. Unstyled events
// keep their own name with the default emoji and color.
func Lookup(name string) Style {
	lower := strings.ToLower(name)
	for _, s := range styles {
		if strings.Contains(lower, s.Key) {
			return s
		}
	}
	s := DefaultStyle
	s.Display = name
	return s
}
