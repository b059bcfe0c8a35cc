package domain

import (
	"strings"
	"unicode"
)

const (
	// DefaultMaxMatchLength caps how many characters after a sign still trigger
	DefaultMaxMatchLength = 15
	// DefaultStopCharacters end a mention when typed after the sign
	DefaultStopCharacters = "?!\"'`:;/#+*=&%$§<>"

	linkCloser = "]]"
)

// Position is a line and a rune column in a text buffer
type Position struct {
	Line int
	Ch   int
}

// TriggerSettings controls when typed text opens the suggestion list
type TriggerSettings struct {
	Signs          []string
	MaxMatchLength int // 0 disables the limit
	StopCharacters string
}

// Trigger describes an accepted mention being typed
type Trigger struct {
	Sign  string
	Name  string
	Query string // Sign + Name
	Start Position
	End   Position
}

// FindMostRecentSign returns the rune index and value of the rightmost sign
// in text, or -1 when no sign occurs
func FindMostRecentSign(text []rune, signs []string) (int, string) {
	index, found := -1, ""
	for _, sign := range signs {
		signRunes := []rune(sign)
		if len(signRunes) != 1 {
			continue
		}
		for i := len(text) - 1; i > index; i-- {
			if text[i] == signRunes[0] {
				index, found = i, sign
				break
			}
		}
	}
	return index, found
}

// FindTrigger inspects the text left of cursor on line and reports the
// mention being typed, if any
func FindTrigger(line string, cursor Position, settings TriggerSettings) (Trigger, bool) {
	runes := []rune(line)
	ch := min(max(cursor.Ch, 0), len(runes))
	left := runes[:ch]
	if len(left) == 0 {
		return Trigger{}, false
	}

	signIndex, sign := FindMostRecentSign(left, settings.Signs)
	if signIndex < 0 {
		return Trigger{}, false
	}

	name := string(left[signIndex+1:])
	if !acceptName(name, settings) {
		return Trigger{}, false
	}

	if signIndex > 0 && !unicode.IsSpace(left[signIndex-1]) {
		return Trigger{}, false
	}

	return Trigger{
		Sign:  sign,
		Name:  name,
		Query: sign + name,
		Start: Position{Line: cursor.Line, Ch: signIndex},
		End:   Position{Line: cursor.Line, Ch: ch},
	}, true
}

func acceptName(name string, settings TriggerSettings) bool {
	if name == "" {
		return false
	}
	if strings.Contains(name, linkCloser) {
		return false
	}
	if settings.MaxMatchLength > 0 && len([]rune(name)) > settings.MaxMatchLength {
		return false
	}
	if settings.StopCharacters != "" && strings.ContainsAny(name, settings.StopCharacters) {
		return false
	}
	return true
}

// ResolveQuery splits a frozen query back into its sign and name
func ResolveQuery(query string, signs []string) (sign, name string, ok bool) {
	runes := []rune(query)
	index, sign := FindMostRecentSign(runes, signs)
	if index < 0 {
		return "", "", false
	}
	return sign, string(runes[index+1:]), true
}
