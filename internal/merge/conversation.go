package merge

import "unicode/utf8"

// lengthRatioNum/lengthRatioDen encode the 50% dominance threshold: when
// two same-language answers differ in length by more than half, the
// longer one is assumed to subsume the shorter and wins outright.
// Below the threshold the answers are treated as complementary and both
// are kept. The threshold is an empirically tuned product constant;
// treat it as a behavior contract, not something to retune.
const (
	lengthRatioNum = 3
	lengthRatioDen = 2
)

// Conversation merges zero, one, or two successful free-text answers into
// one reply. userMessage is the original question, used only for language
// matching. answers must hold the successful texts in provider order.
//
// Returns ok=false only when answers is empty; given at least one answer
// the merged text is never empty.
func Conversation(userMessage string, answers []string) (string, bool) {
	switch len(answers) {
	case 0:
		return "", false
	case 1:
		return answers[0], true
	}

	first, second := answers[0], answers[1]
	langFirst := DetectLanguage(first)
	langSecond := DetectLanguage(second)

	if langFirst == langSecond {
		if langFirst == LangUnknown {
			// No language signal to arbitrate on; keep both.
			return concat(first, second), true
		}
		return arbitrateByLength(first, second), true
	}

	// Different languages: prefer the answer matching the user's language.
	userLang := DetectLanguage(userMessage)
	if userLang != LangUnknown {
		if langFirst == userLang {
			return first, true
		}
		if langSecond == userLang {
			return second, true
		}
	}

	// Neither matches, or the user's language is unreadable: keep both
	// rather than guess which one the user can read.
	return concat(first, second), true
}

// arbitrateByLength returns the longer answer when it exceeds the shorter
// by more than 50% in character count, otherwise both concatenated.
func arbitrateByLength(first, second string) string {
	lenFirst := utf8.RuneCountInString(first)
	lenSecond := utf8.RuneCountInString(second)

	longer := first
	longerLen, shorterLen := lenFirst, lenSecond
	if lenSecond > lenFirst {
		longer = second
		longerLen, shorterLen = lenSecond, lenFirst
	}

	// longerLen > shorterLen * 1.5, in integer arithmetic.
	if longerLen*lengthRatioDen > shorterLen*lengthRatioNum {
		return longer
	}
	return concat(first, second)
}

// concat joins two answers with a blank line, preserving provider order.
func concat(first, second string) string {
	return first + "\n\n" + second
}
