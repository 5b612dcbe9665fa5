package vocab

// DefaultAlwaysValid returns the built-in always-valid set: function words,
// pronouns, and high-frequency forms. Flagging these causes far more harm
// than missing a rare genuine error in one of them, so the engine never
// surfaces them as corrections.
func DefaultAlwaysValid() *AlwaysValid {
	return NewAlwaysValid(alwaysValidWords)
}

// DefaultList returns a starter vocabulary of common words children write.
// Deployments are expected to extend it with YAML word lists via
// [LoadWordlistFile] and at runtime via [List.Learn].
func DefaultList() *List {
	return NewList(starterWords)
}

var alwaysValidWords = []string{
	"the", "a", "an", "is", "are", "was", "were", "be", "been", "being",
	"have", "has", "had", "do", "does", "did", "will", "would", "could",
	"should", "may", "might", "must", "shall", "can", "need", "its", "it's",
	"i", "you", "he", "she", "it", "we", "they", "me", "him", "her",
	"us", "them", "my", "your", "his", "our", "their",
	"this", "that", "these", "those", "what", "which", "who", "whom",
	"and", "or", "but", "if", "because", "when", "where", "how", "why",
	"for", "to", "of", "in", "on", "at", "by", "with", "from", "as",
	"go", "going", "went", "gone", "come", "coming", "came", "see", "saw",
	"think", "know", "want", "get", "make", "take", "say", "said",
	"won't", "don't", "can't", "i'm", "kids", "never", "always",
}

var starterWords = []string{
	"enough", "food", "phone", "school", "heard", "write", "knife",
	"cough", "knee", "some", "really", "love", "happy", "ball", "spell",
	"pretty", "running", "bird", "walked", "played", "difficult",
	"excited", "people", "beautiful", "interesting", "hungry", "friend",
	"reading", "writing", "spelling", "words", "hard", "easy", "cool",
	"win", "platinum", "dyslexic", "remember", "sunset", "water", "games",
	"home", "name", "noise", "answer", "dog", "cat", "red", "fast",
	"today", "nice", "careful", "hello", "house", "because",
}
