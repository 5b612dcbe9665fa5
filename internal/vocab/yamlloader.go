package vocab

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// WordlistFile is the top-level structure of a wordlist YAML file.
//
// Example:
//
//	wordlist:
//	  name: "year-4 spelling list"
//	words:
//	  - necessary
//	  - separate
//	  - definitely
type WordlistFile struct {
	Wordlist WordlistMeta `yaml:"wordlist"`
	Words    []string     `yaml:"words"`
}

// WordlistMeta holds top-level metadata for a wordlist.
type WordlistMeta struct {
	// Name is the list's display name (used in logs).
	Name string `yaml:"name"`

	// Description is a free-text summary of the list.
	Description string `yaml:"description"`
}

// LoadWordlistFile reads and parses a wordlist YAML file from disk.
// Returns a descriptive error if the file cannot be opened or parsed.
func LoadWordlistFile(path string) (*WordlistFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("vocab: open wordlist %q: %w", path, err)
	}
	defer f.Close()

	wf, err := LoadWordlistFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("vocab: parse wordlist %q: %w", path, err)
	}
	return wf, nil
}

// LoadWordlistFromReader parses wordlist YAML from an [io.Reader].
// The reader is consumed entirely; the caller is responsible for closing it.
func LoadWordlistFromReader(r io.Reader) (*WordlistFile, error) {
	var wf WordlistFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true) // reject unknown top-level keys to catch typos
	if err := dec.Decode(&wf); err != nil {
		return nil, fmt.Errorf("vocab: decode wordlist yaml: %w", err)
	}
	return &wf, nil
}

// Import merges all words from a parsed [WordlistFile] into list.
// Returns the number of words that were new to the vocabulary.
func Import(list *List, wf *WordlistFile) (int, error) {
	if wf == nil {
		return 0, fmt.Errorf("vocab: wordlist must not be nil")
	}
	added := 0
	for _, w := range wf.Words {
		if list.Learn(w) {
			added++
		}
	}
	return added, nil
}
