package moderation

import (
	"bufio"
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"strings"
)

//go:embed words/*.txt
var wordFiles embed.FS

// WordList is the merged, de-duplicated censored vocabulary with the
// language codes it was assembled from, kept for startup logging.
type WordList struct {
	Words     []string
	Languages []string
}

// LoadWords reads every embedded dictionary (one word per line, "#"
// comments allowed). File names carry the language: "en.txt" -> "en".
func LoadWords() (*WordList, error) {
	entries, err := fs.ReadDir(wordFiles, "words")
	if err != nil {
		return nil, err
	}

	var languages []string
	unique := make(map[string]struct{})

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		languages = append(languages, strings.TrimSuffix(entry.Name(), ".txt"))

		data, err := wordFiles.ReadFile("words/" + entry.Name())
		if err != nil {
			return nil, err
		}

		// A scanner handles \n and \r\n line endings alike
		scanner := bufio.NewScanner(bytes.NewReader(data))
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			unique[strings.ToLower(line)] = struct{}{}
		}
		if err := scanner.Err(); err != nil {
			return nil, err
		}
	}

	if len(unique) == 0 {
		return nil, fmt.Errorf("no censored words found in embedded dictionaries")
	}

	words := make([]string, 0, len(unique))
	for word := range unique {
		words = append(words, word)
	}
	return &WordList{Words: words, Languages: languages}, nil
}
