package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Phrase is a preset utterance selectable through gestures.
type Phrase struct {
	ID    string `yaml:"id"`
	Text  string `yaml:"text"`
	Short string `yaml:"short"`
}

// PhraseCategory groups phrases under a named menu entry.
type PhraseCategory struct {
	Name    string   `yaml:"name"`
	Icon    string   `yaml:"icon"`
	Phrases []Phrase `yaml:"phrases"`
}

type phrasesDoc struct {
	Categories []PhraseCategory `yaml:"categories"`
	Custom     []Phrase         `yaml:"custom"`
}

// LoadPhrases reads phrases.yaml from path. A missing file yields empty
// lists. Custom entries with empty text are skipped.
func LoadPhrases(path string) ([]PhraseCategory, []Phrase, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read phrases: %w", err)
	}

	var doc phrasesDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("parse phrases: %w", err)
	}

	var custom []Phrase
	for _, p := range doc.Custom {
		if p.Text != "" {
			custom = append(custom, p)
		}
	}
	return doc.Categories, custom, nil
}
