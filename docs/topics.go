// Package docs holds the user documentation, as markdown topics embedded in
// the binary.
package docs

import (
	"bufio"
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"
)

//go:embed *.md
var docs embed.FS

// Index is the topic listing every other topic.
const Index = "readme"

// Topic returns the markdown content of a documentation topic. The topic "*"
// is every topic, in alphabetical order.
func Topic(name string) (string, error) {
	if name == "*" {
		all, err := List()
		if err != nil {
			return "", err
		}
		return Topics(all...)
	}
	content, err := docs.ReadFile(name + ".md")
	if err != nil {
		return "", fmt.Errorf("topic %q not found: %w", name, err)
	}
	return string(content), nil
}

// Topics returns the content of several topics, one after the other.
func Topics(names ...string) (string, error) {
	var b bytes.Buffer
	for _, name := range names {
		content, err := Topic(name)
		if err != nil {
			return "", err
		}
		b.WriteString(content)
		b.WriteString("\n")
	}
	return b.String(), nil
}

// List returns the names of all topics but the index, sorted.
func List() ([]string, error) {
	entries, err := fs.ReadDir(docs, ".")
	if err != nil {
		return nil, err
	}
	var topics []string
	for _, e := range entries {
		name := strings.TrimSuffix(e.Name(), path.Ext(e.Name()))
		if e.IsDir() || name == Index {
			continue
		}
		topics = append(topics, name)
	}
	slices.Sort(topics)
	return topics, nil
}

// Summaries maps each topic listed in the index to its one line description.
func Summaries() (map[string]string, error) {
	index, err := docs.ReadFile(Index + ".md")
	if err != nil {
		return nil, err
	}
	res := make(map[string]string)
	scanner := bufio.NewScanner(bytes.NewReader(index))
	for scanner.Scan() {
		line, ok := strings.CutPrefix(scanner.Text(), "* ")
		if !ok {
			continue
		}
		name, summary, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		res[strings.TrimSpace(name)] = strings.TrimSpace(summary)
	}
	return res, scanner.Err()
}
