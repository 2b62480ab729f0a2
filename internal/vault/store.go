// Package vault implements the file-store collaborator: a rooted markdown
// note store with YAML frontmatter, wiki-link extraction, and glob listing.
package vault

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// ErrNoteNotFound indicates a read of a note that does not exist.
var ErrNoteNotFound = errors.New("note not found")

// ErrOutsideVault indicates a path that escapes the vault root.
var ErrOutsideVault = errors.New("path escapes the vault")

// Note is a parsed markdown note.
type Note struct {
	Path        string         `json:"path"`
	Frontmatter map[string]any `json:"frontmatter,omitempty"`
	Content     string         `json:"content"`
	Links       []string       `json:"links,omitempty"`
}

// Store reads and writes notes under a single root directory. All paths are
// vault-relative; anything resolving outside the root is rejected.
type Store struct {
	root string
}

// NewStore opens a vault rooted at dir.
func NewStore(dir string) (*Store, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve vault path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("open vault: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("vault path %s is not a directory", abs)
	}
	return &Store{root: abs}, nil
}

// Root returns the absolute vault root.
func (s *Store) Root() string {
	return s.root
}

// resolve maps a vault-relative path to an absolute one, rejecting escapes.
func (s *Store) resolve(rel string) (string, error) {
	abs := filepath.Join(s.root, filepath.FromSlash(rel))
	abs = filepath.Clean(abs)
	if abs != s.root && !strings.HasPrefix(abs, s.root+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrOutsideVault, rel)
	}
	return abs, nil
}

// Read loads and parses one note.
func (s *Store) Read(path string) (*Note, error) {
	abs, err := s.resolve(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNoteNotFound, path)
		}
		return nil, fmt.Errorf("read note: %w", err)
	}

	fm, content := splitFrontmatter(string(data))
	return &Note{
		Path:        path,
		Frontmatter: fm,
		Content:     content,
		Links:       WikiLinks(content),
	}, nil
}

// Write creates or replaces a note, serializing frontmatter when given.
// Parent directories are created as needed.
func (s *Store) Write(path, content string, frontmatter map[string]any) error {
	abs, err := s.resolve(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0755); err != nil {
		return fmt.Errorf("create note directory: %w", err)
	}

	var b strings.Builder
	if len(frontmatter) > 0 {
		raw, err := yaml.Marshal(frontmatter)
		if err != nil {
			return fmt.Errorf("marshal frontmatter: %w", err)
		}
		b.WriteString("---\n")
		b.Write(raw)
		b.WriteString("---\n")
	}
	b.WriteString(content)

	if err := os.WriteFile(abs, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("write note: %w", err)
	}
	return nil
}

// List returns vault-relative paths matching the glob pattern, in sorted
// order. An empty pattern lists every markdown file.
func (s *Store) List(pattern string) ([]string, error) {
	if pattern == "" {
		pattern = "**/*.md"
	}
	matches, err := doublestar.Glob(os.DirFS(s.root), pattern)
	if err != nil {
		return nil, fmt.Errorf("glob %q: %w", pattern, err)
	}
	return matches, nil
}

// Search returns notes whose content or frontmatter values contain query,
// case-insensitively.
func (s *Store) Search(query string) ([]*Note, error) {
	paths, err := s.List("")
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(query)
	var hits []*Note
	for _, p := range paths {
		note, err := s.Read(p)
		if err != nil {
			continue // unreadable notes are skipped, not fatal
		}
		if strings.Contains(strings.ToLower(note.Content), needle) || frontmatterContains(note.Frontmatter, needle) {
			hits = append(hits, note)
		}
	}
	return hits, nil
}

func frontmatterContains(fm map[string]any, needle string) bool {
	for _, v := range fm {
		if s, ok := v.(string); ok && strings.Contains(strings.ToLower(s), needle) {
			return true
		}
	}
	return false
}

// splitFrontmatter separates a leading YAML frontmatter block from the body.
// Malformed YAML is ignored and the whole input treated as body.
func splitFrontmatter(content string) (map[string]any, string) {
	if !strings.HasPrefix(content, "---\n") {
		return nil, content
	}
	endIdx := strings.Index(content[4:], "\n---")
	if endIdx < 0 {
		return nil, content
	}

	raw := content[4 : 4+endIdx]
	body := strings.TrimPrefix(content[4+endIdx+4:], "\n")

	fm := make(map[string]any)
	if err := yaml.Unmarshal([]byte(raw), &fm); err != nil {
		return nil, content
	}
	return fm, body
}

var wikiLinkRe = regexp.MustCompile(`\[\[([^\[\]|]+)(?:\|[^\[\]]*)?\]\]`)

// WikiLinks extracts [[wiki-link]] targets from note content, dropping any
// |alias part.
func WikiLinks(content string) []string {
	matches := wikiLinkRe.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return nil
	}
	links := make([]string, 0, len(matches))
	seen := make(map[string]bool, len(matches))
	for _, m := range matches {
		target := strings.TrimSpace(m[1])
		if target != "" && !seen[target] {
			seen[target] = true
			links = append(links, target)
		}
	}
	return links
}
