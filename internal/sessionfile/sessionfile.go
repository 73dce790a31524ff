// Package sessionfile reads and writes planning sessions as TOML documents.
//
// A session file looks like:
//
//	version = 1
//	goal = "Ship the release"
//
//	[[items]]
//	id = "build"
//	label = "Build artifacts"
//
//	[[decisions]]
//	a = "build"
//	b = "publish"
//	relation = "before"
//
// A decision with relation "before" means item a precedes item b; "none"
// records that the two items are independent.
package sessionfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/papapumpkin/pairplan/internal/dag"
	"github.com/papapumpkin/pairplan/internal/session"
)

// CurrentVersion is the format version written by Save.
const CurrentVersion = 1

const (
	relationBefore = "before"
	relationNone   = "none"
)

// Sentinel errors for session files.
var (
	// ErrExists indicates Create was asked to overwrite an existing file.
	ErrExists = errors.New("session file already exists")
	// ErrUnsupportedVersion indicates a file written by a newer format.
	ErrUnsupportedVersion = errors.New("unsupported session file version")
	// ErrBadRelation indicates a decision record with an unknown relation.
	ErrBadRelation = errors.New("unknown decision relation")
)

// File is the on-disk shape of a session.
type File struct {
	Version   int              `toml:"version"`
	Goal      string           `toml:"goal,omitempty"`
	Items     []ItemRecord     `toml:"items"`
	Decisions []DecisionRecord `toml:"decisions,omitempty"`
}

// ItemRecord is one item.
type ItemRecord struct {
	ID          string `toml:"id"`
	Label       string `toml:"label"`
	Description string `toml:"description,omitempty"`
}

// DecisionRecord is one answered question.
type DecisionRecord struct {
	A        string `toml:"a"`
	B        string `toml:"b"`
	Relation string `toml:"relation"`
}

// Name derives a session name from its file path: the base name without
// extension.
func Name(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Encode converts a session to its file representation. Decisions are
// written in canonical pair-key order so output is stable.
func Encode(s session.Session) File {
	f := File{Version: CurrentVersion, Goal: s.Goal}
	for _, it := range s.Items {
		f.Items = append(f.Items, ItemRecord{ID: it.ID, Label: it.Label, Description: it.Description})
	}
	for _, k := range s.Decisions.Keys() {
		d := s.Decisions[k]
		if d.None {
			f.Decisions = append(f.Decisions, DecisionRecord{A: k.Lo, B: k.Hi, Relation: relationNone})
			continue
		}
		f.Decisions = append(f.Decisions, DecisionRecord{A: d.Before, B: d.After, Relation: relationBefore})
	}
	return f
}

// Decode converts a file representation into a session. Items are taken as
// written, so problems such as duplicate ids survive for Session.Validate
// to report.
func Decode(f File) (session.Session, error) {
	if f.Version > CurrentVersion {
		return session.Session{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, f.Version)
	}
	s := session.New(f.Goal)
	for _, r := range f.Items {
		s.Items = append(s.Items, dag.Item{ID: r.ID, Label: r.Label, Description: r.Description})
	}
	for i, r := range f.Decisions {
		key := dag.KeyOf(r.A, r.B)
		switch strings.ToLower(strings.TrimSpace(r.Relation)) {
		case relationBefore:
			s.Decisions[key] = dag.Decision{Before: r.A, After: r.B}
		case relationNone:
			s.Decisions[key] = dag.Decision{None: true}
		default:
			return session.Session{}, fmt.Errorf("decision %d (%s/%s): %w: %q", i+1, r.A, r.B, ErrBadRelation, r.Relation)
		}
	}
	return s, nil
}

// Parse decodes TOML bytes into a session.
func Parse(data []byte) (session.Session, error) {
	var f File
	if err := toml.Unmarshal(data, &f); err != nil {
		return session.Session{}, fmt.Errorf("parsing session file: %w", err)
	}
	return Decode(f)
}

// Marshal encodes a session as TOML.
func Marshal(s session.Session) ([]byte, error) {
	data, err := toml.Marshal(Encode(s))
	if err != nil {
		return nil, fmt.Errorf("marshaling session: %w", err)
	}
	return data, nil
}

// Load reads the session file at path.
func Load(path string) (session.Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return session.Session{}, fmt.Errorf("reading session file: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return session.Session{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Save writes the session file atomically (write temp + rename).
func Save(path string, s session.Session) error {
	data, err := Marshal(s)
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing temp session file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("renaming session file: %w", err)
	}
	return nil
}

// Create writes a new session file, refusing to replace an existing one
// unless overwrite is set.
func Create(path string, s session.Session, overwrite bool) error {
	if _, err := os.Stat(path); err == nil && !overwrite {
		return fmt.Errorf("%w: %s; use --force to overwrite", ErrExists, path)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating session directory: %w", err)
		}
	}
	return Save(path, s)
}
