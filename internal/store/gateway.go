package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/abhisek/studyquest/internal/study"
)

// Record keys.
const (
	KeyUser    = "user"
	KeyLessons = "lessons"
)

// SchemaVersion is the shape version written into every record envelope.
// Bump the minor version for additive changes and the major version when
// older binaries must refuse to read the record.
const SchemaVersion = "v1.0.0"

// ErrIncompatibleSchema is returned when a stored record was written by a
// newer, incompatible version of the application.
var ErrIncompatibleSchema = errors.New("incompatible record schema")

// KV is the raw record store: whole values addressed by key.
type KV interface {
	// Get returns the value stored under key, or nil when there is none.
	Get(ctx context.Context, key string) ([]byte, error)
	// Put replaces the value stored under key.
	Put(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// envelope wraps a record with the schema version it was written with.
type envelope struct {
	Schema string          `json:"schema"`
	Data   json.RawMessage `json:"data"`
}

// Gateway implements study.Repository over any KV using versioned JSON.
type Gateway struct {
	kv KV
}

var _ study.Repository = (*Gateway)(nil)

// NewGateway creates a Gateway over kv.
func NewGateway(kv KV) *Gateway {
	return &Gateway{kv: kv}
}

func (g *Gateway) LoadUser(ctx context.Context) (*study.User, error) {
	var u study.User
	found, err := g.load(ctx, KeyUser, &u)
	if err != nil || !found {
		return nil, err
	}
	return &u, nil
}

func (g *Gateway) SaveUser(ctx context.Context, u *study.User) error {
	if u == nil {
		return fmt.Errorf("save user: nil user")
	}
	return g.save(ctx, KeyUser, u)
}

func (g *Gateway) LoadLessons(ctx context.Context) ([]study.Lesson, error) {
	var lessons []study.Lesson
	found, err := g.load(ctx, KeyLessons, &lessons)
	if err != nil {
		return nil, err
	}
	if !found || lessons == nil {
		return []study.Lesson{}, nil
	}
	return lessons, nil
}

func (g *Gateway) SaveLessons(ctx context.Context, lessons []study.Lesson) error {
	if lessons == nil {
		lessons = []study.Lesson{}
	}
	return g.save(ctx, KeyLessons, lessons)
}

func (g *Gateway) load(ctx context.Context, key string, v any) (bool, error) {
	raw, err := g.kv.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("get %s: %w", key, err)
	}
	if raw == nil {
		return false, nil
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return false, fmt.Errorf("decode %s envelope: %w", key, err)
	}
	if err := CheckSchema(env.Schema); err != nil {
		return false, fmt.Errorf("%s record: %w", key, err)
	}
	if err := json.Unmarshal(env.Data, v); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (g *Gateway) save(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	raw, err := json.Marshal(envelope{Schema: SchemaVersion, Data: data})
	if err != nil {
		return fmt.Errorf("encode %s envelope: %w", key, err)
	}
	if err := g.kv.Put(ctx, key, raw); err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

// CheckSchema reports whether a record written with version can be read
// by this build. Records from the same or an older major version are
// accepted.
func CheckSchema(version string) error {
	if !strings.HasPrefix(version, "v") {
		version = "v" + version
	}
	if !semver.IsValid(version) {
		return fmt.Errorf("%w: invalid version %q", ErrIncompatibleSchema, version)
	}
	if semver.Compare(semver.Major(version), semver.Major(SchemaVersion)) > 0 {
		return fmt.Errorf("%w: %s is newer than supported %s", ErrIncompatibleSchema, version, SchemaVersion)
	}
	return nil
}

// IsPostgresDSN reports whether dsn addresses a PostgreSQL server rather
// than a SQLite file.
func IsPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}
