package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	fileNameRe = regexp.MustCompile(`^(\d{14})_([a-z0-9_]+)\.sql$`)
	// Money columns are NUMERIC; binary floats would reintroduce rounding drift.
	floatColumnRe = regexp.MustCompile(`(?i)\b(real|float[48]?|double\s+precision)\b`)
)

const (
	upMarker   = "-- +goose Up"
	downMarker = "-- +goose Down"
)

// Migration is one goose SQL file on disk.
type Migration struct {
	Version int64
	Name    string
	Path    string
}

// Scan lists dir's SQL migrations ordered by version. Non-SQL files are
// ignored; a badly named or duplicated SQL file is an error.
func Scan(dir string) ([]Migration, error) {
	if dir == "" {
		return nil, fmt.Errorf("dir is required")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %q: %w", dir, err)
	}

	var out []Migration
	byVersion := map[int64]string{}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		m := fileNameRe.FindStringSubmatch(e.Name())
		if m == nil {
			return nil, fmt.Errorf("invalid migration filename %q (expected YYYYMMDDHHMMSS_name.sql)", e.Name())
		}
		version, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse version of %q: %w", e.Name(), err)
		}
		if prev, ok := byVersion[version]; ok {
			return nil, fmt.Errorf("duplicate migration version %d in %q and %q", version, prev, e.Name())
		}
		byVersion[version] = e.Name()
		out = append(out, Migration{Version: version, Name: m[2], Path: filepath.Join(dir, e.Name())})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}

// ValidateDir checks filenames, goose markers and column types of every
// migration in dir. An empty directory is valid.
func ValidateDir(dir string) error {
	migrations, err := Scan(dir)
	if err != nil {
		return err
	}
	for _, m := range migrations {
		body, err := os.ReadFile(m.Path)
		if err != nil {
			return fmt.Errorf("read file %q: %w", m.Path, err)
		}
		if err := validateBody(string(body)); err != nil {
			return fmt.Errorf("migration %q: %w", filepath.Base(m.Path), err)
		}
	}
	return nil
}

func validateBody(sql string) error {
	up := strings.Index(sql, upMarker)
	down := strings.Index(sql, downMarker)
	switch {
	case up < 0:
		return fmt.Errorf("missing %q", upMarker)
	case down < 0:
		return fmt.Errorf("missing %q", downMarker)
	case down < up:
		return fmt.Errorf("%q must precede %q", upMarker, downMarker)
	}
	for _, line := range strings.Split(sql[up:down], "\n") {
		code := line
		if i := strings.Index(code, "--"); i >= 0 {
			code = code[:i]
		}
		if loc := floatColumnRe.FindString(code); loc != "" {
			return fmt.Errorf("floating point column type %q; use NUMERIC for amounts", strings.ToLower(loc))
		}
	}
	return nil
}
