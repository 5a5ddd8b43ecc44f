package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// MigrationFile describes a created up/down migration pair.
type MigrationFile struct {
	Version  string
	Name     string
	UpPath   string
	DownPath string
}

// CreateMigration creates an empty up/down migration file pair named
// <timestamp>_<name>.{up,down}.sql.
func CreateMigration(migrationsDir, name, description string) (*MigrationFile, error) {
	if err := os.MkdirAll(migrationsDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create migrations directory: %w", err)
	}

	now := time.Now()
	// Timestamp versions sort lexically in apply order.
	version := now.Format("20060102150405")
	baseName := version + "_" + sanitizeName(name)

	mf := &MigrationFile{
		Version:  version,
		Name:     name,
		UpPath:   filepath.Join(migrationsDir, baseName+".up.sql"),
		DownPath: filepath.Join(migrationsDir, baseName+".down.sql"),
	}

	upHeader := fmt.Sprintf("-- %s\n-- Created: %s\n-- %s\n\n", name, now.Format(time.RFC3339), description)
	if err := os.WriteFile(mf.UpPath, []byte(upHeader), 0o644); err != nil {
		return nil, fmt.Errorf("failed to create up migration: %w", err)
	}

	downHeader := fmt.Sprintf("-- %s (rollback)\n-- Created: %s\n\n", name, now.Format(time.RFC3339))
	if err := os.WriteFile(mf.DownPath, []byte(downHeader), 0o644); err != nil {
		_ = os.Remove(mf.UpPath)
		return nil, fmt.Errorf("failed to create down migration: %w", err)
	}

	return mf, nil
}

// sanitizeName lowercases a migration name and collapses separators to
// single underscores so it is safe as a file name component.
func sanitizeName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	lastUnderscore := true
	for _, c := range strings.ToLower(name) {
		switch {
		case c >= 'a' && c <= 'z' || c >= '0' && c <= '9':
			b.WriteRune(c)
			lastUnderscore = false
		case c == ' ' || c == '-' || c == '_':
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}

// ListMigrations returns the base names of all migration pairs in a
// directory, sorted in apply order.
func ListMigrations(migrationsDir string) ([]string, error) {
	entries, err := os.ReadDir(migrationsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	migrations := make([]string, 0)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if baseName, ok := strings.CutSuffix(entry.Name(), ".up.sql"); ok {
			migrations = append(migrations, baseName)
		}
	}
	sort.Strings(migrations)

	return migrations, nil
}
