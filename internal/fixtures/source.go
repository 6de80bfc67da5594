package fixtures

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/dom/xwing-campaign/internal/config"
)

//go:embed data
var embedded embed.FS

// Source reads fixture files by slash separated name.
type Source interface {
	ReadFile(ctx context.Context, name string) ([]byte, error)
	// List returns the names of the .json files directly in dir, sorted.
	List(ctx context.Context, dir string) ([]string, error)
}

// FSSource reads fixtures from a file system.
type FSSource struct {
	fsys fs.FS
}

func NewFSSource(fsys fs.FS) *FSSource {
	return &FSSource{fsys: fsys}
}

// Embedded returns the data set compiled into the binary.
func Embedded() *FSSource {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		panic(err)
	}
	return NewFSSource(sub)
}

func (s *FSSource) ReadFile(_ context.Context, name string) ([]byte, error) {
	return fs.ReadFile(s.fsys, name)
}

func (s *FSSource) List(_ context.Context, dir string) ([]string, error) {
	entries, err := fs.ReadDir(s.fsys, dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".json" {
			continue
		}
		names = append(names, path.Join(dir, e.Name()))
	}
	sort.Strings(names)
	return names, nil
}

// NewSource picks the fixture source named by the configuration. The none
// source yields a nil Source.
func NewSource(ctx context.Context, cfg *config.Config) (Source, error) {
	switch strings.ToLower(cfg.FixturesSource) {
	case "embedded":
		return Embedded(), nil
	case "dir":
		return NewFSSource(os.DirFS(cfg.FixturesDir)), nil
	case "s3":
		src, err := NewS3Source(ctx, S3Config{
			Bucket:          cfg.FixturesS3Bucket,
			Prefix:          cfg.FixturesS3Prefix,
			Region:          cfg.FixturesS3Region,
			Endpoint:        cfg.FixturesS3Endpoint,
			PathStyle:       cfg.FixturesS3PathStyle,
			AccessKeyID:     cfg.FixturesS3AccessKeyID,
			SecretAccessKey: cfg.FixturesS3SecretAccessKey,
		})
		if err != nil {
			return nil, err
		}
		return src, nil
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported fixtures source %q", cfg.FixturesSource)
	}
}
