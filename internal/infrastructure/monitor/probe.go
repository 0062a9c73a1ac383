package monitor

import (
	"context"
	"fmt"
	"os"

	"github.com/fastygo/taskapp/internal/infrastructure/boltdb"
)

// Probe checks one storage component.
type Probe interface {
	Name() string
	Check(ctx context.Context) error
}

type fileProbe struct {
	name string
	path string
}

// FileProbe reports whether path exists and is a regular file.
func FileProbe(name, path string) Probe {
	return fileProbe{name: name, path: path}
}

func (p fileProbe) Name() string { return p.name }

func (p fileProbe) Check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	info, err := os.Stat(p.path)
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%s is not a regular file", p.path)
	}
	return nil
}

type boltProbe struct {
	store *boltdb.Store
}

// BoltProbe reports whether the bolt database can open a transaction.
func BoltProbe(store *boltdb.Store) Probe {
	return boltProbe{store: store}
}

func (p boltProbe) Name() string { return "bolt" }

func (p boltProbe) Check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return p.store.Ping()
}
