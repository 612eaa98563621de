package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/google/uuid"

	"github.com/marcos-nsantos/photo-effects/internal/domain"
	"github.com/marcos-nsantos/photo-effects/internal/domain/valueobject"
)

// LocalStorage keeps every image as a file in one flat directory. All access
// goes through an os.Root, so no identifier can resolve outside it.
type LocalStorage struct {
	root *os.Root
	dir  string
}

func NewLocalStorage(dir string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload dir: %w", err)
	}

	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, fmt.Errorf("opening upload dir: %w", err)
	}

	return &LocalStorage{root: root, dir: dir}, nil
}

// Put writes data under id. The file is written to a temporary name and
// renamed into place; concurrent writers to the same id race and the last
// rename wins.
func (s *LocalStorage) Put(ctx context.Context, id string, data []byte, _ string) error {
	if err := valueobject.ValidateID(id); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	tmp := ".tmp-" + uuid.NewString()
	f, err := s.root.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("creating %s: %w", id, err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		_ = s.root.Remove(tmp)
		return fmt.Errorf("writing %s: %w", id, err)
	}
	if err := f.Close(); err != nil {
		_ = s.root.Remove(tmp)
		return fmt.Errorf("closing %s: %w", id, err)
	}

	if err := s.root.Rename(tmp, id); err != nil {
		_ = s.root.Remove(tmp)
		return fmt.Errorf("storing %s: %w", id, err)
	}
	return nil
}

func (s *LocalStorage) Get(ctx context.Context, id string) ([]byte, error) {
	if err := valueobject.ValidateID(id); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := s.root.Open(id)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrImageNotFound
		}
		return nil, fmt.Errorf("opening %s: %w", id, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", id, err)
	}
	if !info.Mode().IsRegular() {
		return nil, domain.ErrImageNotFound
	}

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", id, err)
	}
	return data, nil
}

func (s *LocalStorage) Exists(ctx context.Context, id string) (bool, error) {
	if err := valueobject.ValidateID(id); err != nil {
		return false, err
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	info, err := s.root.Stat(id)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("stat %s: %w", id, err)
	}
	return info.Mode().IsRegular(), nil
}

func (s *LocalStorage) Dir() string {
	return s.dir
}

func (s *LocalStorage) Close() error {
	return s.root.Close()
}
