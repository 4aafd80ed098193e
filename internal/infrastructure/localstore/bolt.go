package localstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	bolt "go.etcd.io/bbolt"

	"github.com/jhoicas/catalogo-api/internal/domain/repository"
)

var _ repository.SnapshotStore = (*BoltStore)(nil)

var snapshotsBucket = []byte("snapshots")

// boltLockTimeout espera máxima por el lock del archivo (otro proceso en medio de una operación).
const boltLockTimeout = 5 * time.Second

// BoltStore almacén local sobre un archivo bbolt: un bucket, una clave por colección.
//
// bbolt toma un flock exclusivo mientras el archivo está abierto, así que el
// archivo se abre por operación y se cierra al terminar. Así el API y catalogctl
// comparten LOCAL_STORE_PATH: cada uno espera, como mucho boltLockTimeout, a que
// el otro suelte el lock.
type BoltStore struct {
	path string
	log  zerolog.Logger
}

// NewBoltStore crea el archivo y el bucket si faltan. Crea los directorios padre si faltan.
func NewBoltStore(path string, log zerolog.Logger) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("crear directorio del almacén local: %w", err)
	}
	s := &BoltStore{path: path, log: log}
	if err := s.update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(snapshotsBucket)
		return err
	}); err != nil {
		return nil, fmt.Errorf("crear bucket: %w", err)
	}
	log.Info().Str("path", path).Msg("almacén local bbolt listo")
	return s, nil
}

func (s *BoltStore) open(readOnly bool) (*bolt.DB, error) {
	db, err := bolt.Open(s.path, 0o600, &bolt.Options{Timeout: boltLockTimeout, ReadOnly: readOnly})
	if err != nil {
		return nil, fmt.Errorf("abrir bbolt %s: %w", s.path, err)
	}
	return db, nil
}

// view abre en modo lectura (lock compartido): varios lectores pueden convivir.
func (s *BoltStore) view(fn func(tx *bolt.Tx) error) error {
	db, err := s.open(true)
	if err != nil {
		return err
	}
	defer db.Close()
	return db.View(fn)
}

func (s *BoltStore) update(fn func(tx *bolt.Tx) error) error {
	db, err := s.open(false)
	if err != nil {
		return err
	}
	if err := db.Update(fn); err != nil {
		_ = db.Close()
		return err
	}
	return db.Close()
}

// Get devuelve una copia del valor (los slices de bbolt solo son válidos dentro de la tx).
func (s *BoltStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	var out []byte
	err := s.view(func(tx *bolt.Tx) error {
		b := tx.Bucket(snapshotsBucket)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			out = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("bbolt get %s: %w", key, err)
	}
	return out, out != nil, nil
}

func (s *BoltStore) Put(_ context.Context, key string, value []byte) error {
	err := s.update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(snapshotsBucket)
		if err != nil {
			return err
		}
		return b.Put([]byte(key), value)
	})
	if err != nil {
		return fmt.Errorf("bbolt put %s: %w", key, err)
	}
	return nil
}

func (s *BoltStore) Delete(_ context.Context, key string) error {
	err := s.update(func(tx *bolt.Tx) error {
		b := tx.Bucket(snapshotsBucket)
		if b == nil {
			return nil
		}
		return b.Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("bbolt delete %s: %w", key, err)
	}
	return nil
}

// Keys lista las claves en orden lexicográfico.
func (s *BoltStore) Keys(_ context.Context) ([]string, error) {
	keys := make([]string, 0)
	err := s.view(func(tx *bolt.Tx) error {
		b := tx.Bucket(snapshotsBucket)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, _ []byte) error {
			keys = append(keys, string(k))
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("bbolt keys: %w", err)
	}
	return keys, nil
}

// Close no tiene recursos que liberar: el archivo solo está abierto durante cada operación.
func (s *BoltStore) Close() error { return nil }
