package cache

import (
	"bytes"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// snapshot es el valor guardado bajo la clave de cada colección.
// Version crece en cada escritura; sirve para detectar escritores externos.
type snapshot[T any] struct {
	Version uint64    `json:"version"`
	SavedAt time.Time `json:"saved_at"`
	Items   []T       `json:"items"`
}

type snapshotHeader struct {
	Version uint64 `json:"version"`
}

func encodeSnapshot[T any](version uint64, savedAt time.Time, items []T) ([]byte, error) {
	if items == nil {
		items = []T{}
	}
	return json.Marshal(snapshot[T]{Version: version, SavedAt: savedAt, Items: items})
}

// decodeSnapshot acepta el sobre versionado y también un arreglo JSON plano
// (formato de los datos exportados desde el navegador), que se lee como versión 0.
func decodeSnapshot[T any](data []byte) (snapshot[T], error) {
	var s snapshot[T]
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &s.Items); err != nil {
			return s, fmt.Errorf("decodificar snapshot: %w", err)
		}
		return s, nil
	}
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return s, fmt.Errorf("decodificar snapshot: %w", err)
	}
	return s, nil
}

func snapshotVersion(data []byte) uint64 {
	var h snapshotHeader
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return 0
	}
	if err := json.Unmarshal(trimmed, &h); err != nil {
		return 0
	}
	return h.Version
}
