package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/fakhrymubarak/weather-cache/internal/model"
)

const snapshotVersion = 1

// ErrUnsupportedVersion is returned when the persisted snapshot was written by
// an incompatible version.
var ErrUnsupportedVersion = errors.New("unsupported cache snapshot version")

var errNilRecord = errors.New("entry has no record")

type snapshot struct {
	Version int     `json:"version"`
	Entries []entry `json:"entries"`
}

type entry struct {
	Key    Key                  `json:"key"`
	Record *model.WeatherRecord `json:"record"`
}

// encode serializes entries sorted by key so identical caches produce
// identical bytes.
func encode(entries map[Key]*model.WeatherRecord) ([]byte, error) {
	s := snapshot{Version: snapshotVersion, Entries: make([]entry, 0, len(entries))}
	for k, r := range entries {
		s.Entries = append(s.Entries, entry{Key: k, Record: r})
	}
	sort.Slice(s.Entries, func(i, j int) bool {
		return s.Entries[i].Key.Less(s.Entries[j].Key)
	})
	return json.Marshal(s)
}

// decode returns the valid entries of a snapshot. Entries whose record is
// missing or fails validation are dropped and reported in skipped.
func decode(data []byte) (entries map[Key]*model.WeatherRecord, skipped map[Key]error, err error) {
	var s snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, nil, fmt.Errorf("decode cache snapshot: %w", err)
	}
	if s.Version != snapshotVersion {
		return nil, nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, s.Version)
	}
	entries = make(map[Key]*model.WeatherRecord, len(s.Entries))
	skipped = make(map[Key]error)
	for _, e := range s.Entries {
		if e.Record == nil {
			skipped[e.Key] = errNilRecord
			continue
		}
		if err := e.Record.Validate(); err != nil {
			skipped[e.Key] = err
			continue
		}
		entries[e.Key] = e.Record
	}
	return entries, skipped, nil
}
