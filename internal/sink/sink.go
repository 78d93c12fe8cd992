// Package sink provides a reference augment.Sink backed by an embedded
// bbolt store: anchors accumulate in memory for one lookup tuple and are
// flushed as a single zstd-compressed, binary-encoded batch on EndTuple,
// keyed by a monotonically increasing tuple sequence.
package sink

import (
	"fmt"

	"github.com/DataDog/zstd"
	"github.com/kelindar/binary"
	bolt "go.etcd.io/bbolt"

	"github.com/lintang-b-s/addrconflate/internal/augment"
	"github.com/lintang-b-s/addrconflate/internal/geometry"
)

// AnchorBucket is the bbolt bucket every flushed tuple batch is stored
// under.
const AnchorBucket = "addrconflate_anchors"

// record is the on-disk shape of one anchor: augment.Anchor uses pointer
// fields to model absence, which kelindar/binary round-trips directly, but
// keeping a dedicated record type here means the storage encoding is free
// to diverge from the in-memory Anchor shape later without touching the
// driver-facing package.
type record struct {
	StreetID    string
	Source      string
	HouseNumber float64
	Lon         *float64
	Lat         *float64
	ProjLon     float64
	ProjLat     float64
	Side        *string
}

func toRecord(a augment.Anchor) record {
	var side *string
	if a.Side != nil {
		s := a.Side.String()
		side = &s
	}
	return record{
		StreetID:    a.StreetID,
		Source:      string(a.Source),
		HouseNumber: a.HouseNumber,
		Lon:         a.Lon,
		Lat:         a.Lat,
		ProjLon:     a.ProjLon,
		ProjLat:     a.ProjLat,
		Side:        side,
	}
}

// BoltSink is an augment.Sink that persists each tuple's anchors as one
// compressed batch in an embedded bbolt database.
type BoltSink struct {
	db      *bolt.DB
	buf     []record
	nextKey uint64
}

// Open creates or opens the bbolt database at path and ensures the anchor
// bucket exists. On an existing database the tuple sequence continues after
// the highest key already stored.
func Open(path string) (*BoltSink, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, err
	}
	var nextKey uint64
	err = db.Update(func(tx *bolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists([]byte(AnchorBucket))
		if err != nil {
			return err
		}
		if k, _ := bucket.Cursor().Last(); k != nil {
			var last uint64
			if _, err := fmt.Sscanf(string(k), "%d", &last); err != nil {
				return fmt.Errorf("addrconflate: unexpected anchor batch key %q: %w", k, err)
			}
			nextKey = last + 1
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &BoltSink{db: db, nextKey: nextKey}, nil
}

// NewBoltSink wraps an already-open bbolt handle, for callers that manage
// the database's lifetime themselves (e.g. sharing it with other buckets).
func NewBoltSink(db *bolt.DB) *BoltSink {
	return &BoltSink{db: db}
}

// Emit buffers one anchor for the tuple currently in progress. Nothing is
// written to the database until EndTuple.
func (s *BoltSink) Emit(a augment.Anchor) error {
	s.buf = append(s.buf, toRecord(a))
	return nil
}

// EndTuple flushes the buffered batch as one zstd-compressed record and
// resets the buffer for the next tuple.
func (s *BoltSink) EndTuple() error {
	if len(s.buf) == 0 {
		return nil
	}

	encoded, err := binary.Marshal(s.buf)
	if err != nil {
		return fmt.Errorf("addrconflate: encode anchor batch: %w", err)
	}
	compressed, err := zstd.Compress(nil, encoded)
	if err != nil {
		return fmt.Errorf("addrconflate: compress anchor batch: %w", err)
	}

	key := s.nextKey
	s.nextKey++

	err = s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(AnchorBucket))
		return bucket.Put(encodeKey(key), compressed)
	})
	s.buf = s.buf[:0]
	if err != nil {
		return fmt.Errorf("addrconflate: write anchor batch: %w", err)
	}
	return nil
}

// Batch returns the decompressed, decoded anchor batch stored under the
// given tuple sequence number, for tests and offline inspection.
func (s *BoltSink) Batch(key uint64) ([]augment.Anchor, error) {
	var compressed []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(AnchorBucket))
		v := bucket.Get(encodeKey(key))
		if v == nil {
			return fmt.Errorf("addrconflate: no batch at key %d", key)
		}
		compressed = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	decoded, err := zstd.Decompress(nil, compressed)
	if err != nil {
		return nil, fmt.Errorf("addrconflate: decompress anchor batch: %w", err)
	}
	var recs []record
	if err := binary.Unmarshal(decoded, &recs); err != nil {
		return nil, fmt.Errorf("addrconflate: decode anchor batch: %w", err)
	}

	anchors := make([]augment.Anchor, len(recs))
	for i, r := range recs {
		anchors[i] = fromRecord(r)
	}
	return anchors, nil
}

func fromRecord(r record) augment.Anchor {
	a := augment.Anchor{
		StreetID:    r.StreetID,
		Source:      augment.Source(r.Source),
		HouseNumber: r.HouseNumber,
		Lon:         r.Lon,
		Lat:         r.Lat,
		ProjLon:     r.ProjLon,
		ProjLat:     r.ProjLat,
	}
	if r.Side != nil {
		side := sideFromString(*r.Side)
		a.Side = &side
	}
	return a
}

func sideFromString(s string) geometry.Side {
	if s == "L" {
		return geometry.SideL
	}
	return geometry.SideR
}

// Close closes the underlying bbolt database.
func (s *BoltSink) Close() error {
	return s.db.Close()
}

func encodeKey(key uint64) []byte {
	return []byte(fmt.Sprintf("%020d", key))
}
