package wordvec

import "database/sql"
import "encoding/binary"
import "math"
import "os"
import "strconv"
import "sync"

import lru "github.com/hashicorp/golang-lru"
import _ "github.com/mattn/go-sqlite3"
import "github.com/pkg/errors"

import "github.com/neurlang/textcnn/resource"

// DefaultCacheSize is the number of vectors kept in memory by an SQLite table.
const DefaultCacheSize = 50000

const schema = `
CREATE TABLE IF NOT EXISTS meta (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS vectors (
	token TEXT PRIMARY KEY,
	vec BLOB NOT NULL
);
`

// SQLite is a Table stored in an sqlite database, with an LRU read cache.
// Unknown tokens are cached too, so repeated misses do not hit the database.
// A failed query or a malformed vector is not a miss: it is kept in Err.
type SQLite struct {
	name  string
	db    *sql.DB
	get   *sql.Stmt
	dim   int
	cache *lru.Cache

	mu  sync.Mutex
	err error
}

// OpenSQLite opens an existing table read-only. cacheSize <= 0 selects DefaultCacheSize.
func OpenSQLite(name string, cacheSize int) (*SQLite, error) {
	if _, err := os.Stat(name); err != nil {
		return nil, resource.Classify(name, err)
	}
	db, err := sql.Open("sqlite3", "file:"+name+"?mode=ro&_busy_timeout=5000")
	if err != nil {
		return nil, resource.Unreadable(name, err)
	}
	var dimText string
	if err := db.QueryRow("SELECT value FROM meta WHERE key = 'dimension'").Scan(&dimText); err != nil {
		db.Close()
		return nil, resource.Unreadable(name, errors.Wrap(err, "reading dimension"))
	}
	dim, err := strconv.Atoi(dimText)
	if err != nil || dim <= 0 {
		db.Close()
		return nil, resource.Unreadable(name, errors.Errorf("invalid dimension %q", dimText))
	}
	var bad int
	if err := db.QueryRow("SELECT COUNT(*) FROM vectors WHERE length(vec) != ?", 4*dim).Scan(&bad); err != nil {
		db.Close()
		return nil, resource.Unreadable(name, errors.Wrap(err, "checking vectors"))
	}
	if bad > 0 {
		db.Close()
		return nil, resource.Unreadable(name, errors.Errorf("%d vectors are not %d floats long", bad, dim))
	}
	get, err := db.Prepare("SELECT vec FROM vectors WHERE token = ?")
	if err != nil {
		db.Close()
		return nil, resource.Unreadable(name, err)
	}
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New(cacheSize)
	if err != nil {
		get.Close()
		db.Close()
		return nil, err
	}
	return &SQLite{name: name, db: db, get: get, dim: dim, cache: cache}, nil
}

// Lookup returns the vector of token. Only a token absent from the table is
// reported as unknown; other failures also set Err.
func (s *SQLite) Lookup(token string) ([]float32, bool) {
	if v, ok := s.cache.Get(token); ok {
		vec := v.([]float32)
		return vec, vec != nil
	}
	var blob []byte
	err := s.get.QueryRow(token).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		s.cache.Add(token, []float32(nil))
		return nil, false
	}
	if err != nil {
		s.fail(errors.Wrapf(err, "looking up %q", token))
		return nil, false
	}
	if len(blob) != 4*s.dim {
		s.fail(errors.Errorf("vector of %q has %d bytes, want %d", token, len(blob), 4*s.dim))
		return nil, false
	}
	vec := decodeVector(blob)
	s.cache.Add(token, vec)
	return vec, true
}

func (s *SQLite) fail(err error) {
	s.mu.Lock()
	if s.err == nil {
		s.err = resource.Unreadable(s.name, err)
	}
	s.mu.Unlock()
}

// Err returns the first lookup failure, classified as resource.ErrUnreadable.
func (s *SQLite) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Dimension returns the vector length.
func (s *SQLite) Dimension() int {
	return s.dim
}

// Close releases the database.
func (s *SQLite) Close() error {
	s.get.Close()
	return s.db.Close()
}

// Import writes every vector of m into a new or existing sqlite table at name.
func Import(name string, m *Memory) (err error) {
	db, err := sql.Open("sqlite3", name+"?_busy_timeout=5000")
	if err != nil {
		return errors.Wrap(err, "opening word vector db")
	}
	defer db.Close()
	if _, err := db.Exec(schema); err != nil {
		return errors.Wrap(err, "creating word vector tables")
	}
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()
	if _, err = tx.Exec("INSERT OR REPLACE INTO meta (key, value) VALUES ('dimension', ?)", strconv.Itoa(m.dim)); err != nil {
		return err
	}
	put, err := tx.Prepare("INSERT OR REPLACE INTO vectors (token, vec) VALUES (?, ?)")
	if err != nil {
		return err
	}
	defer put.Close()
	m.Each(func(token string, vec []float32) bool {
		_, err = put.Exec(token, encodeVector(vec))
		return err == nil
	})
	if err != nil {
		return errors.Wrap(err, "inserting word vectors")
	}
	return tx.Commit()
}

func encodeVector(vec []float32) []byte {
	buf := make([]byte, len(vec)*4)
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

func decodeVector(buf []byte) []float32 {
	vec := make([]float32, len(buf)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	return vec
}
