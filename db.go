package restorable

import (
	"database/sql"

	"github.com/rs/zerolog"

	"github.com/yaa110/restorable/internal/inverse"
	"github.com/yaa110/restorable/internal/store"
	"github.com/yaa110/restorable/sqlparse"
)

// DefaultIdentityColumn is the implicit SQLite row identifier. Callers
// may name an alias column for conflict-resolving upserts; everything
// else targets inverse statements by rowid.
const DefaultIdentityColumn = inverse.DefaultIdentityColumn

// Classifier translates a raw write statement into its kind, target
// table and where-predicate. The default is sqlparse.New; callers with
// a real SQL parser can inject their own.
type Classifier interface {
	Classify(statement string) (sqlparse.Statement, error)
}

// DB is a SQLite database handle with a mutation-inversion journal.
// Each DB owns its ledger; there is no process-wide shared instance.
// Reopening the same file with a new DB starts with an empty ledger.
type DB struct {
	store      *store.Store
	ledger     *inverse.Ledger
	classifier Classifier
	log        zerolog.Logger
}

// Option configures a DB.
type Option func(*DB)

// WithLogger attaches a logger; the journal emits debug events when
// sequences are recorded and restored. Default is a no-op logger.
func WithLogger(log zerolog.Logger) Option {
	return func(db *DB) {
		db.log = log
	}
}

// WithClassifier replaces the raw-statement classifier.
func WithClassifier(c Classifier) Option {
	return func(db *DB) {
		db.classifier = c
	}
}

// Open creates or opens a SQLite database at path with an empty
// journal.
func Open(path string, opts ...Option) (*DB, error) {
	st, err := store.Open(path)
	if err != nil {
		return nil, err
	}

	db := &DB{
		store:      st,
		ledger:     inverse.NewLedger(),
		classifier: sqlparse.New(),
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(db)
	}
	return db, nil
}

// Close closes the underlying database. The ledger is discarded with
// the DB; recorded tags cannot be restored after Close.
func (db *DB) Close() error {
	return db.store.Close()
}

// Handle returns the underlying sql.DB for direct access, e.g. schema
// management. Writes issued here bypass inverse recording.
func (db *DB) Handle() *sql.DB {
	return db.store.DB()
}

// Tags returns a sorted snapshot of all tags with a recorded inverse
// sequence.
func (db *DB) Tags() []string {
	return db.ledger.Tags()
}

// HasTag reports whether tag has a recorded inverse sequence.
func (db *DB) HasTag(tag string) (bool, error) {
	if err := validateTag(tag); err != nil {
		return false, err
	}
	ok, _ := db.ledger.Has(tag)
	return ok, nil
}

// record stores a sequence under tag, replacing any previous entry for
// that tag.
func (db *DB) record(tag string, seq inverse.Sequence) {
	// Tag already validated by the caller; Put cannot fail.
	_ = db.ledger.Put(tag, seq)
	db.log.Debug().Str("tag", tag).Int("steps", len(seq)).Msg("recorded inverse sequence")
}
