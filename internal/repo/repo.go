package repo

import (
	"log/slog"

	"github.com/emptyfist/crypto-portfolio/internal/models"
	"github.com/emptyfist/crypto-portfolio/pkg/types/pubsub"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var (
	ErrNilDatabase          = errors.New("database cannot be nil")
	ErrNotFound             = errors.New("record not found")
	ErrDuplicateTransaction = errors.New("duplicate transaction id")
	ErrEmptyBatch           = errors.New("batch cannot be empty")
)

// Repository is the persistence layer. Every transaction and audit
// operation is scoped by an explicit caller user id; there is no ambient
// session state. Mutations publish audit events as a side effect.
type Repository struct {
	db     *gorm.DB
	events pubsub.Publisher
	logger *slog.Logger
}

// Option is the functional options pattern for Repository
type Option func(*Repository) error

// WithDB sets the database instance
func WithDB(db *gorm.DB) Option {
	return func(r *Repository) error {
		if db == nil {
			return ErrNilDatabase
		}
		r.db = db
		return nil
	}
}

// WithEventPublisher sets the publisher mutation events are emitted on.
// Without one, mutations still succeed but produce no audit trail.
func WithEventPublisher(p pubsub.Publisher) Option {
	return func(r *Repository) error {
		r.events = p
		return nil
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(r *Repository) error {
		r.logger = l
		return nil
	}
}

func New(opts ...Option) (*Repository, error) {
	r := &Repository{}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	if r.db == nil {
		return nil, ErrNilDatabase
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r, nil
}

func (r *Repository) Migrate() error {
	return r.db.AutoMigrate(
		&models.User{},
		&models.Transaction{},
		&models.TokenPrice{},
		&models.AuditLog{},
	)
}
