package session

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

type Repository interface {
	CreateSession(ctx context.Context, s Session) error
	GetSession(ctx context.Context, id string) (Session, error)
	DeleteSession(ctx context.Context, id string) error
	// StoreNonce records a state nonce handed out with an OAuth redirect.
	StoreNonce(ctx context.Context, nonce string) error
	// ConsumeNonce deletes the nonce and reports whether it existed. A nonce
	// can only be consumed once.
	ConsumeNonce(ctx context.Context, nonce string) (bool, error)
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) CreateSession(ctx context.Context, s Session) error {
	query := `INSERT INTO sessions (id, user_id, created_at, expires_at) VALUES ($1, $2, $3, $4)`
	_, err := r.db.Exec(ctx, query, s.Id, s.UserId, s.CreatedAt, s.ExpiresAt)
	if err != nil {
		log.Errorf("failed to create session: %v", err)
		return err
	}
	return nil
}

func (r *RepositoryImpl) GetSession(ctx context.Context, id string) (Session, error) {
	query := `SELECT id, user_id, created_at, expires_at FROM sessions WHERE id = $1`
	var s Session
	err := r.db.QueryRow(ctx, query, id).Scan(&s.Id, &s.UserId, &s.CreatedAt, &s.ExpiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Session{}, ErrSessionNotFound
	} else if err != nil {
		log.Errorf("failed to get session: %v", err)
		return Session{}, err
	}
	return s, nil
}

func (r *RepositoryImpl) DeleteSession(ctx context.Context, id string) error {
	query := `DELETE FROM sessions WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	if err != nil {
		log.Errorf("failed to delete session: %v", err)
		return err
	}
	return nil
}

func (r *RepositoryImpl) StoreNonce(ctx context.Context, nonce string) error {
	query := `INSERT INTO oauth_nonces (nonce, created_at) VALUES ($1, now())`
	_, err := r.db.Exec(ctx, query, nonce)
	if err != nil {
		log.Errorf("failed to store oauth nonce: %v", err)
		return err
	}
	return nil
}

func (r *RepositoryImpl) ConsumeNonce(ctx context.Context, nonce string) (bool, error) {
	query := `DELETE FROM oauth_nonces WHERE nonce = $1`
	result, err := r.db.Exec(ctx, query, nonce)
	if err != nil {
		log.Errorf("failed to consume oauth nonce: %v", err)
		return false, err
	}
	return result.RowsAffected() > 0, nil
}
