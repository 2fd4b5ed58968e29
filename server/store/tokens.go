package store

import (
	"context"
	"time"
)

// RevokeToken records a logged-out JWT id until it would have expired anyway.
func (s *SQLStore) RevokeToken(ctx context.Context, jti string, expiresAt time.Time) error {
	_, err := s.exec(ctx, `INSERT INTO revoked_tokens (jti, expires_at) VALUES (?, ?)
ON CONFLICT(jti) DO NOTHING`, jti, unix(expiresAt))
	return err
}

func (s *SQLStore) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	var n int
	err := s.queryRow(ctx, `SELECT COUNT(*) FROM revoked_tokens WHERE jti = ?`, jti).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// PurgeRevoked drops entries whose tokens have expired.
func (s *SQLStore) PurgeRevoked(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.exec(ctx, `DELETE FROM revoked_tokens WHERE expires_at <= ?`, unix(now))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
