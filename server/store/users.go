package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"pokeidle/shared/game/types"
)

const userColumns = `id, username, email, password_hash, google_id,
  gold, gems, xp, level, current_generation, current_zone, current_stage, stage_kills,
  click_damage, click_damage_bonus, team_dps_bonus, badges, candies, daycare, items,
  last_login_at, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(r rowScanner) (*User, error) {
	var (
		u                       User
		googleID                sql.NullString
		candies, daycare, items string
		lastLogin               sql.NullInt64
		created, updated        int64
	)
	p := &u.Player
	err := r.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &googleID,
		&p.Gold, &p.Gems, &p.XP, &p.Level, &p.CurrentGeneration, &p.CurrentZone, &p.CurrentStage, &p.StageKills,
		&p.ClickDamage, &p.ClickDamageBonus, &p.TeamDpsBonus, &p.Badges, &candies, &daycare, &items,
		&lastLogin, &created, &updated)
	if err != nil {
		return nil, classify(err)
	}
	if googleID.Valid {
		u.GoogleID = &googleID.String
	}
	if err := json.Unmarshal([]byte(candies), &p.Candies); err != nil {
		return nil, fmt.Errorf("store: user %d candies: %w", u.ID, err)
	}
	if err := json.Unmarshal([]byte(daycare), &p.Daycare); err != nil {
		return nil, fmt.Errorf("store: user %d daycare: %w", u.ID, err)
	}
	if err := json.Unmarshal([]byte(items), &p.Items); err != nil {
		return nil, fmt.Errorf("store: user %d items: %w", u.ID, err)
	}
	p.EnsureInitialized()
	u.LastLoginAt = timePtr(lastLogin)
	u.CreatedAt = fromUnix(created)
	u.UpdatedAt = fromUnix(updated)
	return &u, nil
}

type playerBlobs struct {
	candies, daycare, items string
}

func encodePlayer(p *types.Player) (playerBlobs, error) {
	var out playerBlobs
	c, err := json.Marshal(p.Candies)
	if err != nil {
		return out, err
	}
	daycare := p.Daycare
	if daycare == nil {
		daycare = []types.DaycareSlot{}
	}
	d, err := json.Marshal(daycare)
	if err != nil {
		return out, err
	}
	items := p.Items
	if items == nil {
		items = map[string]int{}
	}
	i, err := json.Marshal(items)
	if err != nil {
		return out, err
	}
	out.candies, out.daycare, out.items = string(c), string(d), string(i)
	return out, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// CreateUser inserts u and fills its ID and timestamps.
func (s *SQLStore) CreateUser(ctx context.Context, u *User) error {
	blobs, err := encodePlayer(&u.Player)
	if err != nil {
		return fmt.Errorf("store: encode player: %w", err)
	}
	now := time.Now().UTC().Truncate(time.Second)
	p := &u.Player
	err = s.queryRow(ctx, `INSERT INTO users (username, email, password_hash, google_id,
  gold, gems, xp, level, current_generation, current_zone, current_stage, stage_kills,
  click_damage, click_damage_bonus, team_dps_bonus, badges, candies, daycare, items,
  last_login_at, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING id`,
		u.Username, u.Email, u.PasswordHash, nullString(u.GoogleID),
		p.Gold, p.Gems, p.XP, p.Level, p.CurrentGeneration, p.CurrentZone, p.CurrentStage, p.StageKills,
		p.ClickDamage, p.ClickDamageBonus, p.TeamDpsBonus, p.Badges, blobs.candies, blobs.daycare, blobs.items,
		nullUnix(u.LastLoginAt), unix(now), unix(now),
	).Scan(&u.ID)
	if err != nil {
		return classify(err)
	}
	u.CreatedAt, u.UpdatedAt = now, now
	return nil
}

func (s *SQLStore) userBy(ctx context.Context, col string, arg any) (*User, error) {
	return scanUser(s.queryRow(ctx, `SELECT `+userColumns+` FROM users WHERE `+col+` = ?`, arg))
}

func (s *SQLStore) UserByID(ctx context.Context, id int64) (*User, error) {
	return s.userBy(ctx, "id", id)
}

func (s *SQLStore) UserByEmail(ctx context.Context, email string) (*User, error) {
	return s.userBy(ctx, "email", email)
}

func (s *SQLStore) UserByUsername(ctx context.Context, username string) (*User, error) {
	return s.userBy(ctx, "username", username)
}

func (s *SQLStore) UserByGoogleID(ctx context.Context, googleID string) (*User, error) {
	return s.userBy(ctx, "google_id", googleID)
}

// UpdateUser writes every mutable column of u and bumps updated_at.
func (s *SQLStore) UpdateUser(ctx context.Context, u *User) error {
	blobs, err := encodePlayer(&u.Player)
	if err != nil {
		return fmt.Errorf("store: encode player: %w", err)
	}
	now := time.Now().UTC().Truncate(time.Second)
	p := &u.Player
	res, err := s.exec(ctx, `UPDATE users SET username = ?, email = ?, password_hash = ?, google_id = ?,
  gold = ?, gems = ?, xp = ?, level = ?, current_generation = ?, current_zone = ?, current_stage = ?, stage_kills = ?,
  click_damage = ?, click_damage_bonus = ?, team_dps_bonus = ?, badges = ?, candies = ?, daycare = ?, items = ?,
  last_login_at = ?, updated_at = ?
WHERE id = ?`,
		u.Username, u.Email, u.PasswordHash, nullString(u.GoogleID),
		p.Gold, p.Gems, p.XP, p.Level, p.CurrentGeneration, p.CurrentZone, p.CurrentStage, p.StageKills,
		p.ClickDamage, p.ClickDamageBonus, p.TeamDpsBonus, p.Badges, blobs.candies, blobs.daycare, blobs.items,
		nullUnix(u.LastLoginAt), unix(now), u.ID,
	)
	if err != nil {
		return classify(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	u.UpdatedAt = now
	return nil
}
