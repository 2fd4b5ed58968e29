package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"pokeidle/server/store"
	"pokeidle/shared/game/types"
)

const (
	testGold = 999_999
	testGems = 9_999
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage accounts",
}

var userCreateCmd = &cobra.Command{
	Use:   "create [username] [email] [password]",
	Short: "Create a rich test account, or refill it if the email exists",
	Args:  cobra.MaximumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := [3]string{"jeremy", "jeremy@test.com", "password123"}
		copy(in[:], args)
		st, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()
		u, created, err := createTestUser(cmd.Context(), st, in[0], in[1], in[2])
		if err != nil {
			return err
		}
		if created {
			logger.Info("user created", zap.Int64("user_id", u.ID), zap.String("username", u.Username), zap.String("email", u.Email))
		} else {
			logger.Info("user refilled", zap.Int64("user_id", u.ID), zap.String("email", u.Email))
		}
		return nil
	},
}

func init() {
	userCmd.AddCommand(userCreateCmd)
}

// createTestUser creates the account with test balances. An existing email
// only gets its gold and gems reset.
func createTestUser(ctx context.Context, st store.Store, username, email, password string) (*store.User, bool, error) {
	u, err := st.UserByEmail(ctx, email)
	switch {
	case err == nil:
		u.Player.Gold = testGold
		u.Player.Gems = testGems
		if err := st.UpdateUser(ctx, u); err != nil {
			return nil, false, err
		}
		return u, false, nil
	case !errors.Is(err, store.ErrNotFound):
		return nil, false, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, false, fmt.Errorf("hash password: %w", err)
	}
	p := types.NewPlayer()
	p.Gold = testGold
	p.Gems = testGems
	u = &store.User{Username: username, Email: email, PasswordHash: string(hash), Player: p}
	if err := st.CreateUser(ctx, u); err != nil {
		return nil, false, err
	}
	return u, true, nil
}
