package cmd

import (
	"errors"
	"fmt"

	"musiclib/config"
	"musiclib/core/auth"
	"musiclib/db"
	"musiclib/logger"
	"musiclib/model"

	"github.com/spf13/cobra"
)

var (
	tokenUserID   int64
	tokenUsername string
	tokenSeed     bool
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a bearer token for local development",
	Long: `Sign a bearer token with JWT_SECRET for the given user. With --seed the user
row is created first if it does not exist, so entries created with the token
satisfy the owner foreign key.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup()
		if err != nil {
			return err
		}
		defer logger.Sync()

		tokens, err := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
		if err != nil {
			return fmt.Errorf("JWT_SECRET: %w", err)
		}

		caller := auth.Caller{UserID: tokenUserID, Username: tokenUsername}
		if tokenSeed {
			if caller, err = seedUser(cfg, tokenUsername); err != nil {
				return err
			}
		}
		if caller.UserID <= 0 {
			return errors.New("--user-id must be positive, or use --seed")
		}

		signed, err := tokens.GenerateToken(caller)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), signed)
		return nil
	},
}

func seedUser(cfg *config.Config, username string) (auth.Caller, error) {
	gdb, err := db.ConnectGormDB(cfg)
	if err != nil {
		return auth.Caller{}, err
	}
	defer db.CloseGormDB(gdb)

	if err := db.AutoMigrate(gdb); err != nil {
		return auth.Caller{}, err
	}

	user := model.User{Username: username}
	if err := gdb.Where(model.User{Username: username}).FirstOrCreate(&user).Error; err != nil {
		return auth.Caller{}, fmt.Errorf("failed to seed user %s: %w", username, err)
	}
	logger.Info("dev user ready", logger.Int64("userId", user.ID), logger.String("username", user.Username))
	return auth.Caller{UserID: user.ID, Username: user.Username}, nil
}

func init() {
	rootCmd.AddCommand(tokenCmd)

	tokenCmd.Flags().Int64Var(&tokenUserID, "user-id", 0, "user id to put in the token")
	tokenCmd.Flags().StringVarP(&tokenUsername, "username", "u", "dev", "username to put in the token")
	tokenCmd.Flags().BoolVar(&tokenSeed, "seed", false, "create the user row if missing and use its id")

	tokenCmd.Example = `  # token for an existing user
  musiclib token --user-id 1 -u alice

  # create the user if needed and print a token for it
  musiclib token --seed -u alice`
}
