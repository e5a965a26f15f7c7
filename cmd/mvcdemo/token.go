package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/mvc/core/rememberme"
)

func newTokenCmd() *cobra.Command {
	var (
		userID int64
		secret string
		decode string
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Encode or decode a remember-me cookie value",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if decode != "" {
				id, s, err := rememberme.DecodeToken(decode)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "user=%d secret=%s\n", id, s)
				return err
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), rememberme.EncodeToken(userID, secret))
			return err
		},
	}
	cmd.Flags().Int64Var(&userID, "user", 0, "user id")
	cmd.Flags().StringVar(&secret, "secret", "", "remember-me secret")
	cmd.Flags().StringVar(&decode, "decode", "", "token to decode instead of encoding")
	return cmd
}
