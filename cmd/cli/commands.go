package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"superlists/internal/domain"
	"superlists/internal/service"
)

const usage = `usage: cli <command> [args]

commands:
  migrate              apply database migrations
  pending [limit]      list inactive accounts whose confirmation email was never sent
  resend <profile_id>  send the confirmation email again
  activate <profile_id> activate an account without confirmation
`

// accountOps es lo que la consola de operadores necesita del servicio de cuentas.
type accountOps interface {
	PendingConfirmations(ctx context.Context, limit int) ([]domain.PendingConfirmation, error)
	ResendConfirmation(ctx context.Context, profileID int64) error
	ActivateProfile(ctx context.Context, profileID int64) (domain.User, error)
}

var errUsage = errors.New("invalid arguments")

func runCommand(ctx context.Context, accounts accountOps, args []string, out io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(out, usage)
		return errUsage
	}

	switch args[0] {
	case "pending":
		limit := 50
		if len(args) > 1 {
			n, err := strconv.Atoi(args[1])
			if err != nil || n <= 0 {
				return fmt.Errorf("%w: limit must be a positive integer", errUsage)
			}
			limit = n
		}
		pending, err := accounts.PendingConfirmations(ctx, limit)
		if err != nil {
			return fmt.Errorf("list pending: %w", err)
		}
		if len(pending) == 0 {
			fmt.Fprintln(out, "no pending confirmations")
			return nil
		}
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "PROFILE\tUSERNAME\tEMAIL\tCREATED")
		for _, p := range pending {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", p.ProfileID, p.Username, p.Email, p.CreatedAt.Format("2006-01-02 15:04"))
		}
		return tw.Flush()

	case "resend":
		profileID, err := profileArg(args)
		if err != nil {
			return err
		}
		if err := accounts.ResendConfirmation(ctx, profileID); err != nil {
			if errors.Is(err, service.ErrAlreadyActive) {
				fmt.Fprintf(out, "profile %d is already active\n", profileID)
				return nil
			}
			return fmt.Errorf("resend %d: %w", profileID, err)
		}
		fmt.Fprintf(out, "confirmation sent for profile %d\n", profileID)
		return nil

	case "activate":
		profileID, err := profileArg(args)
		if err != nil {
			return err
		}
		user, err := accounts.ActivateProfile(ctx, profileID)
		if err != nil {
			return fmt.Errorf("activate %d: %w", profileID, err)
		}
		fmt.Fprintf(out, "activated %s\n", user.Username)
		return nil

	default:
		fmt.Fprint(out, usage)
		return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
	}
}

func profileArg(args []string) (int64, error) {
	if len(args) < 2 {
		return 0, fmt.Errorf("%w: %s needs a profile id", errUsage, args[0])
	}
	id, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: profile id must be a positive integer", errUsage)
	}
	return id, nil
}
