package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"superlists/internal/domain"
	"superlists/internal/service"
)

type fakeAccounts struct {
	pending   []domain.PendingConfirmation
	lastLimit int
	resent    []int64
	resendErr error
	activated []int64
}

func (f *fakeAccounts) PendingConfirmations(_ context.Context, limit int) ([]domain.PendingConfirmation, error) {
	f.lastLimit = limit
	return f.pending, nil
}

func (f *fakeAccounts) ResendConfirmation(_ context.Context, profileID int64) error {
	if f.resendErr != nil {
		return f.resendErr
	}
	f.resent = append(f.resent, profileID)
	return nil
}

func (f *fakeAccounts) ActivateProfile(_ context.Context, profileID int64) (domain.User, error) {
	if profileID == 404 {
		return domain.User{}, service.ErrProfileNotFound
	}
	f.activated = append(f.activated, profileID)
	return domain.User{Username: "alice", IsActive: true}, nil
}

func TestRunCommand_Pending(t *testing.T) {
	accounts := &fakeAccounts{pending: []domain.PendingConfirmation{{
		ProfileID: 3,
		Username:  "alice",
		Email:     "alice@x.com",
		CreatedAt: time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC),
	}}}
	var out bytes.Buffer

	require.NoError(t, runCommand(context.Background(), accounts, []string{"pending", "10"}, &out))
	assert.Equal(t, 10, accounts.lastLimit)
	assert.Contains(t, out.String(), "alice@x.com")
	assert.Contains(t, out.String(), "2024-05-01 10:30")
}

func TestRunCommand_PendingEmpty(t *testing.T) {
	var out bytes.Buffer
	accounts := &fakeAccounts{}

	require.NoError(t, runCommand(context.Background(), accounts, []string{"pending"}, &out))
	assert.Equal(t, 50, accounts.lastLimit)
	assert.Equal(t, "no pending confirmations\n", out.String())
}

func TestRunCommand_Resend(t *testing.T) {
	var out bytes.Buffer
	accounts := &fakeAccounts{}

	require.NoError(t, runCommand(context.Background(), accounts, []string{"resend", "7"}, &out))
	assert.Equal(t, []int64{7}, accounts.resent)

	out.Reset()
	accounts.resendErr = service.ErrAlreadyActive
	require.NoError(t, runCommand(context.Background(), accounts, []string{"resend", "7"}, &out))
	assert.Contains(t, out.String(), "already active")

	accounts.resendErr = &service.DispatchError{ProfileID: 7, Err: errors.New("smtp down")}
	err := runCommand(context.Background(), accounts, []string{"resend", "7"}, &out)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "smtp down"))
}

func TestRunCommand_Activate(t *testing.T) {
	var out bytes.Buffer
	accounts := &fakeAccounts{}

	require.NoError(t, runCommand(context.Background(), accounts, []string{"activate", "3"}, &out))
	assert.Equal(t, "activated alice\n", out.String())

	err := runCommand(context.Background(), accounts, []string{"activate", "404"}, &out)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestRunCommand_BadArguments(t *testing.T) {
	accounts := &fakeAccounts{}

	for _, args := range [][]string{
		nil,
		{"resend"},
		{"resend", "abc"},
		{"activate", "-1"},
		{"pending", "0"},
		{"explode"},
	} {
		var out bytes.Buffer
		err := runCommand(context.Background(), accounts, args, &out)
		assert.ErrorIs(t, err, errUsage, "args %v", args)
	}
	assert.Empty(t, accounts.resent)
	assert.Empty(t, accounts.activated)
}
