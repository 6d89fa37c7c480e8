package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterInputNormalized(t *testing.T) {
	in := RegisterInput{
		Username:        "  alice ",
		Email:           " Alice@Example.COM ",
		Password:        " secret1 ",
		ConfirmPassword: "secret1  ",
	}.normalized()

	assert.Equal(t, "alice", in.Username)
	assert.Equal(t, "alice@example.com", in.Email)
	assert.Equal(t, "secret1", in.Password)
	assert.Equal(t, "secret1", in.ConfirmPassword)
}

func TestValidateFields(t *testing.T) {
	tests := []struct {
		name string
		in   RegisterInput
		want []FieldError
	}{
		{
			name: "valid",
			in:   RegisterInput{Username: "alice", Email: "alice@x.com", Password: "secret1", ConfirmPassword: "secret1"},
		},
		{
			name: "short username",
			in:   RegisterInput{Username: "abc", Email: "alice@x.com", Password: "secret1", ConfirmPassword: "secret1"},
			want: []FieldError{{Field: "username", Reason: ReasonMinLength}},
		},
		{
			name: "four char username is enough",
			in:   RegisterInput{Username: "abcd", Email: "alice@x.com", Password: "secret1", ConfirmPassword: "secret1"},
		},
		{
			name: "bad email",
			in:   RegisterInput{Username: "alice", Email: "alice", Password: "secret1", ConfirmPassword: "secret1"},
			want: []FieldError{{Field: "email", Reason: ReasonInvalidEmail}},
		},
		{
			name: "short passwords",
			in:   RegisterInput{Username: "alice", Email: "alice@x.com", Password: "12345", ConfirmPassword: "123"},
			want: []FieldError{
				{Field: "password", Reason: ReasonMinLength},
				{Field: "confirm_password", Reason: ReasonMinLength},
			},
		},
		{
			name: "password over bcrypt limit",
			in: RegisterInput{
				Username:        "alice",
				Email:           "alice@x.com",
				Password:        strings.Repeat("p", 80),
				ConfirmPassword: strings.Repeat("p", 80),
			},
			want: []FieldError{
				{Field: "password", Reason: ReasonMaxLength},
				{Field: "confirm_password", Reason: ReasonMaxLength},
			},
		},
		{
			name: "seventy two bytes is enough",
			in: RegisterInput{
				Username:        "alice",
				Email:           "alice@x.com",
				Password:        strings.Repeat("p", 72),
				ConfirmPassword: strings.Repeat("p", 72),
			},
		},
		{
			name: "multibyte password counted in bytes",
			in: RegisterInput{
				Username:        "alice",
				Email:           "alice@x.com",
				Password:        strings.Repeat("ñ", 40),
				ConfirmPassword: strings.Repeat("ñ", 36),
			},
			want: []FieldError{{Field: "password", Reason: ReasonMaxLength}},
		},
		{
			name: "all empty",
			in:   RegisterInput{},
			want: []FieldError{
				{Field: "username", Reason: ReasonRequired},
				{Field: "email", Reason: ReasonRequired},
				{Field: "password", Reason: ReasonRequired},
				{Field: "confirm_password", Reason: ReasonRequired},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := validateFields(tt.in)
			if len(tt.want) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidationErrorHelpers(t *testing.T) {
	verr := &ValidationError{Errors: []FieldError{
		{Field: "username", Reason: ReasonMinLength},
		{Field: "email", Reason: ReasonInvalidEmail},
	}}

	assert.True(t, verr.Has("username"))
	assert.False(t, verr.Has("password"))
	assert.Equal(t, map[string][]string{
		"username": {ReasonMinLength},
		"email":    {ReasonInvalidEmail},
	}, verr.ByField())
	assert.Equal(t, "validation failed: username: min_length, email: invalid_email", verr.Error())
}

func TestRegisterFormRules(t *testing.T) {
	rules := RegisterFormRules()
	require.Len(t, rules, 4)
	assert.Equal(t, "username", rules[0].Name)
	assert.Equal(t, 4, rules[0].MinLength)
	assert.Equal(t, "email", rules[1].Type)
	assert.Equal(t, 6, rules[2].MinLength)
	assert.Equal(t, MaxPasswordBytes, rules[2].MaxBytes)
	assert.Equal(t, MaxPasswordBytes, rules[3].MaxBytes)
}

func TestConfirmationCode(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 20; i++ {
		code, err := generateConfirmationCode()
		require.NoError(t, err)
		require.Len(t, code, 32)
		for _, r := range code {
			assert.Contains(t, confirmationAlphabet, string(r))
		}
		seen[code] = struct{}{}
	}
	assert.Len(t, seen, 20)

	assert.True(t, codesEqual("abc", "abc"))
	assert.False(t, codesEqual("abc", "abd"))
	assert.False(t, codesEqual("abc", ""))
}
