package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsStrongPassword(t *testing.T) {
	tests := []struct {
		password string
		want     bool
	}{
		{"Secret1!", true},
		{"LongerPassw0rd&", true},
		{"Short1!", false},
		{"alllower1!", false},
		{"NoDigits!!", false},
		{"NoSpecial12", false},
		{"Has Space1!", false},
		{"Unicodé1!A", false},
		{"Bad#Char1A", false},
	}
	for _, tc := range tests {
		t.Run(tc.password, func(t *testing.T) {
			assert.Equal(t, tc.want, IsStrongPassword(tc.password))
		})
	}
}

func TestValidateRegistration(t *testing.T) {
	v := NewValidator()

	t.Run("valid", func(t *testing.T) {
		assert.Empty(t, v.ValidateRegistration("Ada", "ada@example.com", "Secret1!", "Secret1!"))
	})

	t.Run("mismatch is reported before strength", func(t *testing.T) {
		errs := v.ValidateRegistration("Ada", "ada@example.com", "weak", "other")
		require.Len(t, errs, 1)
		assert.Equal(t, "confirm_password", errs[0].Field)
		assert.Equal(t, "Passwords do not match.", errs[0].Message)
	})

	t.Run("weak password", func(t *testing.T) {
		errs := v.ValidateRegistration("Ada", "ada@example.com", "weakpass", "weakpass")
		require.Len(t, errs, 1)
		assert.Equal(t, "password", errs[0].Field)
		assert.Contains(t, errs[0].Message, "At least 8 characters")
	})

	t.Run("missing name", func(t *testing.T) {
		errs := v.ValidateRegistration(" ", "ada@example.com", "Secret1!", "Secret1!")
		require.Len(t, errs, 1)
		assert.Equal(t, "name", errs[0].Field)
	})

	t.Run("bad email", func(t *testing.T) {
		errs := v.ValidateRegistration("Ada", "not-an-email", "Secret1!", "Secret1!")
		require.Len(t, errs, 1)
		assert.Equal(t, "email", errs[0].Field)
	})
}

func TestValidatePasswordReset(t *testing.T) {
	v := NewValidator()

	assert.Empty(t, v.ValidatePasswordReset("tok", "Secret1!", "Secret1!"))

	errs := v.ValidatePasswordReset("tok", "a", "b")
	require.Len(t, errs, 1)
	assert.Equal(t, "Passwords do not match.", errs[0].Message)

	errs = v.ValidatePasswordReset("", "Secret1!", "Secret1!")
	require.Len(t, errs, 1)
	assert.Equal(t, "Invalid or missing reset token.", errs[0].Message)
}

func TestValidateLoginAndQuestion(t *testing.T) {
	v := NewValidator()

	assert.Len(t, v.ValidateLogin("", ""), 2)
	assert.Empty(t, v.ValidateLogin("a@b.c", "pw"))
	assert.Len(t, v.ValidateQuestion("   "), 1)
	assert.Empty(t, v.ValidateQuestion("What is a mitochondrion?"))
}
