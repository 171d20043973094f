package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccount(t *testing.T) {
	assert.Nil(t, Account("testuser@example.com", "testpassword"))
	assert.Nil(t, Account("joao.silva+ops@plant-7.example.org", "x"))

	errs := Account("", "")
	assert.Equal(t, []string{"This field is required."}, errs[FieldUsername])
	assert.Equal(t, []string{"This field is required."}, errs[FieldPassword])

	errs = Account("   ", "   ")
	assert.Equal(t, []string{"This field may not be blank."}, errs[FieldUsername])
	assert.Equal(t, []string{"This field may not be blank."}, errs[FieldPassword])

	errs = Account("has space", "pw")
	assert.Contains(t, errs[FieldUsername][0], "Enter a valid username")

	errs = Account(strings.Repeat("u", 151)+"@example.com", strings.Repeat("p", 129))
	assert.Equal(t, []string{"Ensure this field has no more than 150 characters."}, errs[FieldUsername])
	assert.Equal(t, []string{"Ensure this field has no more than 128 characters."}, errs[FieldPassword])
	assert.NotContains(t, errs, FieldEmail)

	assert.Nil(t, Account("long@example.com", strings.Repeat("p", 128)))
}

func TestAccountRequiresEmail(t *testing.T) {
	for _, u := range []string{"dave", "not-an-email", "dave@localhost", "dave@example.", "@example.com", "dave@@example.com"} {
		errs := Account(u, "pw")
		assert.Equal(t, []string{"Enter a valid email address."}, errs[FieldEmail], u)
		assert.NotContains(t, errs, FieldUsername, u)
	}

	long := strings.Repeat("a", 64) + "@" + strings.Repeat("b", 190) + ".com"
	errs := Account(long, "pw")
	assert.Equal(t, []string{"Ensure this field has no more than 254 characters."}, errs[FieldEmail])
}

func TestCredentials(t *testing.T) {
	assert.Nil(t, Credentials("user", "pw"))

	errs := Credentials(" ", "")
	assert.Len(t, errs, 2)

	assert.Nil(t, RefreshToken("abc"))
	assert.Equal(t, []string{"This field is required."}, RefreshToken("")[FieldRefresh])
}
