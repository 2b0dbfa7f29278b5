package user

import (
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Einzelgaanger/darasa/core"
)

func Test_User_SetPassword(t *testing.T) {
	var usr User
	require.NoError(t, usr.SetPassword("LePassword#123"))
	assert.NotEmpty(t, usr.PasswordHash)

	assert.NoError(t, usr.CheckPassword("LePassword#123"))
	assert.Error(t, usr.CheckPassword("lol"))
}

func Test_User_roles(t *testing.T) {
	admin := User{Roles: []string{RoleAdmin}}
	assert.True(t, admin.IsAdmin())
	assert.False(t, admin.IsStudent())

	both := User{Roles: []string{RoleTeacher, RoleStudent}}
	assert.True(t, both.IsTeacher())
	assert.True(t, both.IsStudent())
	assert.False(t, both.IsAdmin())

	assert.Equal(t, 21, MaxRolePriority([]string{RoleStudent, RoleAdmin}))
	assert.Equal(t, 1, MaxRolePriority([]string{RoleStudent}))
}

func Test_NewUser_Validate_passwordPolicy(t *testing.T) {
	base := NewUser{
		Name:        "Hero Mwangi",
		AdmissionNo: "adm_001",
		Email:       "hero@test.cd",
	}
	withPwd := func(pwd string) NewUser {
		nu := base
		nu.Password = pwd
		nu.PasswordConfirm = pwd
		return nu
	}

	tests := []struct {
		name    string
		nu      NewUser
		wantTag string
	}{
		{name: "valid", nu: withPwd("LePassword#123")},
		{name: "too short", nu: withPwd("lol1234"), wantTag: "pwdminlen"},
		{name: "whitespace", nu: withPwd("le password"), wantTag: "pwdnospace"},
		{name: "all numeric", nu: withPwd("12345678"), wantTag: "pwdnotallnum"},
		{name: "similar to name", nu: withPwd("HeroMwangi"), wantTag: "pwdtoosim"},
		{name: "similar to email", nu: withPwd("hero@test.cd"), wantTag: "pwdtoosim"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := core.Validate.Struct(tt.nu)
			if tt.wantTag == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			vErrs, ok := err.(validator.ValidationErrors)
			require.True(t, ok)

			var tags []string
			for _, vErr := range vErrs {
				tags = append(tags, vErr.Tag())
			}
			assert.Contains(t, tags, tt.wantTag)
		})
	}
}

func Test_NewUser_Validate_roles(t *testing.T) {
	nu := NewUser{
		Name:            "Hero Mwangi",
		AdmissionNo:     "adm_001",
		Password:        "LePassword#123",
		PasswordConfirm: "LePassword#123",
		Roles:           []string{"superuser:"},
	}
	err := core.Validate.Struct(nu)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "allroles"))

	nu.Roles = []string{RoleStudent, RoleTeacher}
	assert.NoError(t, core.Validate.Struct(nu))
}
