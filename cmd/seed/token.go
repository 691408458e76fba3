package main

import (
	"fmt"
	"time"

	appctx "hermes/internal/core/context"
	"hermes/internal/domain/auth"
)

// TokenCmd prints an access token signed with JWT_SECRET.
type TokenCmd struct {
	Subject  string        `help:"Subject identifier." required:""`
	Username string        `help:"Preferred username."`
	Realm    string        `help:"Realm claim." env:"KEYCLOAK_REALM"`
	Admin    bool          `help:"Grant the admin role."`
	Roles    []string      `help:"Additional roles, e.g. directory-editor."`
	TTL      time.Duration `help:"Token lifetime." default:"1h"`
	Secret   string        `help:"JWT signing secret." required:"" env:"JWT_SECRET"`
	Issuer   string        `help:"JWT issuer." default:"hermes" env:"JWT_ISSUER"`
}

func (t *TokenCmd) Run() error {
	svc := auth.NewJWTService(auth.JWTConfig{
		Secret:         t.Secret,
		Issuer:         t.Issuer,
		AccessTokenTTL: t.TTL,
	})

	token, _, err := svc.GenerateAccessToken(appctx.UserContext{
		UserID:   t.Subject,
		Username: t.Username,
		Realm:    t.Realm,
		Roles:    t.Roles,
		IsAdmin:  t.Admin,
	})
	if err != nil {
		return err
	}

	fmt.Println(token)
	return nil
}
