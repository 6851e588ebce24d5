package session

import (
	"os"
	"strings"
	"time"

	"plmgate/bizerror"
	"plmgate/idgen"

	"github.com/google/uuid"
	"github.com/sony/sonyflake"
)

type LoginRequest struct {
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type Account struct {
	Name     string
	Password string
	Admin    bool
}

var (
	identityIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	LoginFunc  = Login
	LogoutFunc = Logout
)

// ParseAccountsFromEnv FACADE_ACCOUNTS=name:password[:admin],...
func ParseAccountsFromEnv() []Account {
	var accounts []Account
	for _, entry := range strings.Split(os.Getenv("FACADE_ACCOUNTS"), ",") {
		parts := strings.Split(strings.TrimSpace(entry), ":")
		if len(parts) < 2 || parts[0] == "" {
			continue
		}
		accounts = append(accounts, Account{
			Name:     parts[0],
			Password: parts[1],
			Admin:    len(parts) > 2 && parts[2] == "admin",
		})
	}
	return accounts
}

func Login(req LoginRequest) (*Context, error) {
	for _, account := range ParseAccountsFromEnv() {
		if account.Name != req.Name || account.Password != req.Password {
			continue
		}
		perms := Permissions{}
		if account.Admin {
			perms = append(perms, AdminPermission)
		}
		secCtx := &Context{
			Token:       uuid.New().String(),
			Identity:    Identity{ID: idgen.NextID(identityIdWorker), Name: account.Name},
			Perms:       perms,
			SigningTime: time.Now(),
		}
		TokenCache.Set(secCtx.Token, secCtx, TokenExpiration)
		return secCtx, nil
	}
	return nil, bizerror.ErrUnauthenticated
}

func Logout(token string) {
	TokenCache.Delete(token)
}
