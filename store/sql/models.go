package sqlstore

import (
	"time"

	"github.com/uptrace/bun"
)

type clientRecord struct {
	bun.BaseModel `bun:"table:oauth_clients,alias:oc"`

	ID           string    `bun:"id,pk"`
	ClientID     string    `bun:"client_id,notnull"`
	ClientSecret string    `bun:"client_secret"`
	GrantTypes   string    `bun:"grant_types"`
	RedirectURI  string    `bun:"redirect_uri"`
	CreatedAt    time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt    time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

type publicKeyRecord struct {
	bun.BaseModel `bun:"table:oauth_public_keys,alias:opk"`

	ID                  string    `bun:"id,pk"`
	ClientID            string    `bun:"client_id,notnull"`
	PublicKey           string    `bun:"public_key,notnull"`
	EncryptionAlgorithm string    `bun:"encryption_algorithm,notnull"`
	CreatedAt           time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

type accessTokenRecord struct {
	bun.BaseModel `bun:"table:oauth_access_tokens,alias:oat"`

	ID        string    `bun:"id,pk"`
	Token     string    `bun:"token,notnull"`
	ClientID  string    `bun:"client_id,notnull"`
	UserID    int64     `bun:"user_id,notnull"`
	ExpiresAt time.Time `bun:"expires_at,notnull"`
	Scope     string    `bun:"scope"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

type userRecord struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID        int64     `bun:"id,pk,autoincrement"`
	Email     string    `bun:"email,notnull"`
	Password  string    `bun:"password,notnull"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}
