package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "jwt")
	t.Setenv("PASSWORD_HASH_SECRET", "pepper")
	t.Setenv("BUCKET", "blog-march")
	t.Setenv("REGION", "ap-south-1")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ProEnv, cfg.Env)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "jwt", cfg.Token.Secret)
	assert.Equal(t, 7*24*time.Hour, cfg.Token.TTL)
	assert.Equal(t, "pepper", cfg.Password.Secret)
	assert.Equal(t, "hmac", cfg.Password.Scheme)
	assert.Equal(t, "dynamodb", cfg.Storage.Driver)
	assert.Equal(t, "posts", cfg.Storage.PostTable)
	assert.Equal(t, "users", cfg.Storage.UserTable)
	assert.Equal(t, "blog-march", cfg.Blob.Bucket)
	assert.Equal(t, "ap-south-1", cfg.Blob.Region)
	assert.Equal(t, "s3", cfg.Blob.Driver)
	assert.Empty(t, cfg.Server.Address)
	assert.False(t, cfg.SignupAllowOverwrite)
	assert.True(t, cfg.SignupOpen())
}

func TestSignupOpen(t *testing.T) {
	setRequired(t)
	t.Setenv("ENABLE_SIGNUP", "false")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.SignupOpen())

	t.Setenv("ENV", "dev")
	cfg, err = Load()
	require.NoError(t, err)
	assert.True(t, cfg.SignupOpen(), "signup is always open in dev")
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("ENV", "dev")
	t.Setenv("TOKEN_TTL", "0s")
	t.Setenv("PASSWORD_SCHEME", "bcrypt")
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("POST_TABLE", "blog-posts")
	t.Setenv("SIGNUP_ALLOW_OVERWRITE", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DevEnv, cfg.Env)
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Zero(t, cfg.Token.TTL)
	assert.Equal(t, "bcrypt", cfg.Password.Scheme)
	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	assert.Equal(t, "blog-posts", cfg.Storage.PostTable)
	assert.True(t, cfg.SignupAllowOverwrite)
}

func TestLoadRequiresSecrets(t *testing.T) {
	for _, missing := range []string{"JWT_SECRET_KEY", "PASSWORD_HASH_SECRET", "BUCKET", "REGION"} {
		t.Run(missing, func(t *testing.T) {
			setRequired(t)
			t.Setenv(missing, "")

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), missing)
		})
	}
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	setRequired(t)
	t.Setenv("STORE_DRIVER", "mongo")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORE_DRIVER")
}
