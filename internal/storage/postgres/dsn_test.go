package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pinmark/pinmark-backend/config"
)

func TestDSN(t *testing.T) {
	cfg := &config.DatabaseConfig{Host: "db", Port: 5433, User: "u", Password: "p", Name: "pinmark"}
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=pinmark sslmode=disable", DSN(cfg))
	assert.Equal(t, "postgres://u:p@db:5433/pinmark?sslmode=disable", URL(cfg))

	cfg.DSN = "postgres://x@y/z"
	assert.Equal(t, "postgres://x@y/z", DSN(cfg))
	assert.Equal(t, "postgres://x@y/z", URL(cfg))
}
