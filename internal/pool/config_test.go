// Copyright (c) 2026 gqlsql. All rights reserved.

package pool

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDSNIncludesSSLModeAndApplicationName(t *testing.T) {
	cfg := Config{
		Host: "db.internal", Port: 5432, Database: "app", Username: "svc", Password: "secret",
		SSLMode: SSLRequire, ApplicationName: "gqlsql-test",
	}
	dsn := cfg.DSN()
	assert.Contains(t, dsn, "db.internal:5432")
	assert.Contains(t, dsn, "sslmode=require")
	assert.Contains(t, dsn, "application_name=gqlsql-test")
	assert.Contains(t, dsn, "postgres://svc:secret@")
}
