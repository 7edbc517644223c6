package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseOptions(t *testing.T) {
	t.Setenv("MYSQL_PWD", "from-env")
	config, options := parseOptions([]string{"-u", "app", "-P", "3307", "--ssl-mode", "REQUIRED", "--down", "shop"})

	assert.Equal(t, "shop", config.DbName)
	assert.Equal(t, "app", config.User)
	assert.Equal(t, "from-env", config.Password)
	assert.Equal(t, "127.0.0.1", config.Host)
	assert.Equal(t, 3307, config.Port)
	assert.Equal(t, "true", config.SslMode)
	assert.True(t, options.Down)
}

func TestMysqlSslMode(t *testing.T) {
	tests := []struct {
		mode     string
		expected string
		ok       bool
	}{
		{"DISABLED", "false", true},
		{"preferred", "preferred", true},
		{"Required", "true", true},
		{"CUSTOM", "custom", true},
		{"verify", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			mode, ok := mysqlSslMode(tt.mode)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, mode)
		})
	}
}
