package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigString(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		assert.Equal(t, "host=127.0.0.1 dbname=postgres port=5432 sslmode=prefer", Config{}.String())
	})
	t.Run("credentials", func(t *testing.T) {
		conf := Config{Host: "db", Port: "6432", User: "ton", Password: "secret", DBName: "ton20", SSLMode: "disable"}
		assert.Equal(t, "host=db dbname=ton20 port=6432 sslmode=disable user=ton password=secret", conf.String())
	})
	t.Run("url wins", func(t *testing.T) {
		conf := Config{Host: "db", URL: "postgres://localhost:5432/ton20"}
		assert.Equal(t, "postgres://localhost:5432/ton20", conf.String())
	})
}
