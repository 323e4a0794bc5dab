package database

import (
	"path/filepath"
	"testing"

	"socialhub/internal/config"
	"socialhub/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestOpenSQLiteMigrates(t *testing.T) {
	db, err := OpenSQLite("file:migrate?mode=memory&cache=shared")
	require.NoError(t, err)

	for _, table := range []interface{}{&model.User{}, &model.FriendRequest{}, &model.Friendship{}, &model.Message{}} {
		assert.True(t, db.Migrator().HasTable(table))
	}
}

func TestDuplicateKeyIsTranslated(t *testing.T) {
	db, err := OpenSQLite("file:dupkey?mode=memory&cache=shared")
	require.NoError(t, err)

	require.NoError(t, db.Create(&model.User{Username: "alice", Email: "a@x.io", PasswordHash: "h"}).Error)
	err = db.Create(&model.User{Username: "alice", Email: "other@x.io", PasswordHash: "h"}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestOpenFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Database.Driver = config.DriverSQLite
	cfg.Database.SQLite.Path = filepath.Join(t.TempDir(), "social.db")

	db, err := Open(cfg)
	require.NoError(t, err)
	assert.True(t, db.Migrator().HasTable(&model.Friendship{}))

	cfg.Database.Driver = "oracle"
	_, err = Open(cfg)
	assert.Error(t, err)
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, parseLogLevel("silent"))
	assert.Equal(t, gormlogger.Info, parseLogLevel("INFO"))
	assert.Equal(t, gormlogger.Warn, parseLogLevel(""))
}
