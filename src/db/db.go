package db

import (
	"log"
	"os"
	"strconv"
	"time"

	"rcm/src/config"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var db *gorm.DB

func GetDb() *gorm.DB {
	if db != nil {
		return db
	}
	_db, err := gorm.Open(postgres.Open(config.GetDSN()), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		log.Printf("Error connecting to database: %s\n", err.Error())
		panic(err)
	}
	sqlDB, err := _db.DB()
	if err != nil {
		log.Fatalf("Error establishing connection to database: %s\n", err.Error())
	}
	sqlDB.SetMaxIdleConns(poolSetting("DATABASE_MAX_IDLE_CONNS", 10))
	sqlDB.SetMaxOpenConns(poolSetting("DATABASE_MAX_OPEN_CONNS", 100))
	sqlDB.SetConnMaxLifetime(time.Hour)

	db = _db
	return _db
}

func poolSetting(name string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(name))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

// NewDB swaps the singleton, used by tests to point the API at a throwaway
// database.
func NewDB(newdb *gorm.DB) {
	db = newdb
}
