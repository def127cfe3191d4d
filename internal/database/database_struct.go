package database

import "gorm.io/gorm"

type Database struct {
	db *gorm.DB
}

func NewDatabase(db *gorm.DB) *Database {
	return &Database{db: db}
}

// DB отдаёт gorm-соединение для health-check и тестов
func (d *Database) DB() *gorm.DB {
	return d.db
}
