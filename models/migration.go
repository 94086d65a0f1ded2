package models

import (
	"log"

	"github.com/RAGHAVENDRASINGBHAJERI/MIMS-sub001/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&Department{},
		&User{},
		&Asset{}, &AssetItem{},
		&AuditLog{},
		&Notification{},
		&Announcement{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
