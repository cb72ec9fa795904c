// inspect_schema prints the DDL that AutoMigrate produces for every model,
// indexes included, using an in-memory sqlite database.
package main

import (
	"fmt"
	"log"

	puresqlite "github.com/glebarez/sqlite"
	"github.com/localnerve/orgportal/internal/models"
	"gorm.io/gorm"
)

func main() {
	db, err := gorm.Open(puresqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		log.Fatal(err)
	}

	if err := db.AutoMigrate(models.All()...); err != nil {
		log.Fatal(err)
	}

	var tables []string
	db.Raw("SELECT name FROM sqlite_master WHERE type = 'table' ORDER BY name").Scan(&tables)

	for _, table := range tables {
		fmt.Printf("\n=== Table: %s ===\n", table)
		var ddl []string
		db.Raw("SELECT sql FROM sqlite_master WHERE tbl_name = ? AND sql IS NOT NULL ORDER BY type DESC, name", table).Scan(&ddl)
		for _, stmt := range ddl {
			fmt.Println(stmt + ";")
		}
	}
}
