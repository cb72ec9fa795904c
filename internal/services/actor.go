package services

import (
	"github.com/localnerve/orgportal/internal/database"
	"github.com/localnerve/orgportal/internal/models"
	"github.com/localnerve/orgportal/internal/types"
	"gorm.io/gorm"
	"gorm.io/hints"
)

// Actor is the authenticated member an operation runs on behalf of
type Actor struct {
	ID   uint64
	Role models.Role
}

// IsOfficer reports whether the actor may administer the portal
func (a Actor) IsOfficer() bool {
	return a.Role == models.RoleOfficer
}

func requireOfficer(actor Actor) error {
	if !actor.IsOfficer() {
		return types.NewForbiddenError("This action is restricted to officers.")
	}
	return nil
}

// tagged marks read queries with the operation name so they can be found in
// the slow query log
func tagged(db *gorm.DB, operation string) *gorm.DB {
	return db.Clauses(hints.Comment("select", "orgportal:"+operation))
}

// byOrder sorts children on their order key, breaking ties by id
func byOrder(db *gorm.DB) *gorm.DB {
	return db.Order("sort_order ASC").Order("id ASC")
}

// findOr404 loads dest by primary key, mapping a missing row to a 404
func findOr404(db *gorm.DB, dest interface{}, id uint64, what string) error {
	if err := db.First(dest, id).Error; err != nil {
		if database.IsNotFound(err) {
			return types.NewNotFoundError(what + " not found")
		}
		return err
	}
	return nil
}
