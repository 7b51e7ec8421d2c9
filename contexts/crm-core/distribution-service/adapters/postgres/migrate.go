package postgresadapter

import "gorm.io/gorm"

// AutoMigrate creates or updates the module's five tables. The unique index
// on leads.external_id backs the concurrent lead-create strategy and must
// exist before traffic is served.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&operatorModel{},
		&sourceModel{},
		&weightConfigModel{},
		&leadModel{},
		&contactModel{},
	)
}
