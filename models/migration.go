package models

import (
	"log"

	"bitbucket.org/mmdatafocus/venues_backend/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&Org{}, &Venue{}, &User{},
		&DailySales{},
		&CashEnvelope{}, &CashEnvelopeTransaction{},
		&Sku{}, &InventoryCount{},
		&StaffingTarget{}, &RoleWage{}, &Shift{},
		&GrowthGoal{},
		&PurchaseOrder{}, &PurchaseOrderLine{},
		&AIInsight{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
