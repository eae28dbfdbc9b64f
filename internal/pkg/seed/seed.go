package seed

import (
	"log"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"lingohub_backend/app/models"
	"lingohub_backend/internal/pkg/tiers"
)

// SeedTiers writes the canonical tier catalog into the tiers table. Existing
// rows are updated in place so price adjustments ship with a deploy; names
// and ranks never change.
func SeedTiers(db *gorm.DB) error {
	for _, def := range tiers.Definitions() {
		row := models.Tier{
			Name:              def.Name,
			DisplayName:       def.DisplayName,
			PriceMonthlyCents: def.PriceMonthlyCents,
			PriceYearlyCents:  def.PriceYearlyCents,
			Features:          datatypes.NewJSONType(def.Features),
			OrderRank:         tiers.OrderRank(def.Name),
		}

		var existing models.Tier
		err := db.Where("name = ?", def.Name).First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			if err := db.Create(&row).Error; err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}

		row.ID = existing.ID
		if err := db.Save(&row).Error; err != nil {
			return err
		}
	}

	log.Println("Tier catalog seeded")
	return nil
}
