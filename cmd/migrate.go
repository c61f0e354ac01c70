package main

import (
	"wellness/config"
	"wellness/models"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply schema migrations and backfill profile defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log, err := config.NewLogger(cfg)
			if err != nil {
				return err
			}
			defer log.Sync()

			db, err := config.InitDB(cfg)
			if err != nil {
				return err
			}
			return backfillProfiles(db, log)
		},
	}
}

// backfillProfiles gives profiles created before height and calorie goal
// existed their default values.
func backfillProfiles(db *gorm.DB, log *zap.Logger) error {
	res := db.Model(&models.UserProfile{}).
		Where("height IS NULL OR height = 0").
		Update("height", 180)
	if res.Error != nil {
		return res.Error
	}
	log.Info("backfilled profile height", zap.Int64("rows", res.RowsAffected))

	res = db.Model(&models.UserProfile{}).
		Where("calorie_goal IS NULL OR calorie_goal = 0").
		Update("calorie_goal", 2000)
	if res.Error != nil {
		return res.Error
	}
	log.Info("backfilled profile calorie goal", zap.Int64("rows", res.RowsAffected))
	return nil
}
