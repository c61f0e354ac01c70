package services

import (
	"os"
	"testing"

	"wellness/config"
	"wellness/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testDB connects to the Postgres database named by WELLNESS_TEST_DSN,
// migrates it and empties every table. Tests that need it are skipped when
// the variable is unset.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("WELLNESS_TEST_DSN")
	if dsn == "" {
		t.Skip("WELLNESS_TEST_DSN not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if err := config.Migrate(db); err != nil {
		t.Fatal(err)
	}

	for _, m := range []any{
		&models.FoodEntry{},
		&models.ExerciseEntry{},
		&models.WellnessData{},
		&models.FoodItem{},
		&models.ExerciseActivity{},
		&models.Verification{},
		&models.VerificationStatus{},
		&models.UserPreference{},
		&models.UserProfile{},
		&models.User{},
	} {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(m); err != nil {
			t.Fatal(err)
		}
		if err := db.Exec("TRUNCATE TABLE " + stmt.Quote(stmt.Schema.Table) + " RESTART IDENTITY CASCADE").Error; err != nil {
			t.Fatal(err)
		}
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}
