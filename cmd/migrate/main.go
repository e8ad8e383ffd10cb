package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"whatsapp-campaign-engine/internal/config"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Migration models mirror the SQL the repository adapter speaks.

type campaignModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"uniqueIndex;not null"`
	Body      string    `gorm:"not null"`
	CreatedAt time.Time
}

func (campaignModel) TableName() string { return "campaigns" }

type campaignContactModel struct {
	CampaignID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Position   int       `gorm:"primaryKey"`
	RawNumber  string    `gorm:"not null"`
}

func (campaignContactModel) TableName() string { return "campaign_contacts" }

type campaignRunModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	CampaignID uuid.UUID `gorm:"type:uuid;index;not null"`
	Mode       string    `gorm:"not null"`
	StartedAt  time.Time
	FinishedAt time.Time
	Sent       int
	Failed     int
	Skipped    int
}

func (campaignRunModel) TableName() string { return "campaign_runs" }

type ownerModel struct {
	PropertyRef string `gorm:"primaryKey"`
	Name        string `gorm:"not null"`
	Phone       string `gorm:"not null"`
}

func (ownerModel) TableName() string { return "owners" }

func main() {
	conf := config.FromEnv()

	fmt.Println("🔗 Connecting to database...")

	db, err := gorm.Open(postgres.Open(conf.DatabaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		log.Fatalf("❌ Failed to connect: %v", err)
	}

	sqlDB, _ := db.DB()
	if err := sqlDB.Ping(); err != nil {
		log.Fatalf("❌ Failed to ping database: %v", err)
	}

	fmt.Println("✅ Connected to database")
	fmt.Println("🔄 Running migrations...")

	if err := db.AutoMigrate(
		&campaignModel{},
		&campaignContactModel{},
		&campaignRunModel{},
		&ownerModel{},
	); err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}

	fmt.Println("✅ Migration complete!")
	fmt.Println("")
	fmt.Println("📊 Checking tables...")

	var tables []string
	db.Raw("SELECT tablename FROM pg_tables WHERE schemaname = 'public'").Scan(&tables)

	if len(tables) == 0 {
		fmt.Println("⚠️  No tables found")
		os.Exit(1)
	}

	fmt.Println("✅ Tables created:")
	for _, table := range tables {
		fmt.Printf("  - %s\n", table)
	}

	fmt.Println("")
	fmt.Println("🎉 Database ready!")
}
