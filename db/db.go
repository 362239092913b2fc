package db

import (
	"fmt"
	"log"
	"os"

	"gadgetdesk/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDB() *gorm.DB {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatal("Failed to migrate models: ", err)
	}
	log.Println("Database connected")
	return DB
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.User{}, &models.Gadget{}, &models.Assignment{}, &models.Request{}); err != nil {
		return err
	}

	// 未归还的分配按用户查（用户删除前的占用检查走这里）
	if err := db.Exec(fmt.Sprintf(`
	  CREATE INDEX IF NOT EXISTS %s_open_by_user
	  ON %s (user_id)
	  WHERE NOT returned;
	`, models.AssignmentTable, models.AssignmentTable)).Error; err != nil {
		return err
	}

	// 审批队列按设备查更快
	if err := db.Exec(fmt.Sprintf(`
	  CREATE INDEX IF NOT EXISTS %s_pending_by_gadget
	  ON %s (gadget_id)
	  WHERE status = 'PENDING';
	`, models.RequestTable, models.RequestTable)).Error; err != nil {
		return err
	}

	return nil
}
