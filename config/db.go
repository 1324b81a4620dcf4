package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"marina-backend/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func envOrDefault(key, def string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	return value
}

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	user := u.User.Username()
	pass, _ := u.User.Password()
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("mysql url missing database name")
	}

	q := u.Query()
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "True")
	}
	if q.Get("loc") == "" {
		q.Set("loc", "UTC")
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass, host, port, dbName, q.Encode()), nil
}

func resolveMySQLDSN() (string, error) {
	raw := strings.TrimSpace(os.Getenv("MYSQL_URL"))
	if raw == "" {
		raw = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}

	if raw != "" {
		if strings.HasPrefix(raw, "mysql://") {
			return mysqlDSNFromURL(raw)
		}
		return raw, nil
	}

	user := envOrDefault("DB_USER", "root")
	pass := envOrDefault("DB_PASS", "")
	host := envOrDefault("DB_HOST", "127.0.0.1")
	port := envOrDefault("DB_PORT", "3306")
	dbName := envOrDefault("DB_NAME", "marina_db")

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		user, pass, host, port, dbName,
	), nil
}

// SeedDatabase creates a default owner account, a few slips and demo coupons
// so a fresh install is immediately bookable.
func SeedDatabase() {
	var ownerCount int64
	DB.Model(&models.Owner{}).Count(&ownerCount)
	if ownerCount == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte(envOrDefault("SEED_OWNER_PASSWORD", "harbor123")), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("warning: failed to hash default owner password: %v", err)
		} else {
			owner := models.Owner{
				FullName: "Harbor Master",
				Email:    "owner@marina.local",
				Password: string(hash),
			}
			if err := DB.Create(&owner).Error; err != nil {
				log.Printf("warning: failed to create default owner: %v", err)
			} else {
				log.Println("Default owner seeded")
			}
		}
	}

	var slipCount int64
	DB.Model(&models.Slip{}).Count(&slipCount)
	if slipCount == 0 {
		var owner models.Owner
		if err := DB.First(&owner).Error; err == nil {
			slips := []models.Slip{
				{OwnerID: owner.ID, SlipNumber: "A-01", DailyRate: decimal.NewFromInt(100), MaxLengthFt: 30, ShorePower: true, Active: true},
				{OwnerID: owner.ID, SlipNumber: "A-02", DailyRate: decimal.NewFromInt(120), MaxLengthFt: 36, ShorePower: true, Active: true},
				{OwnerID: owner.ID, SlipNumber: "B-01", DailyRate: decimal.NewFromInt(85), MaxLengthFt: 24, ShorePower: false, Active: true},
			}
			if err := DB.Create(&slips).Error; err != nil {
				log.Printf("warning: failed to seed slips: %v", err)
			} else {
				log.Println("Slips seeded")
			}
		}
	}

	var couponCount int64
	DB.Model(&models.Coupon{}).Count(&couponCount)
	if couponCount == 0 {
		amountOff := decimal.NewFromInt(50)
		percentOff := decimal.NewFromInt(10)
		coupons := []models.Coupon{
			{Code: "WELCOME50", AmountOff: &amountOff, Active: true},
			{Code: "SEASON10", PercentOff: &percentOff, Active: true},
		}
		if err := DB.Create(&coupons).Error; err != nil {
			log.Printf("warning: failed to seed coupons: %v", err)
		} else {
			log.Println("Coupons seeded")
		}
	}
}

func ConnectDatabase() error {
	dsn, err := resolveMySQLDSN()
	if err != nil {
		return err
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Warn,
			Colorful:      true,
		},
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: newLogger})
	if err != nil {
		return err
	}

	DB = db

	// AutoMigrate in parent->child order
	if err := DB.AutoMigrate(
		&models.Owner{},
		&models.Customer{},
		&models.Slip{},
		&models.Coupon{},
		&models.Booking{},
		&models.CancellationRequest{},
	); err != nil {
		return err
	}

	SeedDatabase()
	return nil
}
