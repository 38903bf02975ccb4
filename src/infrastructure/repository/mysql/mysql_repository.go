package mysql

import (
	"fmt"
	"os"
	"strings"

	logger "dispatch-ledger-api/src/infrastructure/logger"
	"dispatch-ledger-api/src/infrastructure/repository/mysql/batch"
	"dispatch-ledger-api/src/infrastructure/repository/mysql/counter"
	"dispatch-ledger-api/src/infrastructure/repository/mysql/group"
	"dispatch-ledger-api/src/infrastructure/repository/mysql/notification"
	"dispatch-ledger-api/src/infrastructure/repository/mysql/template"
	"dispatch-ledger-api/src/infrastructure/repository/mysql/treasury"
	"dispatch-ledger-api/src/infrastructure/repository/mysql/user"
	"dispatch-ledger-api/src/infrastructure/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// loadDatabaseConfig loads database configuration from environment variables
// Returns error if any required environment variable is missing
func loadDatabaseConfig() (DatabaseConfig, error) {
	driver := utils.GetEnv("DB_DRIVER", "mysql")
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")
	sslMode := utils.GetEnv("DB_SSLMODE", "disable")

	var missingVars []string
	if host == "" {
		missingVars = append(missingVars, "DB_HOST")
	}
	if port == "" {
		missingVars = append(missingVars, "DB_PORT")
	}
	if dbUser == "" {
		missingVars = append(missingVars, "DB_USER")
	}
	if password == "" {
		missingVars = append(missingVars, "DB_PASSWORD")
	}
	if dbName == "" {
		missingVars = append(missingVars, "DB_NAME")
	}

	if len(missingVars) > 0 {
		return DatabaseConfig{}, fmt.Errorf("missing required database environment variables: %s", strings.Join(missingVars, ", "))
	}

	if driver != "mysql" && driver != "postgres" {
		return DatabaseConfig{}, fmt.Errorf("unsupported DB_DRIVER %q (expected mysql or postgres)", driver)
	}

	return DatabaseConfig{
		Driver:   driver,
		Host:     host,
		Port:     port,
		User:     dbUser,
		Password: password,
		DBName:   dbName,
		SSLMode:  sslMode,
	}, nil
}

type LedgerRepository struct {
	DB     *gorm.DB
	Logger *logger.Logger
}

func NewRepository(db *gorm.DB, loggerInstance *logger.Logger) *LedgerRepository {
	return &LedgerRepository{
		DB:     db,
		Logger: loggerInstance,
	}
}

func (c DatabaseConfig) GetDSN() string {
	if c.Driver == "postgres" {
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			c.Host,
			c.Port,
			c.User,
			c.Password,
			c.DBName,
			c.SSLMode)
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.DBName)
}

func (r *LedgerRepository) InitDatabase() error {
	cfg, err := loadDatabaseConfig()
	if err != nil {
		r.Logger.Error("Failed to load database configuration", zap.Error(err))
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	gormZap := logger.NewGormLogger(r.Logger.Log).
		LogMode(gormlogger.Warn) // Silent / Error / Warn / Info

	var dialector gorm.Dialector
	if cfg.Driver == "postgres" {
		dialector = postgres.Open(cfg.GetDSN())
	} else {
		dialector = mysql.Open(cfg.GetDSN())
	}

	r.DB, err = gorm.Open(dialector, &gorm.Config{
		Logger: gormZap,
	})
	if err != nil {
		r.Logger.Error("Error connecting to the database", zap.Error(err))
		return err
	}

	err = r.MigrateEntitiesGORM()
	if err != nil {
		r.Logger.Error("Error migrating the database", zap.Error(err))
		return err
	}

	err = r.SeedCounters()
	if err != nil {
		r.Logger.Error("Error seeding id counters", zap.Error(err))
		return err
	}

	err = r.SeedTreasury()
	if err != nil {
		r.Logger.Error("Error seeding treasury", zap.Error(err))
		return err
	}

	err = r.SeedInitialAdmin()
	if err != nil {
		r.Logger.Error("Error seeding initial admin", zap.Error(err))
		return err
	}

	r.Logger.Info("Database connection and migrations successful")
	return nil
}

func (r *LedgerRepository) MigrateEntitiesGORM() error {
	err := r.DB.AutoMigrate(
		&user.User{},
		&counter.Counter{},
		&batch.Batch{},
		&batch.DeliveryStatus{},
		&group.Group{},
		&group.GroupMember{},
		&template.Template{},
		&treasury.Treasury{},
		&treasury.Withdrawal{},
		&notification.Notification{},
	)
	if err != nil {
		r.Logger.Error("Error migrating database entities", zap.Error(err))
		return err
	}

	r.Logger.Info("Database entities migration completed successfully")
	return nil
}

// SeedCounters creates the three id counters. The first issued id of every
// scope is 1 so that 0 can serve as the "does not exist" sentinel.
func (r *LedgerRepository) SeedCounters() error {
	for _, scope := range []string{counter.ScopeBatch, counter.ScopeGroup, counter.ScopeTemplate} {
		var existing counter.Counter
		err := r.DB.Where("scope = ?", scope).First(&existing).Error
		if err == nil {
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}
		if err := r.DB.Create(&counter.Counter{Scope: scope, Value: 1}).Error; err != nil {
			return err
		}
		r.Logger.Info("Seeded id counter", zap.String("scope", scope))
	}
	return nil
}

func (r *LedgerRepository) SeedTreasury() error {
	var existing treasury.Treasury
	err := r.DB.Where("id = ?", treasury.SingletonID).First(&existing).Error
	if err == nil {
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}
	if err := r.DB.Create(&treasury.Treasury{ID: treasury.SingletonID, Balance: 0}).Error; err != nil {
		return err
	}
	r.Logger.Info("Seeded treasury")
	return nil
}

func (r *LedgerRepository) SeedInitialAdmin() error {
	address := os.Getenv("ADMIN_ADDRESS")
	pw := os.Getenv("ADMIN_PASSWORD")
	if address == "" || pw == "" {
		r.Logger.Info("Initial admin seed skipped: ADMIN_ADDRESS or ADMIN_PASSWORD not set")
		return nil
	}

	var existingUser user.User
	err := r.DB.Where("address = ?", address).First(&existingUser).Error
	if err == nil {
		r.Logger.Info("Initial admin already exists, skipping seed", zap.String("address", address))
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		r.Logger.Error("Error hashing password for initial admin", zap.Error(err))
		return err
	}

	newUser := user.User{
		Address:      address,
		HashPassword: string(hashedPassword),
		Role:         "admin",
		Status:       true,
	}

	err = r.DB.Create(&newUser).Error
	if err != nil {
		r.Logger.Error("Error creating initial admin", zap.Error(err))
		return err
	}

	r.Logger.Info("Initial admin created successfully", zap.String("address", address))
	return nil
}

// InitLedgerDB initializes the database connection with logger
func InitLedgerDB(loggerInstance *logger.Logger) (*gorm.DB, error) {
	repo := &LedgerRepository{
		Logger: loggerInstance,
	}

	err := repo.InitDatabase()
	if err != nil {
		return nil, err
	}

	return repo.DB, nil
}
