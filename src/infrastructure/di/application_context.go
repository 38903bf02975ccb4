package di

import (
	"sync"

	"dispatch-ledger-api/src/domain/common"
	domainTreasury "dispatch-ledger-api/src/domain/treasury"
	"dispatch-ledger-api/src/infrastructure/helper"

	authUseCase "dispatch-ledger-api/src/application/usecases/auth"
	dispatchUseCase "dispatch-ledger-api/src/application/usecases/dispatch"
	groupUseCase "dispatch-ledger-api/src/application/usecases/group"
	queryUseCase "dispatch-ledger-api/src/application/usecases/query"
	templateUseCase "dispatch-ledger-api/src/application/usecases/template"
	treasuryUseCase "dispatch-ledger-api/src/application/usecases/treasury"
	"dispatch-ledger-api/src/infrastructure/config"
	logger "dispatch-ledger-api/src/infrastructure/logger"
	"dispatch-ledger-api/src/infrastructure/metrics"
	"dispatch-ledger-api/src/infrastructure/repository/mysql"
	batchRepo "dispatch-ledger-api/src/infrastructure/repository/mysql/batch"
	counterRepo "dispatch-ledger-api/src/infrastructure/repository/mysql/counter"
	groupRepo "dispatch-ledger-api/src/infrastructure/repository/mysql/group"
	notificationRepo "dispatch-ledger-api/src/infrastructure/repository/mysql/notification"
	templateRepo "dispatch-ledger-api/src/infrastructure/repository/mysql/template"
	treasuryRepo "dispatch-ledger-api/src/infrastructure/repository/mysql/treasury"
	userRepo "dispatch-ledger-api/src/infrastructure/repository/mysql/user"
	"dispatch-ledger-api/src/infrastructure/repository/transfer"
	authController "dispatch-ledger-api/src/infrastructure/rest/controllers/auth"
	dispatchController "dispatch-ledger-api/src/infrastructure/rest/controllers/dispatch"
	groupController "dispatch-ledger-api/src/infrastructure/rest/controllers/group"
	queryController "dispatch-ledger-api/src/infrastructure/rest/controllers/query"
	templateController "dispatch-ledger-api/src/infrastructure/rest/controllers/template"
	treasuryController "dispatch-ledger-api/src/infrastructure/rest/controllers/treasury"
	"dispatch-ledger-api/src/infrastructure/security"

	"gorm.io/gorm"
)

// ApplicationContext holds all application dependencies and services
type ApplicationContext struct {
	DB                 *gorm.DB
	Logger             *logger.Logger
	Config             *config.LedgerConfig
	AuthController     authController.IAuthController
	DispatchController dispatchController.IDispatchController
	GroupController    groupController.IGroupController
	TemplateController templateController.ITemplateController
	QueryController    queryController.IQueryController
	TreasuryController treasuryController.ITreasuryController
	JWTService         security.IJWTService
	CommonService      common.CommonService
	UserRepository     userRepo.UserRepositoryInterface
	AuthUseCase        authUseCase.IAuthUseCase
	DispatchUseCase    dispatchUseCase.IDispatchUseCase
	GroupUseCase       groupUseCase.IGroupUseCase
	TemplateUseCase    templateUseCase.ITemplateUseCase
	QueryUseCase       queryUseCase.IQueryUseCase
	TreasuryUseCase    treasuryUseCase.ITreasuryUseCase
	RegisterLock       *sync.Mutex
}

var (
	loggerInstance *logger.Logger
	loggerOnce     sync.Once
)

func GetLogger() *logger.Logger {
	loggerOnce.Do(func() {
		loggerInstance, _ = logger.NewLogger()
	})
	return loggerInstance
}

// SetupDependencies creates a new application context with all dependencies
func SetupDependencies(loggerInstance *logger.Logger) (*ApplicationContext, error) {
	// Initialize database with logger
	db, err := mysql.InitLedgerDB(loggerInstance)
	if err != nil {
		return nil, err
	}

	ledgerConfig, err := config.LoadLedgerConfig()
	if err != nil {
		return nil, err
	}

	metrics.Init("dispatch_ledger_api")

	// Initialize JWT service (manages its own configuration)
	jwtService := security.NewJWTService()

	validator := helper.NewValidator(loggerInstance)
	commonService := common.NewCommonService(validator)

	// Initialize repositories with logger
	userRepository := userRepo.NewUserRepository(db, loggerInstance)
	counterRepository := counterRepo.NewCounterRepository(db, loggerInstance)
	batchRepository := batchRepo.NewBatchRepository(db, loggerInstance)
	groupRepository := groupRepo.NewGroupRepository(db, loggerInstance)
	templateRepository := templateRepo.NewTemplateRepository(db, loggerInstance)
	treasuryRepository := treasuryRepo.NewTreasuryRepository(db, loggerInstance)
	notificationRepository := notificationRepo.NewNotificationRepository(db, loggerInstance)

	// The settlement client moves withdrawn fees out of the register.
	var transferrer domainTreasury.FundTransferrer = transfer.NewSettlementClient(ledgerConfig.SettlementURL, loggerInstance)

	// A single lock serializes every state-changing register operation.
	registerLock := &sync.Mutex{}

	// Initialize use cases with logger
	authUC := authUseCase.NewAuthUseCase(userRepository, jwtService, loggerInstance)
	dispatchUC := dispatchUseCase.NewDispatchUseCase(
		batchRepository,
		groupRepository,
		templateRepository,
		counterRepository,
		registerLock,
		ledgerConfig.DispatchFee,
		loggerInstance,
	)
	groupUC := groupUseCase.NewGroupUseCase(groupRepository, counterRepository, registerLock, loggerInstance)
	templateUC := templateUseCase.NewTemplateUseCase(templateRepository, counterRepository, registerLock, loggerInstance)
	queryUC := queryUseCase.NewQueryUseCase(batchRepository, groupRepository, templateRepository, notificationRepository, loggerInstance)
	treasuryUC := treasuryUseCase.NewTreasuryUseCase(treasuryRepository, transferrer, registerLock, loggerInstance)

	// Initialize controllers with logger
	authCtrl := authController.NewAuthController(authUC, loggerInstance)
	dispatchCtrl := dispatchController.NewDispatchController(commonService, dispatchUC, loggerInstance)
	groupCtrl := groupController.NewGroupController(commonService, groupUC, loggerInstance)
	templateCtrl := templateController.NewTemplateController(commonService, templateUC, loggerInstance)
	queryCtrl := queryController.NewQueryController(queryUC, loggerInstance)
	treasuryCtrl := treasuryController.NewTreasuryController(treasuryUC, loggerInstance)

	return &ApplicationContext{
		DB:                 db,
		Logger:             loggerInstance,
		Config:             ledgerConfig,
		AuthController:     authCtrl,
		DispatchController: dispatchCtrl,
		GroupController:    groupCtrl,
		TemplateController: templateCtrl,
		QueryController:    queryCtrl,
		TreasuryController: treasuryCtrl,
		JWTService:         jwtService,
		CommonService:      commonService,
		UserRepository:     userRepository,
		AuthUseCase:        authUC,
		DispatchUseCase:    dispatchUC,
		GroupUseCase:       groupUC,
		TemplateUseCase:    templateUC,
		QueryUseCase:       queryUC,
		TreasuryUseCase:    treasuryUC,
		RegisterLock:       registerLock,
	}, nil
}

// NewTestApplicationContext creates an application context for testing with mocked dependencies
func NewTestApplicationContext(
	mockUserRepo userRepo.UserRepositoryInterface,
	mockJWTService security.IJWTService,
	loggerInstance *logger.Logger,
) *ApplicationContext {
	authUC := authUseCase.NewAuthUseCase(mockUserRepo, mockJWTService, loggerInstance)
	authCtrl := authController.NewAuthController(authUC, loggerInstance)

	return &ApplicationContext{
		Logger:         loggerInstance,
		AuthController: authCtrl,
		JWTService:     mockJWTService,
		UserRepository: mockUserRepo,
		AuthUseCase:    authUC,
	}
}
