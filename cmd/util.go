package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"indexcap/api"
	"indexcap/internal/app"
	"indexcap/internal/logger"
	"indexcap/internal/metrics"
	"indexcap/internal/repository"
	"indexcap/internal/service"
	"indexcap/internal/util"
	"indexcap/pkg/factset"
	"log"
	"os"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
)

// constituentsCsvEnv points at a CSV universe, used when no FactSet key
// is configured
const constituentsCsvEnv = "CONSTITUENTS_CSV"

func CloseDependencies(handler *api.ApiHandler) {
	err := handler.Db.Close()
	if err != nil {
		log.Fatalf("failed to close db: %v", err)
	}
}

func newConstituentRepository(secrets *util.Secrets) (repository.ConstituentRepository, error) {
	if secrets.FactSet.ApiKey != "" {
		client := factset.NewClient(
			secrets.FactSet.UsernameSerial,
			secrets.FactSet.ApiKey,
			secrets.FactSet.FormulaUrl,
		)
		return repository.NewFactSetConstituentRepository(client), nil
	}
	if path := os.Getenv(constituentsCsvEnv); path != "" {
		return repository.NewCsvConstituentRepository(path), nil
	}
	return nil, fmt.Errorf("no constituent source configured: set FACTSET_API_KEY or %s", constituentsCsvEnv)
}

func newEmailService(ctx context.Context, secrets *util.Secrets) (service.EmailService, error) {
	if secrets.Email.Region == "" || secrets.Email.FromEmail == "" {
		logger.Warn("SES not configured, proposal emails are disabled")
		return nil, nil
	}
	emailRepository, err := repository.NewEmailRepository(ctx, secrets.Email.Region, secrets.Email.FromEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to create email repository: %w", err)
	}
	return service.NewEmailService(emailRepository, secrets.Email.Recipients), nil
}

func InitializeDependencies() (*api.ApiHandler, error) {
	ctx := context.Background()

	secrets, err := util.LoadSecrets()
	if err != nil {
		return nil, fmt.Errorf("failed to load secrets: %w", err)
	}

	presets, err := util.LoadParamsTable(secrets.CappingParamsFile)
	if err != nil {
		return nil, err
	}

	dbConn, err := sql.Open("postgres", secrets.Db.ToConnectionStr())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to db: %w", err)
	}

	constituentRepository, err := newConstituentRepository(secrets)
	if err != nil {
		return nil, err
	}
	rebalanceRunRepository := repository.NewRebalanceRunRepository(dbConn)
	proposalRepository := repository.NewProposalRepository(dbConn, rebalanceRunRepository)

	emailService, err := newEmailService(ctx, secrets)
	if err != nil {
		return nil, err
	}

	proposalService := service.NewProposalService(
		dbConn,
		constituentRepository,
		proposalRepository,
		emailService,
		presets,
		metrics.New(prometheus.DefaultRegisterer),
	)

	apiHandler := &api.ApiHandler{
		Db:                 dbConn,
		ProposalService:    proposalService,
		ProposalRepository: proposalRepository,
		RebalancerApp:      app.NewRebalancerApp(proposalService),
		Presets:            presets,
		Gatherer:           prometheus.DefaultGatherer,
		JwtDecodeToken:     secrets.JwtSecret,
	}

	return apiHandler, nil
}
