package cmd

import (
	"go.uber.org/dig"

	"github.com/rios0rios0/auditfix/application"
	"github.com/rios0rios0/auditfix/domain"
	"github.com/rios0rios0/auditfix/infrastructure/installer"
	"github.com/rios0rios0/auditfix/infrastructure/lockfile"
	"github.com/rios0rios0/auditfix/infrastructure/registry"
	"github.com/rios0rios0/auditfix/infrastructure/vcs"
)

// registerProviders wires the concrete infrastructure into the DIG container.
func registerProviders(container *dig.Container) error {
	providers := []interface{}{
		lockfile.NewRepository,
		func(repo *lockfile.Repository) domain.LockRepository { return repo },
		vcs.NewCommitter,
		func(committer *vcs.Committer) domain.Recorder { return committer },
		func() domain.ReportServiceFactory { return registry.NewReportService },
		installer.NewFactory,
		application.NewAuditService,
	}

	for _, provider := range providers {
		if err := container.Provide(provider); err != nil {
			return err
		}
	}
	return nil
}

// injectAuditService builds the audit service with its full dependency graph.
func injectAuditService() *application.AuditService {
	container := dig.New()

	if err := registerProviders(container); err != nil {
		panic(err)
	}

	var service *application.AuditService
	if err := container.Invoke(func(svc *application.AuditService) {
		service = svc
	}); err != nil {
		panic(err)
	}

	return service
}
