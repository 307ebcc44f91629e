package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/tradelane-network/tradelane-daemon/internal/config"
	"github.com/tradelane-network/tradelane-daemon/internal/core/application/kernel"
	apppubsub "github.com/tradelane-network/tradelane-daemon/internal/core/application/pubsub"
	"github.com/tradelane-network/tradelane-daemon/internal/core/ports"
	"github.com/tradelane-network/tradelane-daemon/internal/infrastructure/compliance"
	"github.com/tradelane-network/tradelane-daemon/internal/infrastructure/custodian"
	webhookpubsub "github.com/tradelane-network/tradelane-daemon/internal/infrastructure/pubsub/webhook"
	dbbadger "github.com/tradelane-network/tradelane-daemon/internal/infrastructure/storage/db/badger"
	"github.com/tradelane-network/tradelane-daemon/internal/infrastructure/storage/db/inmemory"
	httpinterface "github.com/tradelane-network/tradelane-daemon/internal/interfaces/http"
)

func main() {
	if err := config.InitConfig(); err != nil {
		log.WithError(err).Fatal("invalid config")
	}
	log.SetLevel(config.GetLogLevel())

	repoManager, err := newRepoManager()
	if err != nil {
		log.WithError(err).Fatal("failed to open db")
	}
	defer repoManager.Close()

	complianceSvc, err := newComplianceProvider()
	if err != nil {
		log.WithError(err).Fatal("failed to init compliance provider")
	}

	custodianSvc, err := newEscrowCustodian()
	if err != nil {
		log.WithError(err).Fatal("failed to init escrow custodian")
	}

	webhookSvc, err := webhookpubsub.NewWebhookPubSubService(
		config.GetDbDir(), nil, config.GetInt(config.WebhookRateLimitKey),
	)
	if err != nil {
		log.WithError(err).Fatal("failed to init webhook pubsub")
	}

	hub := httpinterface.NewEventHub()
	pubsubSvc := apppubsub.NewService(webhookSvc, hub)

	kernelSvc, err := kernel.NewService(
		repoManager, complianceSvc, custodianSvc, pubsubSvc,
		config.GetDuration(config.CollaboratorTimeoutKey),
	)
	if err != nil {
		log.WithError(err).Fatal("failed to init trade kernel")
	}

	httpSvc := httpinterface.NewService(kernelSvc, pubsubSvc, hub)
	addr := fmt.Sprintf(":%d", config.GetInt(config.ListenPortKey))
	server := &http.Server{Addr: addr, Handler: httpSvc.Handler()}

	go func() {
		log.Infof("http interface is listening on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("error listening on http interface")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	<-sigChan

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Warn("error while shutting down http server")
	}
}

func newRepoManager() (ports.RepoManager, error) {
	switch config.GetString(config.DBTypeKey) {
	case config.DBInMemory:
		return inmemory.NewRepoManager(), nil
	default:
		return dbbadger.NewRepoManager(config.GetDbDir(), nil)
	}
}

func newComplianceProvider() (ports.ComplianceProvider, error) {
	addr := config.GetString(config.ComplianceAddrKey)
	if addr == "" {
		log.Warn("no compliance service configured, all parties are treated as verified")
		return compliance.NewVerifiedProvider(), nil
	}
	return compliance.NewHTTPClient(
		addr, config.GetDuration(config.CollaboratorTimeoutKey),
	)
}

func newEscrowCustodian() (ports.EscrowCustodian, error) {
	addr := config.GetString(config.CustodianAddrKey)
	if addr == "" {
		log.Warn("no escrow custodian configured, using the in-memory custodian")
		return custodian.NewInMemoryCustodian(), nil
	}
	return custodian.NewHTTPClient(
		addr, config.GetDuration(config.CollaboratorTimeoutKey),
	)
}
