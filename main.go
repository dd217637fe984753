package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"tipster/cmd"
	"tipster/config"
	"tipster/database"
	"tipster/domain/entities"
	"tipster/domain/services"
	"tipster/infrastructure"
	"tipster/repository"

	log "github.com/sirupsen/logrus"
)

const usage = `usage: tipster [command]

commands:
  (none)                          run the HTTP server
  migrate up|down [n]|status      manage the database schema
  grant-admin <email>             give an email the admin role
  issue-session <user-id> <email> create a session and print its bearer token`

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if len(os.Args) > 1 {
		if err := runCommand(ctx, os.Args[1], os.Args[2:]); err != nil {
			log.WithError(err).Fatal("Command failed")
		}
		return
	}

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("Received shutdown signal, shutting down gracefully...")
		cancel()
	}()

	if err := cmd.Run(ctx); err != nil {
		log.WithError(err).Fatal("Application error")
	}
}

func runCommand(ctx context.Context, name string, args []string) error {
	switch name {
	case "migrate":
		return handleMigrationCommand(args)
	case "grant-admin":
		if len(args) != 1 {
			return fmt.Errorf("usage: tipster grant-admin <email>")
		}
		return grantAdmin(ctx, args[0])
	case "issue-session":
		if len(args) != 2 {
			return fmt.Errorf("usage: tipster issue-session <user-id> <email>")
		}
		return issueSession(ctx, args[0], args[1])
	case "help", "-h", "--help":
		fmt.Println(usage)
		return nil
	default:
		return fmt.Errorf("unknown command %q\n%s", name, usage)
	}
}

func handleMigrationCommand(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: tipster migrate [up|down|status] [args...]")
	}

	switch args[0] {
	case "up":
		return database.MigrateUp()
	case "down":
		steps := "1"
		if len(args) > 1 {
			steps = args[1]
		}
		return database.MigrateDown(steps)
	case "status":
		return database.MigrateStatus()
	default:
		return fmt.Errorf("unknown migration command: %s", args[0])
	}
}

func connect(ctx context.Context) (*database.DB, *config.Config, error) {
	cfg := config.Get()
	cmd.ConfigureLogging(cfg)

	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, cfg, nil
}

// grantAdmin runs outside the server, so events are dropped
func grantAdmin(ctx context.Context, email string) (err error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("email is required")
	}

	db, _, err := connect(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	uow := infrastructure.NewUnitOfWorkFactory(db, infrastructure.NewNoopEventPublisher()).Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = uow.Rollback()
		}
	}()

	if err := uow.AuthorizedEmailRepository().Grant(ctx, email, entities.RoleAdmin); err != nil {
		return fmt.Errorf("failed to grant admin role: %w", err)
	}
	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithField("email", strings.ToLower(email)).Info("Granted admin role")
	return nil
}

func issueSession(ctx context.Context, userID, email string) error {
	db, cfg, err := connect(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	gate := services.NewSessionGate(repository.NewSessionRepository(db), repository.NewAuthorizedEmailRepository(db))
	token, err := gate.IssueSession(ctx, userID, email, cfg.SessionTTL)
	if err != nil {
		return err
	}

	fmt.Println(token)
	return nil
}
