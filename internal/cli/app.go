package cli

import (
	"context"
	"fmt"
	"time"

	api "planner-backend/cmd/api"
	authdomain "planner-backend/internal/auth/domain"
	authRepo "planner-backend/internal/auth/repository"
	authUsecase "planner-backend/internal/auth/usecase"
	notedomain "planner-backend/internal/note/domain"
	noteRepo "planner-backend/internal/note/repository"
	noteUsecase "planner-backend/internal/note/usecase"
	"planner-backend/internal/notification"
	"planner-backend/internal/reminder"
	taskdomain "planner-backend/internal/task/domain"
	taskRepo "planner-backend/internal/task/repository"
	taskUsecase "planner-backend/internal/task/usecase"
	workflowdomain "planner-backend/internal/workflow/domain"
	workflowRepo "planner-backend/internal/workflow/repository"
	workflowUsecase "planner-backend/internal/workflow/usecase"
	"planner-backend/pkg/config"
	"planner-backend/pkg/database"
	"planner-backend/pkg/fcm"
	"planner-backend/pkg/mailer"
	"planner-backend/pkg/storage"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const noteUploadDir = "notes"

// app holds every long-lived component of a running planner.
type app struct {
	cfg       *config.Config
	db        *gorm.DB
	loc       *time.Location
	outbox    *notification.Outbox
	scanner   *reminder.Scanner
	scheduler *reminder.Scheduler
	handler   *api.Handler
}

func models() []interface{} {
	return []interface{}{
		&authdomain.User{},
		&authdomain.FCMToken{},
		&taskdomain.Task{},
		&notedomain.Note{},
		&workflowdomain.Workflow{},
	}
}

func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	db, err := database.NewConnection(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db, models()...); err != nil {
		database.Close(db)
		return nil, err
	}
	return db, nil
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	db, err := openDatabase(cfg)
	if err != nil {
		return nil, err
	}

	// Initialize repositories (dependency injection)
	userRepo := authRepo.NewUserRepository(db)
	fcmTokenRepo := authRepo.NewFCMTokenRepository(db)
	taskRepository := taskRepo.NewGormTaskRepository(db)
	noteRepository := noteRepo.NewGormNoteRepository(db)
	workflowRepository := workflowRepo.NewGormWorkflowRepository(db)

	store, err := storage.NewLocalStore(cfg.UploadDir, noteUploadDir, api.UploadsPrefix)
	if err != nil {
		database.Close(db)
		return nil, err
	}

	var sender mailer.Sender
	if cfg.SMTPHost != "" {
		sender = mailer.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.MailFrom, cfg.MailFromName)
	} else {
		log.Warn().Str("component", "mailer").Msg("SMTP_HOST not configured, emails will only be logged")
		sender = mailer.LogSender{}
	}

	// FCM is optional; email delivery works without it
	var pusher notification.Pusher
	if cfg.FirebaseCredentials != "" {
		client, err := fcm.NewClient(ctx, cfg.FirebaseCredentials)
		if err != nil {
			log.Warn().Err(err).Str("component", "fcm").Msg("push notifications disabled")
		} else {
			pusher = client
		}
	}

	renderer, err := notification.NewRenderer(cfg.AppURL, cfg.MailFromName, loc)
	if err != nil {
		database.Close(db)
		return nil, fmt.Errorf("load email templates: %w", err)
	}
	notifService := notification.NewService(sender, renderer, pusher, fcmTokenRepo)
	outbox := notification.NewOutbox(notifService, cfg.OutboxWorkers)

	scanner := reminder.NewScanner(taskRepository, userRepo, noteRepository, notifService, loc)
	scheduler, err := reminder.NewScheduler(scanner, reminder.Schedule{
		TaskCheck:   cfg.TaskReminderTime,
		NotesDigest: cfg.NotesDigestTime,
	}, loc, time.Now)
	if err != nil {
		database.Close(db)
		return nil, err
	}

	// Initialize use cases (dependency injection)
	authUc := authUsecase.NewAuthUsecase(userRepo, fcmTokenRepo, outbox, cfg)
	taskUc := taskUsecase.NewTaskUsecase(taskRepository, loc)
	noteUc := noteUsecase.NewNoteUsecase(noteRepository, store)
	workflowUc := workflowUsecase.NewWorkflowUsecase(workflowRepository, loc, time.Now)

	return &app{
		cfg:       cfg,
		db:        db,
		loc:       loc,
		outbox:    outbox,
		scanner:   scanner,
		scheduler: scheduler,
		handler:   api.NewHandler(cfg, authUc, taskUc, noteUc, workflowUc, scheduler),
	}, nil
}

func (a *app) close() {
	database.Close(a.db)
}
