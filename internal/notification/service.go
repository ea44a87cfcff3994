package notification

import (
	"context"
	"fmt"

	authdomain "planner-backend/internal/auth/domain"
	authrepo "planner-backend/internal/auth/repository"
	notedomain "planner-backend/internal/note/domain"
	taskdomain "planner-backend/internal/task/domain"
	"planner-backend/pkg/fcm"
	"planner-backend/pkg/mailer"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Pusher delivers device notifications and returns the tokens it could not
// reach. *fcm.Client satisfies it.
type Pusher interface {
	Send(ctx context.Context, tokens []string, p fcm.Push) ([]string, error)
}

// Service sends reminder emails and, when a Pusher is configured, mirrors
// them to the user's registered devices. Only the email result is reported.
type Service struct {
	sender   mailer.Sender
	renderer *Renderer
	pusher   Pusher
	fcmRepo  authrepo.FCMTokenRepository
	appURL   string
	logger   zerolog.Logger
}

// NewService creates the notification service. pusher and fcmRepo may be nil.
func NewService(sender mailer.Sender, renderer *Renderer, pusher Pusher, fcmRepo authrepo.FCMTokenRepository) *Service {
	return &Service{
		sender:   sender,
		renderer: renderer,
		pusher:   pusher,
		fcmRepo:  fcmRepo,
		appURL:   renderer.appURL,
		logger:   log.With().Str("component", "notification").Logger(),
	}
}

func (s *Service) SendTaskReminder(ctx context.Context, user *authdomain.User, task *taskdomain.Task) error {
	msg, err := s.renderer.TaskReminder(user, task)
	if err != nil {
		return err
	}
	if err := s.sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("task reminder for %s: %w", task.ID, err)
	}
	s.logger.Info().Str("user_id", user.ID).Str("task_id", task.ID).Msg("task reminder sent")

	s.push(ctx, user.ID, fcm.Push{
		Title: "Task due tomorrow: " + task.Title,
		Body:  excerpt(task.Description, excerptLength),
		Link:  s.appURL,
		Data:  map[string]string{"type": "task_reminder", "taskId": task.ID},
	})
	return nil
}

func (s *Service) SendNotesDigest(ctx context.Context, user *authdomain.User, notes []*notedomain.Note) error {
	msg, err := s.renderer.NotesDigest(user, notes)
	if err != nil {
		return err
	}
	if err := s.sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("notes digest for %s: %w", user.ID, err)
	}
	s.logger.Info().Str("user_id", user.ID).Int("notes", len(notes)).Msg("notes digest sent")

	s.push(ctx, user.ID, fcm.Push{
		Title: msg.Subject,
		Body:  notes[0].Title,
		Link:  s.appURL + "/notes",
		Data:  map[string]string{"type": "notes_digest"},
	})
	return nil
}

func (s *Service) SendNotificationsEnabled(ctx context.Context, user *authdomain.User) error {
	msg, err := s.renderer.NotificationsEnabled(user)
	if err != nil {
		return err
	}
	if err := s.sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("confirmation for %s: %w", user.ID, err)
	}
	return nil
}

// push is best effort: failures are logged and unreachable tokens pruned.
func (s *Service) push(ctx context.Context, userID string, p fcm.Push) {
	if s.pusher == nil || s.fcmRepo == nil {
		return
	}
	tokens, err := s.fcmRepo.GetTokensByUserID(ctx, userID)
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("load device tokens")
		return
	}
	if len(tokens) == 0 {
		return
	}
	values := make([]string, 0, len(tokens))
	for _, t := range tokens {
		values = append(values, t.Token)
	}

	failed, err := s.pusher.Send(ctx, values, p)
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("push failed")
		return
	}
	if len(failed) > 0 {
		if err := s.fcmRepo.DeleteTokens(ctx, failed); err != nil {
			s.logger.Warn().Err(err).Msg("prune device tokens")
		}
	}
}
