package scheduler

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/collabstay/collabstay-api/databases"
	"github.com/collabstay/collabstay-api/models"
	templates "github.com/collabstay/collabstay-api/templates/html"
)

// Scheduler handles periodic background jobs for the marketplace
type Scheduler struct {
	cron       *cron.Cron
	IDB        databases.InvitationDatabase
	PDB        databases.ProjectDatabase
	UDB        databases.UserDatabase
	LockDB     databases.SchedulerLockDatabase
	ttlDays    int
	instanceID string
}

// NewScheduler creates a new scheduler instance
func NewScheduler(
	iDB databases.InvitationDatabase,
	pDB databases.ProjectDatabase,
	uDB databases.UserDatabase,
	lockDB databases.SchedulerLockDatabase,
	pendingInviteTTLDays int,
) *Scheduler {
	// Generate a unique instance ID for this pod
	instanceID := os.Getenv("DYNO") // Heroku sets this to "web.1", "web.2", etc.
	if instanceID == "" {
		instanceID = fmt.Sprintf("instance-%d", time.Now().UnixNano())
	}

	return &Scheduler{
		cron:       cron.New(cron.WithLocation(time.UTC)),
		IDB:        iDB,
		PDB:        pDB,
		UDB:        uDB,
		LockDB:     lockDB,
		ttlDays:    pendingInviteTTLDays,
		instanceID: instanceID,
	}
}

// Start begins the scheduler with all registered jobs
func (s *Scheduler) Start() {
	// Auto-decline stale pending invitations daily at 3 AM UTC
	_, err := s.cron.AddFunc("0 3 * * *", s.expirePendingInvitations)
	if err != nil {
		zap.S().Errorw("failed to register invitation expiry job", "error", err)
	}

	// Close recruiting projects whose spots are filled daily at 4 AM UTC
	_, err = s.cron.AddFunc("0 4 * * *", s.closeFilledProjects)
	if err != nil {
		zap.S().Errorw("failed to register project closing job", "error", err)
	}

	s.cron.Start()
	zap.S().Info("marketplace scheduler started")
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.S().Info("marketplace scheduler stopped")
}

// expirePendingInvitations declines invitations that have been pending longer
// than the configured TTL and notifies the sender by email
func (s *Scheduler) expirePendingInvitations() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	acquired, err := s.LockDB.TryAcquireLock(ctx, "invitation_expiry_job", s.instanceID, 10*time.Minute)
	if err != nil {
		zap.S().Errorw("failed to acquire lock for invitation expiry job", "error", err)
		return
	}
	if !acquired {
		zap.S().Debug("invitation expiry job already running on another instance, skipping")
		return
	}
	defer s.LockDB.ReleaseLock(ctx, "invitation_expiry_job", s.instanceID)

	cutoff := time.Now().AddDate(0, 0, -s.ttlDays)
	filter := bson.M{
		"invitation.status":    models.InvitationStatusPending,
		"invitation.createdAt": bson.M{"$lt": primitive.NewDateTimeFromTime(cutoff)},
	}

	stale, err := s.IDB.Find(ctx, filter)
	if err != nil {
		zap.S().Errorw("failed to find stale invitations", "error", err)
		return
	}

	expired := 0
	for _, invitation := range stale {
		update := bson.M{"$set": bson.M{
			"invitation.status":      models.InvitationStatusDeclined,
			"invitation.respondedAt": primitive.NewDateTimeFromTime(time.Now()),
		}}
		if err := s.IDB.UpdateOne(ctx, bson.M{"_id": invitation.ID}, update); err != nil {
			zap.S().Errorw("failed to expire invitation",
				"invitationID", invitation.ID.Hex(),
				"error", err)
			continue
		}
		expired++
		s.sendExpiryEmail(ctx, invitation)
	}

	zap.S().Infow("invitation expiry job complete",
		"instance", s.instanceID,
		"expired", expired,
	)
}

// closeFilledProjects closes recruiting projects whose accepted application
// count has reached their open spots
func (s *Scheduler) closeFilledProjects() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	acquired, err := s.LockDB.TryAcquireLock(ctx, "project_closing_job", s.instanceID, 10*time.Minute)
	if err != nil {
		zap.S().Errorw("failed to acquire lock for project closing job", "error", err)
		return
	}
	if !acquired {
		zap.S().Debug("project closing job already running on another instance, skipping")
		return
	}
	defer s.LockDB.ReleaseLock(ctx, "project_closing_job", s.instanceID)

	recruiting, err := s.PDB.Find(ctx, bson.M{"project.status": models.ProjectStatusRecruiting})
	if err != nil {
		zap.S().Errorw("failed to find recruiting projects", "error", err)
		return
	}

	closed := 0
	for _, project := range recruiting {
		accepted, err := s.IDB.CountDocuments(ctx, bson.M{
			"invitation.kind":                 models.InvitationKindApplication,
			"invitation.listingRef.listingID": project.ID.Hex(),
			"invitation.status":               models.InvitationStatusAccepted,
		})
		if err != nil {
			zap.S().Errorw("failed to count accepted applications",
				"projectID", project.ID.Hex(),
				"error", err)
			continue
		}
		if accepted < int64(project.Details.Spots) {
			continue
		}

		update := bson.M{"$set": bson.M{
			"project.status":    models.ProjectStatusClosed,
			"project.updatedAt": primitive.NewDateTimeFromTime(time.Now()),
		}}
		if err := s.PDB.UpdateOne(ctx, bson.M{"_id": project.ID}, update); err != nil {
			zap.S().Errorw("failed to close filled project",
				"projectID", project.ID.Hex(),
				"error", err)
			continue
		}
		closed++
	}

	zap.S().Infow("project closing job complete",
		"instance", s.instanceID,
		"closed", closed,
	)
}

// sendExpiryEmail notifies the sender of an auto-declined invitation
func (s *Scheduler) sendExpiryEmail(ctx context.Context, invitation models.Invitation) {
	fromID, err := primitive.ObjectIDFromHex(invitation.Details.FromUserID)
	if err != nil {
		return
	}
	sender, err := s.UDB.FindOne(ctx, bson.M{"_id": fromID})
	if err != nil {
		zap.S().Warnw("failed to resolve sender for expiry email",
			"fromUserID", invitation.Details.FromUserID,
			"error", err)
		return
	}

	go func(email, name, counterparty string) {
		sendgridAPIKey := os.Getenv("SENDGRID_API_KEY")
		if sendgridAPIKey == "" {
			zap.S().Errorw("SENDGRID_API_KEY not set, cannot send email", "email", email)
			return
		}

		from := mail.NewEmail("CollabStay", os.Getenv("SENDGRID_FROM_EMAIL"))
		to := mail.NewEmail(name, email)
		htmlBody := templates.RenderInvitationExpiredEmail(name, counterparty, s.ttlDays)
		message := mail.NewSingleEmail(from, "Your proposal has expired", to, "", htmlBody)

		client := sendgrid.NewSendClient(sendgridAPIKey)
		response, err := client.Send(message)
		if err != nil {
			zap.S().Errorw("failed to send expiry email", "email", email, "error", err)
			return
		}

		if response.StatusCode >= 200 && response.StatusCode < 300 {
			zap.S().Infow("expiry email sent successfully", "email", email, "statusCode", response.StatusCode)
		} else {
			zap.S().Warnw("expiry email sent with non-2xx status", "email", email, "statusCode", response.StatusCode, "body", response.Body)
		}
	}(sender.Details.Email, sender.Details.Name, invitation.Details.ToIdentity)
}
