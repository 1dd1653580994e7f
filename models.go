package main

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/muhammadolammi/resumematch/internal/database"
	"github.com/muhammadolammi/resumematch/internal/extractor"
	"github.com/sirupsen/logrus"
)

const (
	statusProcessing = "processing"
	statusCompleted  = "completed"
	statusFailed     = "failed"
)

// sessionStore is the slice of *database.Queries the worker uses.
type sessionStore interface {
	GetSession(ctx context.Context, id uuid.UUID) (database.Session, error)
	GetUploadedResumesBySession(ctx context.Context, sessionID uuid.UUID) ([]database.Resume, error)
	UpdateSessionStatus(ctx context.Context, arg database.UpdateSessionStatusParams) error
	CreateOrUpdateMatchResults(ctx context.Context, arg database.CreateOrUpdateMatchResultsParams) error
}

type objectStore interface {
	Download(ctx context.Context, key string) ([]byte, error)
}

type updatePublisher interface {
	PublishSessionUpdate(update SessionUpdate) error
}

type WorkerConfig struct {
	DB        sessionStore
	Storage   objectStore
	Updates   updatePublisher
	Extractor *extractor.Extractor
	Log       *logrus.Entry

	RabbitMQURL      string
	SessionsQueue    string
	DownloadAttempts int
	SaveAttempts     int
	// RetryBackoff is multiplied by the attempt number between retries.
	RetryBackoff time.Duration
}

// Session is the message published when a user submits resumes for matching.
type Session struct {
	ID             uuid.UUID `json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	Name           string    `json:"name"`
	UserID         uuid.UUID `json:"user_id"`
	Status         string    `json:"status"`
	JobTitle       string    `json:"job_title"`
	JobDescription string    `json:"job_description"`
	RequiredSkills []string  `json:"required_skills,omitempty"`
}

// ResumeMatch is the outcome for one resume of a session. Failed resumes
// carry IsErrorResult, ErrorKind and Error instead of a score.
type ResumeMatch struct {
	ResumeID         uuid.UUID `json:"resume_id"`
	OriginalFilename string    `json:"original_filename"`
	MatchScore       *int      `json:"match_score,omitempty"`
	MatchedKeywords  []string  `json:"matched_keywords,omitempty"`
	MissingKeywords  []string  `json:"missing_keywords,omitempty"`
	MatchedSkills    []string  `json:"matched_skills,omitempty"`

	IsErrorResult bool   `json:"is_error_result"`
	ErrorKind     string `json:"error_kind,omitempty"`
	Error         string `json:"error,omitempty"`
}

type MatchResults struct {
	SessionID uuid.UUID     `json:"session_id"`
	Results   []ResumeMatch `json:"results"`
}

// SessionUpdate is published on every status change of a session.
type SessionUpdate struct {
	SessionID uuid.UUID `json:"session_id"`
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}
