package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/muhammadolammi/resumematch/internal/database"
	"github.com/muhammadolammi/resumematch/internal/extractor"
	"github.com/muhammadolammi/resumematch/internal/matcher"
	"github.com/muhammadolammi/resumematch/internal/textclean"
	"github.com/sirupsen/logrus"
	"github.com/streadway/amqp"
)

// retry runs fn up to attempts times, waiting backoff*(i+1) between tries.
func retry[T any](ctx context.Context, attempts int, backoff time.Duration, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	for i := 0; i < attempts; i++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(backoff * time.Duration(i+1)):
		}
	}
	return zero, fmt.Errorf("after %d attempts: %w", attempts, lastErr)
}

func errorResult(resume database.Resume, kind string, err error) ResumeMatch {
	detail := err.Error()
	var extractErr *extractor.Error
	if errors.As(err, &extractErr) {
		detail = extractErr.Detail
	}
	return ResumeMatch{
		ResumeID:         resume.ID,
		OriginalFilename: resume.OriginalFilename,
		IsErrorResult:    true,
		ErrorKind:        kind,
		Error:            detail,
	}
}

// matchResume scores one extracted resume. Without a job description there is
// nothing to score against and only the skills are matched.
func matchResume(resume database.Resume, resumeText, jobDescription string, skills matcher.SkillSet) ResumeMatch {
	result := ResumeMatch{
		ResumeID:         resume.ID,
		OriginalFilename: resume.OriginalFilename,
		MatchedSkills:    skills.Match(resumeText),
	}
	if strings.TrimSpace(jobDescription) == "" {
		return result
	}
	analysis := matcher.Analyze(resumeText, jobDescription)
	result.MatchScore = &analysis.Score
	result.MatchedKeywords = analysis.Matched
	result.MissingKeywords = analysis.Missing
	return result
}

// matchTarget returns the session's job description as plain text and its
// required skills. Whatever the message left out is loaded from the stored
// session.
func (workerConfig *WorkerConfig) matchTarget(ctx context.Context, currentSession Session, log *logrus.Entry) (string, []string) {
	desc := currentSession.JobDescription
	skills := currentSession.RequiredSkills

	if strings.TrimSpace(desc) == "" || len(skills) == 0 {
		stored, err := workerConfig.DB.GetSession(ctx, currentSession.ID)
		if err != nil {
			log.WithError(err).Warn("could not load stored session")
		} else {
			if strings.TrimSpace(desc) == "" {
				desc = stored.JobDescription
			}
			if len(skills) == 0 {
				skills = stored.RequiredSkills
			}
		}
	}
	if strings.TrimSpace(desc) == "" {
		log.Warn("session has no job description, scoring skipped")
	}
	return textclean.JobDescription(desc), skills
}

// processSession extracts and scores every uploaded resume of a session and
// saves the aggregated results. A resume that cannot be downloaded or
// extracted gets an error entry; it does not fail the session.
func (workerConfig *WorkerConfig) processSession(ctx context.Context, currentSession Session, log *logrus.Entry) error {
	resumes, err := workerConfig.DB.GetUploadedResumesBySession(ctx, currentSession.ID)
	if err != nil {
		return fmt.Errorf("error getting resumes for session %s: %w", currentSession.ID, err)
	}

	jobDescription, requiredSkills := workerConfig.matchTarget(ctx, currentSession, log)
	skills := matcher.CompileSkills(requiredSkills)
	results := &MatchResults{
		SessionID: currentSession.ID,
		Results:   make([]ResumeMatch, 0, len(resumes)),
	}

	for _, resume := range resumes {
		resumeLog := log.WithFields(logrus.Fields{
			"object_key": resume.ObjectKey,
			"format":     extractor.FormatFromMIME(resume.Mime).String(),
		})

		fileBytes, err := retry(ctx, workerConfig.DownloadAttempts, workerConfig.RetryBackoff, func() ([]byte, error) {
			return workerConfig.Storage.Download(ctx, resume.ObjectKey)
		})
		if err != nil {
			resumeLog.WithError(err).Warn("failed to download resume")
			results.Results = append(results.Results, errorResult(resume, "download", err))
			continue
		}

		// Extraction failures are terminal for the resume; retrying the same
		// bytes cannot succeed.
		resumeText, err := workerConfig.Extractor.ExtractDocument(extractor.SourceDocument{
			Data:         fileBytes,
			DeclaredType: resume.Mime,
		})
		if err != nil {
			resumeLog.WithError(err).WithField("mime", resume.Mime).Warn("text extraction failed")
			results.Results = append(results.Results, errorResult(resume, extractor.KindName(err), err))
			continue
		}

		match := matchResume(resume, resumeText, jobDescription, skills)
		if match.MatchScore != nil {
			resumeLog = resumeLog.WithField("score", *match.MatchScore)
		}
		resumeLog.Debug("resume scored")
		results.Results = append(results.Results, match)
	}

	resultsJSON, err := json.Marshal(results.Results)
	if err != nil {
		return fmt.Errorf("failed to marshal match results: %w", err)
	}

	_, err = retry(ctx, workerConfig.SaveAttempts, workerConfig.RetryBackoff, func() (any, error) {
		return nil, workerConfig.DB.CreateOrUpdateMatchResults(ctx, database.CreateOrUpdateMatchResultsParams{
			Results:   resultsJSON,
			SessionID: results.SessionID,
		})
	})
	if err != nil {
		return fmt.Errorf("failed to save match results after retries: %w", err)
	}

	log.WithField("resumes", len(resumes)).Info("session matched")
	return nil
}

// setStatus records a status change in the database and announces it.
// Failures are logged; they never stop the session.
func (workerConfig *WorkerConfig) setStatus(ctx context.Context, currentSession Session, status, message string, log *logrus.Entry) {
	err := workerConfig.DB.UpdateSessionStatus(ctx, database.UpdateSessionStatusParams{
		Status: status,
		ID:     currentSession.ID,
	})
	if err != nil {
		log.WithError(err).WithField("status", status).Error("failed to update session status")
	}

	err = workerConfig.Updates.PublishSessionUpdate(SessionUpdate{
		SessionID: currentSession.ID,
		Status:    status,
		Message:   message,
		Timestamp: time.Now(),
	})
	if err != nil {
		log.WithError(err).WithField("status", status).Error("failed to publish update")
	}
}

// handleMessage runs one session message end to end. A session that has
// started runs to completion even if ctx is cancelled meanwhile, so it never
// stays in processing.
func (workerConfig *WorkerConfig) handleMessage(ctx context.Context, id int, body []byte) {
	ctx = context.WithoutCancel(ctx)
	log := workerConfig.Log.WithField("worker", id+1)

	currentSession := Session{}
	if err := json.Unmarshal(body, &currentSession); err != nil {
		log.WithError(err).Error("error unmarshalling message body, message dropped")
		return
	}
	if currentSession.ID == uuid.Nil {
		log.Error("session message without id, message dropped")
		return
	}
	log = log.WithField("session_id", currentSession.ID)
	log.Info("processing session")

	workerConfig.setStatus(ctx, currentSession, statusProcessing, "analysis started", log)

	if err := workerConfig.processSession(ctx, currentSession, log); err != nil {
		log.WithError(err).Error("error matching session")
		workerConfig.setStatus(ctx, currentSession, statusFailed, "analysis failed", log)
		return
	}

	workerConfig.setStatus(ctx, currentSession, statusCompleted, "analysis completed", log)
}

func (workerConfig *WorkerConfig) worker(ctx context.Context, id int, wg *sync.WaitGroup) {
	defer wg.Done()
	log := workerConfig.Log.WithField("worker", id+1)

	// to consume message on the queue
	conn, err := amqp.Dial(workerConfig.RabbitMQURL)
	if err != nil {
		log.WithError(err).Error("error dialling rabbitmq")
		return
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		log.WithError(err).Error("error connecting to rabbitmq channel")
		return
	}
	defer ch.Close()

	_, err = ch.QueueDeclare(
		workerConfig.SessionsQueue, // queue name
		true,                       // durable (survives broker restarts)
		false,                      // auto-delete when unused
		false,                      // exclusive
		false,                      // no-wait
		nil,                        // arguments
	)
	if err != nil {
		log.WithError(err).Error("failed to declare queue")
		return
	}

	// one unacknowledged session per worker; the rest stay queued for others
	if err := ch.Qos(1, 0, false); err != nil {
		log.WithError(err).Error("failed to set prefetch")
		return
	}

	msgs, err := ch.Consume(
		workerConfig.SessionsQueue, // queue name
		"",                         // consumer tag
		false,                      // auto-ack
		false,                      // exclusive
		false,                      // no-local
		false,                      // no-wait
		nil,                        // arguments
	)
	if err != nil {
		log.WithError(err).Error("error consuming rabbitmq message")
		return
	}

	log.Info("worker started")
	for {
		select {
		case <-ctx.Done():
			log.Info("worker stopping")
			return
		case msg, ok := <-msgs:
			if !ok {
				log.Warn("delivery channel closed")
				return
			}
			workerConfig.handleMessage(ctx, id, msg.Body)
			if err := msg.Ack(false); err != nil {
				log.WithError(err).Error("failed to ack message")
			}
		}
	}
}

// StartConsumerWorkerPool blocks until every worker has returned.
func (workerConfig *WorkerConfig) StartConsumerWorkerPool(ctx context.Context, numWorkers int) {
	var wg sync.WaitGroup
	wg.Add(numWorkers)

	for i := 0; i < numWorkers; i++ {
		go workerConfig.worker(ctx, i, &wg)
	}
	wg.Wait()
}
