package service

import (
	"context"
	"log"
	"time"

	"content-fraud-detection/internal/core"
	"content-fraud-detection/internal/detector"

	"github.com/google/uuid"
)

// CheckService runs the decision engine and records the outcome. The
// audit write and event publish happen off the request path; the caller
// always gets the Decision the engine produced, regardless of what the
// supporting infrastructure does.
type CheckService struct {
	engine    *detector.Engine
	decisions core.DecisionRepository // nil when Mongo is unavailable
	events    core.EventPublisher    // nil when publishing is disabled
}

func NewCheckService(engine *detector.Engine, decisions core.DecisionRepository, events core.EventPublisher) *CheckService {
	return &CheckService{
		engine:    engine,
		decisions: decisions,
		events:    events,
	}
}

// CheckText decides a chat message and records the verdict.
func (s *CheckService) CheckText(ctx context.Context, message, userID, conversationID, clientIP string) core.Decision {
	start := time.Now()
	d := s.engine.CheckText(ctx, message)
	s.record(core.DecisionRecord{
		ContentType:    core.ContentText,
		UserID:         userID,
		ConversationID: conversationID,
		ClientIP:       clientIP,
		Decision:       d,
		ElapsedMS:      time.Since(start).Milliseconds(),
	})
	return d
}

// CheckImage decides an uploaded image and records the verdict.
func (s *CheckService) CheckImage(ctx context.Context, image []byte, clientIP string) core.Decision {
	start := time.Now()
	d := s.engine.CheckImage(ctx, image)
	s.record(core.DecisionRecord{
		ContentType: core.ContentImage,
		ClientIP:    clientIP,
		Decision:    d,
		ElapsedMS:   time.Since(start).Milliseconds(),
	})
	return d
}

// CheckFile decides an uploaded file and records the verdict.
func (s *CheckService) CheckFile(ctx context.Context, filename string, data []byte, clientIP string) core.Decision {
	start := time.Now()
	d := s.engine.CheckFile(ctx, filename, data)
	s.record(core.DecisionRecord{
		ContentType: core.ContentFile,
		Filename:    filename,
		ClientIP:    clientIP,
		Decision:    d,
		ElapsedMS:   time.Since(start).Milliseconds(),
	})
	return d
}

// ListDecisions pages through persisted decisions for the admin view.
func (s *CheckService) ListDecisions(ctx context.Context, filter core.DecisionFilter) (*core.PaginatedDecisions, error) {
	if s.decisions == nil {
		return &core.PaginatedDecisions{Records: []core.DecisionRecord{}, Page: 1, Limit: filter.Limit}, nil
	}
	return s.decisions.List(ctx, filter)
}

func (s *CheckService) record(rec core.DecisionRecord) {
	rec.ID = uuid.NewString()
	rec.Timestamp = time.Now()

	// Run the entire recording flow asynchronously
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if s.decisions != nil {
			if err := s.decisions.Insert(ctx, rec); err != nil {
				log.Printf("Failed to persist decision %s: %v", rec.ID, err)
			}
		}

		if s.events != nil && rec.Decision.Fraud {
			if err := s.events.PublishDecision(rec); err != nil {
				log.Printf("Failed to publish decision %s: %v", rec.ID, err)
			}
		}
	}()
}
