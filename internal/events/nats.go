package events

import (
	"encoding/json"

	"content-fraud-detection/internal/core"

	"github.com/nats-io/nats.go"
)

// SubjectDecisions carries every fraud verdict for downstream consumers
// (admin notifications, moderation queues).
const SubjectDecisions = "fraud.decisions"

// Publisher broadcasts decision records over NATS.
type Publisher struct {
	conn *nats.Conn
}

func Connect(url string) (*Publisher, error) {
	nc, err := nats.Connect(url, nats.Name("content-fraud-detection"))
	if err != nil {
		return nil, err
	}
	return &Publisher{conn: nc}, nil
}

func (p *Publisher) PublishDecision(rec core.DecisionRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return p.conn.Publish(SubjectDecisions, data)
}

func (p *Publisher) Close() {
	p.conn.Drain()
}
