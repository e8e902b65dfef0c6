package kafka

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/IBM/sarama"

	"shortify/internal/app/projection"
)

// ReportFeed consumes report.events.v1 messages and keeps the report
// volume read model current. Versioned event types (report.created.v1)
// map back to the bare domain event name before applying.
type ReportFeed struct {
	Volume *projection.ReportVolume
}

type cloudEvent struct {
	Type string `json:"type"`
	Data struct {
		ShortID string `json:"ShortID"`
	} `json:"data"`
}

func (f ReportFeed) Handle(_ context.Context, msg *sarama.ConsumerMessage) error {
	var evt cloudEvent
	if err := json.Unmarshal(msg.Value, &evt); err != nil {
		return err
	}
	f.Volume.Apply(strings.TrimSuffix(evt.Type, ".v1"), evt.Data.ShortID)
	return nil
}
