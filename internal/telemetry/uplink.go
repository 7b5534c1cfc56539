package telemetry

// #region imports
import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// #endregion

// #region uplink

// Uplink publishes event batches over MQTT for asynchronous offload. The
// publish is fire-and-forget: acknowledgment is checked on a side goroutine
// and failures are logged, never waited on.
type Uplink struct {
	client mqtt.Client
	topic  string
}

// NewUplink connects to the broker and returns a publisher for the given
// topic.
func NewUplink(broker, clientID, topic string) (*Uplink, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetConnectTimeout(5 * time.Second).
		SetAutoReconnect(true)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("connect mqtt broker %s: %w", broker, token.Error())
	}
	return &Uplink{client: client, topic: topic}, nil
}

// PublishBatch sends one JSON-encoded batch. Never blocks on delivery.
func (u *Uplink) PublishBatch(events []Event) {
	if len(events) == 0 {
		return
	}
	payload, err := json.Marshal(events)
	if err != nil {
		log.Printf("[TELEM] marshal batch: %v", err)
		return
	}

	token := u.client.Publish(u.topic, 0, false, payload)
	go func() {
		if token.Wait() && token.Error() != nil {
			log.Printf("[TELEM] uplink publish failed, %d events not offloaded: %v", len(events), token.Error())
		}
	}()
}

// Close disconnects from the broker.
func (u *Uplink) Close() {
	u.client.Disconnect(250)
}

// #endregion uplink
