// Package actuator provides StimulationCommand sinks: the gRPC bridge to
// the pulse generator hardware service and a simulated actuator for bench
// runs and tests.
//
// The generated gen/pulsegen package comes from proto/pulsegen.proto:
//
//	protoc --go_out=. --go-grpc_out=. proto/pulsegen.proto
package actuator

// #region imports
import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	pb "github.com/J9ck/human-embedded-technology/gen/pulsegen"
	"github.com/J9ck/human-embedded-technology/internal/stim"
)

// #endregion

// #region bridge

// Bridge is the gRPC client for the pulse generator service. It implements
// stim.Actuator.
type Bridge struct {
	conn   *grpc.ClientConn
	client pb.PulseGeneratorClient
}

// NewBridge connects to the pulse generator bridge service.
func NewBridge(addr string) (*Bridge, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("grpc dial %s: %w", addr, err)
	}
	return &Bridge{conn: conn, client: pb.NewPulseGeneratorClient(conn)}, nil
}

// NewBridgeWithService creates a Bridge with an injected service client.
// Used for testing without a real gRPC connection.
func NewBridgeWithService(svc pb.PulseGeneratorClient) *Bridge {
	return &Bridge{client: svc}
}

// Close shuts down the gRPC connection.
func (b *Bridge) Close() error {
	if b.conn == nil {
		return nil
	}
	return b.conn.Close()
}

// #endregion bridge

// #region deliver

// Deliver sends one stimulation command and waits for the hardware
// acknowledgment.
func (b *Bridge) Deliver(ctx context.Context, cmd stim.Command) error {
	resp, err := b.client.Deliver(ctx, &pb.DeliverRequest{
		CommandId:      cmd.ID,
		AmplitudeMa:    cmd.AmplitudeMA,
		PulseWidthUs:   int32(cmd.PulseWidthUS),
		BurstCount:     int32(cmd.BurstCount),
		IssuedAtUnixNs: cmd.IssuedAt.UnixNano(),
		EventSeq:       cmd.EventSeq,
	})
	if err != nil {
		return fmt.Errorf("deliver rpc: %w", err)
	}
	if !resp.Ok {
		return fmt.Errorf("pulse generator rejected command %s: %s", cmd.ID, resp.Message)
	}
	return nil
}

// Ready reports whether the pulse generator is ready to deliver.
func (b *Bridge) Ready(ctx context.Context) (bool, error) {
	resp, err := b.client.Health(ctx, &pb.HealthRequest{})
	if err != nil {
		return false, fmt.Errorf("health rpc: %w", err)
	}
	return resp.Ready, nil
}

// #endregion deliver
