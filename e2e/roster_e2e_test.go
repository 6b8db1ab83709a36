package e2e

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/campuscal/deptsched/api"
	"github.com/campuscal/deptsched/config"
	"github.com/campuscal/deptsched/core/analytics"
	"github.com/campuscal/deptsched/core/model"
	"github.com/campuscal/deptsched/infra/ingest"
	"github.com/campuscal/deptsched/internal/snapshot"
)

func startMosquitto(ctx context.Context, t *testing.T) (tc.Container, string) {
	t.Helper()
	conf := `listener 1883
allow_anonymous true
persistence false
log_dest stdout
`
	dir := t.TempDir()
	path := filepath.Join(dir, "mosquitto.conf")
	if err := os.WriteFile(path, []byte(conf), 0644); err != nil {
		t.Fatalf("write conf: %v", err)
	}

	req := tc.ContainerRequest{
		Image:        "eclipse-mosquitto:2.0",
		ExposedPorts: []string{"1883/tcp"},
		WaitingFor:   wait.ForListeningPort("1883/tcp"),
		Files: []tc.ContainerFile{
			{
				HostFilePath:      path,
				ContainerFilePath: "/mosquitto/config/mosquitto.conf",
				FileMode:          0644,
			},
		},
	}
	cont, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		t.Fatalf("container start: %v", err)
	}
	host, err := cont.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := cont.MappedPort(ctx, "1883")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	broker := fmt.Sprintf("tcp://%s:%s", host, port.Port())
	if err := waitForBroker(broker, 5*time.Second); err != nil {
		t.Logf("mosquitto not ready at %s: %v", broker, err)
		t.Skip("Mosquitto not ready after retries")
	}
	return cont, broker
}

func waitForBroker(broker string, timeout time.Duration) error {
	opts := paho.NewClientOptions().AddBroker(broker).SetClientID("probe")
	deadline := time.Now().Add(timeout)
	var lastErr error
	for time.Now().Before(deadline) {
		cli := paho.NewClient(opts)
		token := cli.Connect()
		token.Wait()
		if token.Error() == nil {
			cli.Disconnect(100)
			return nil
		}
		lastErr = token.Error()
		time.Sleep(100 * time.Millisecond)
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("timeout waiting for broker")
	}
	return lastErr
}

func waitForVersion(store *snapshot.Store, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if store.Version() != "" && store.Index().Len() > 0 {
			return nil
		}
		time.Sleep(50 * time.Millisecond)
	}
	return fmt.Errorf("roster never arrived")
}

func TestRosterFeedRoundTrip(t *testing.T) {
	if _, err := exec.LookPath("docker"); err != nil {
		t.Skip("docker not installed")
	}
	ctx := context.Background()

	cont, broker := startMosquitto(ctx, t)
	defer func() { _ = cont.Terminate(ctx) }()

	cfg := config.Default()
	window, err := cfg.Engine.Window()
	if err != nil {
		t.Fatalf("engine window: %v", err)
	}
	store := snapshot.New(analytics.Params{Window: window}, nil, nil)

	feedCfg := ingest.Config{Enabled: true, Broker: broker, Topic: "deptsched/roster"}
	feedCfg.SetDefaults()
	sub, err := ingest.NewSubscriber(feedCfg, func(records []model.RawCommitment) {
		store.Update(records)
	})
	if err != nil {
		t.Fatalf("subscriber: %v", err)
	}
	defer sub.Close()

	pubOpts := paho.NewClientOptions().AddBroker(broker).SetClientID("roster-pub")
	pub := paho.NewClient(pubOpts)
	if token := pub.Connect(); !token.WaitTimeout(5*time.Second) || token.Error() != nil {
		t.Fatalf("publisher connect: %v", token.Error())
	}
	defer pub.Disconnect(100)

	roster := []model.RawCommitment{
		{Instructor: "Dr. A", Course: "CS 101", Day: "M", StartText: "9:00 am", EndText: "10:00 am", Room: "Cashion 101"},
		{Instructor: "Staff", Course: "CS 102", Day: "T", StartText: "1:00 pm", EndText: "2:00 pm", Room: "Cashion 102"},
	}
	payload, err := json.Marshal(roster)
	if err != nil {
		t.Fatalf("marshal roster: %v", err)
	}
	if token := pub.Publish("deptsched/roster", 1, false, payload); !token.WaitTimeout(5*time.Second) || token.Error() != nil {
		t.Fatalf("publish: %v", token.Error())
	}

	if err := waitForVersion(store, 5*time.Second); err != nil {
		t.Fatalf("wait: %v", err)
	}

	ts := httptest.NewServer(api.NewMux(store, cfg.Engine, nil))
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/availability?instructor=Dr.+A&day=M&buffer=0")
	if err != nil {
		t.Fatalf("availability: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: %d", resp.StatusCode)
	}
	var out struct {
		Slots []api.Slot `json:"slots"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Slots) != 2 {
		t.Fatalf("expected the 9-10 session to split the day, got %+v", out.Slots)
	}

	rosterResp, err := http.Get(ts.URL + "/api/roster")
	if err != nil {
		t.Fatalf("roster: %v", err)
	}
	defer func() { _ = rosterResp.Body.Close() }()
	var rosterOut struct {
		Version string                `json:"version"`
		Records []model.RawCommitment `json:"records"`
	}
	if err := json.NewDecoder(rosterResp.Body).Decode(&rosterOut); err != nil {
		t.Fatalf("decode roster: %v", err)
	}
	if rosterOut.Version == "" || len(rosterOut.Records) != 2 {
		t.Fatalf("unexpected roster snapshot %+v", rosterOut)
	}
}
