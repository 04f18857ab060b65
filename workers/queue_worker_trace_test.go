package workers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-xray-sdk-go/strategy/sampling"
	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/aws/aws-xray-sdk-go/xraylog"
	"github.com/rs/zerolog"

	"fanout-runner/logging"
	"fanout-runner/models"
	"fanout-runner/services"
)

// segmentRunner records the segment visible to the runner.
type segmentRunner struct {
	stubRunner
	mu  sync.Mutex
	seg *xray.Segment
}

func (s *segmentRunner) Run(ctx context.Context, req models.InvocationRequest) models.InvocationResponse {
	s.mu.Lock()
	s.seg = xray.GetSegment(ctx)
	s.mu.Unlock()
	return s.stubRunner.Run(ctx, req)
}

type alwaysSample struct{}

func (alwaysSample) ShouldTrace(*sampling.Request) *sampling.Decision {
	return &sampling.Decision{Sample: true}
}

type emittedSegment struct {
	Name        string                 `json:"name"`
	Annotations map[string]interface{} `json:"annotations"`
	Subsegments []emittedSegment       `json:"subsegments"`
}

func (s emittedSegment) find(name string) *emittedSegment {
	if s.Name == name {
		return &s
	}
	for _, sub := range s.Subsegments {
		if found := sub.find(name); found != nil {
			return found
		}
	}
	return nil
}

// fakeDaemon points the X-Ray emitter at a local UDP socket and samples
// every segment.
func fakeDaemon(t *testing.T) *net.UDPConn {
	t.Helper()
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	if err != nil {
		t.Fatalf("listen udp: %v", err)
	}
	t.Cleanup(func() {
		conn.Close()
		restore, err := sampling.NewCentralizedStrategy()
		if err != nil {
			t.Logf("restore sampling: %v", err)
			return
		}
		xray.Configure(xray.Config{DaemonAddr: "127.0.0.1:2000", SamplingStrategy: restore})
	})

	addr := conn.LocalAddr().String()
	t.Setenv("AWS_XRAY_DAEMON_ADDRESS", addr)
	if err := xray.Configure(xray.Config{DaemonAddr: addr, SamplingStrategy: alwaysSample{}}); err != nil {
		t.Fatalf("configure xray: %v", err)
	}
	return conn
}

// readSegment returns the first emitted segment named name.
func readSegment(t *testing.T, conn *net.UDPConn, name string) emittedSegment {
	t.Helper()
	buf := make([]byte, 64*1024)
	deadline := time.Now().Add(10 * time.Second)
	for {
		conn.SetReadDeadline(deadline)
		n, _, err := conn.ReadFromUDP(buf)
		if err != nil {
			t.Fatalf("no %q segment emitted: %v", name, err)
		}
		// Each packet is a JSON header line followed by the segment document.
		_, body, ok := bytes.Cut(buf[:n], []byte("\n"))
		if !ok {
			continue
		}
		var seg emittedSegment
		if err := json.Unmarshal(body, &seg); err != nil {
			continue
		}
		if seg.Name == name {
			return seg
		}
	}
}

func TestQueueWorker_RunsInsideSegment(t *testing.T) {
	var xrayLogs bytes.Buffer
	xray.SetLogger(logging.NewXRayLogger(logging.NewZerologAdapter(zerolog.New(zerolog.SyncWriter(&xrayLogs)))))
	t.Cleanup(func() { xray.SetLogger(xraylog.NewDefaultLogger(os.Stderr, xraylog.LogLevelInfo)) })

	runner := &segmentRunner{}
	w, redisSvc, _, _ := newTestWorker(t, runner)
	w.segment = "fanout-worker-test"

	ctx := context.Background()
	if err := redisSvc.PushInvocation(ctx, &models.QueuedInvocation{InvocationID: "job-seg"}); err != nil {
		t.Fatal(err)
	}
	w.Start(ctx)
	defer w.Stop()

	waitForResult(t, redisSvc, "job-seg")

	runner.mu.Lock()
	seg := runner.seg
	runner.mu.Unlock()
	if seg == nil {
		t.Fatal("runner ran without an X-Ray segment")
	}
	if seg.Name != "fanout-worker-test" {
		t.Errorf("segment name = %q", seg.Name)
	}
	if bytes.Contains(xrayLogs.Bytes(), []byte("segment cannot be found")) {
		t.Errorf("X-Ray reported a missing segment: %s", xrayLogs.String())
	}
}

func TestQueueWorker_TraceCarriesAllCompleted(t *testing.T) {
	conn := fakeDaemon(t)

	runner := services.NewFanoutRunner(services.WithOutput(io.Discard))
	w, redisSvc, _, _ := newTestWorker(t, runner)
	w.segment = "fanout-worker-trace"

	ctx := context.Background()
	if err := redisSvc.PushInvocation(ctx, &models.QueuedInvocation{InvocationID: "job-traced"}); err != nil {
		t.Fatal(err)
	}
	w.Start(ctx)
	defer w.Stop()

	waitForResult(t, redisSvc, "job-traced")
	seg := readSegment(t, conn, "fanout-worker-trace")

	if seg.Annotations["invocation_id"] != "job-traced" {
		t.Errorf("invocation_id annotation = %v", seg.Annotations["invocation_id"])
	}
	if seg.Annotations["status"] != string(models.StatusCompleted) {
		t.Errorf("status annotation = %v", seg.Annotations["status"])
	}

	run := seg.find("FanoutRunner.Run")
	if run == nil {
		t.Fatalf("no FanoutRunner.Run subsegment in %+v", seg)
	}
	if run.Annotations["all_completed"] != true {
		t.Errorf("all_completed annotation = %v, want true", run.Annotations["all_completed"])
	}
	if seg.find("Redis.Set") == nil {
		t.Errorf("no Redis.Set subsegment in %+v", seg)
	}
}
