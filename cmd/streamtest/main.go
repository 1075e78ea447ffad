// streamtest connects to the Captain Up firehose once and prints decoded frames to console.
// Usage: go run ./cmd/streamtest --config configs/firehose.yaml --duration 2m
//
// Required environment variables (unless set in the config file):
//
//	APP_ID     - Captain Up application ID
//	APP_SECRET - Captain Up application secret
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rickgao/captainup-firehose/internal/ack"
	"github.com/rickgao/captainup-firehose/internal/config"
	"github.com/rickgao/captainup-firehose/internal/connection"
	"github.com/rickgao/captainup-firehose/internal/message"
	"github.com/rickgao/captainup-firehose/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/firehose.yaml", "path to config file (optional)")
	verbose := flag.Bool("verbose", false, "print full frame JSON")
	noAck := flag.Bool("no-ack", false, "do not acknowledge batches (the feed will redeliver them)")
	duration := flag.Duration("duration", 0, "stop after this long (0 = until Ctrl+C)")
	flag.Parse()

	// Setup logger
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	// Load config
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		logger.Info("Set environment variables: APP_ID and APP_SECRET")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if *duration > 0 {
		ctx, cancel = context.WithTimeout(ctx, *duration)
		defer cancel()
	}

	logger.Info("streamtest", "version", version.String())

	sessCfg := connection.SessionConfig{
		URL:              connection.BuildURL(cfg.Firehose.URL, cfg.Firehose.AppID, cfg.Firehose.AppSecret),
		HandshakeTimeout: cfg.Firehose.HandshakeTimeout,
		WriteTimeout:     cfg.Firehose.WriteTimeout,
	}

	sess, err := connection.Dial(ctx, sessCfg, logger)
	if err != nil {
		logger.Error("failed to connect", "error", err)
		os.Exit(1)
	}

	hb := connection.StartHeartbeat(ctx, sess, cfg.Firehose.HeartbeatInterval, nil, logger)

	// Receive blocks; closing the session is what unblocks it.
	stop := context.AfterFunc(ctx, func() {
		hb.Stop()
		sess.Close()
	})
	defer stop()

	var tracker *ack.Tracker
	if !*noAck {
		tracker = ack.NewTracker(ack.NewSet(cfg.Firehose.AckCapacity), nil, logger)
	}

	logger.Info("streaming started - press Ctrl+C to stop",
		"session_id", sess.ID(),
		"ack", !*noAck,
	)

	p := &printer{out: os.Stdout, verbose: *verbose}
	streamErr := stream(ctx, sess, tracker, p, logger)

	hb.Stop()
	sess.Close()

	logger.Info("stream stopped", "frames", p.frames, "batches", p.batches, "events", p.events)

	// Ending without Ctrl+C or -duration means the feed dropped us.
	if streamErr != nil {
		os.Exit(1)
	}
}

// stream prints frames until Receive fails. It returns nil when ctx ended the
// stream and the read error when the feed did.
func stream(ctx context.Context, sess connection.Session, tracker *ack.Tracker, p *printer, logger *slog.Logger) error {
	for {
		frame, err := sess.Receive()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			logger.Warn("stream ended", "error", err)
			return err
		}

		res := message.Decode(frame)
		p.print(frame, res)

		if res.Kind == message.KindBatch && tracker != nil {
			tracker.Acknowledge(sess, res.Batch.ID)
		}
	}
}

// printer writes one line per frame, or the raw JSON in verbose mode.
type printer struct {
	out     io.Writer
	verbose bool

	frames, batches, events int
}

func (p *printer) print(frame []byte, res message.Result) {
	p.frames++
	ts := time.Now().Format(time.TimeOnly)

	switch res.Kind {
	case message.KindErrorFrame:
		fmt.Fprintf(p.out, "%s [ERROR FRAME] %v\n", ts, res.ErrorFrame)
	case message.KindDecodeFailure:
		fmt.Fprintf(p.out, "%s [UNPARSEABLE] %v: %q\n", ts, res.Err, frame)
	case message.KindBatch:
		p.batches++
		p.events += len(res.Batch.Events)
		fmt.Fprintf(p.out, "%s [BATCH] auid=%s events=%d\n", ts, res.Batch.ID, len(res.Batch.Events))
		for _, ev := range res.Batch.Events {
			fmt.Fprintf(p.out, "%s   [EVENT] type=%q\n", ts, ev.Type)
		}
	}

	if p.verbose {
		fmt.Fprintf(p.out, "%s\n", frame)
	}
}
