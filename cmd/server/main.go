package main

import (
	"bufio"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/redbco/coldb/internal/catalog"
	"github.com/redbco/coldb/internal/executor"
	"github.com/redbco/coldb/internal/parser"
	"github.com/redbco/coldb/internal/persistence"
	"github.com/redbco/coldb/internal/protocol"
	"github.com/redbco/coldb/internal/session"
	"github.com/redbco/coldb/pkg/config"
	"github.com/redbco/coldb/pkg/logger"
)

var (
	socketPath = flag.String("socket", "", "path of the local stream socket to listen on")
	dataDir    = flag.String("data-dir", "", "persistence root directory")
)

func main() {
	flag.Parse()

	log := logger.New("server")
	cfg := config.NewServerConfig()
	if *socketPath != "" {
		cfg.SocketPath = *socketPath
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}

	cat := catalog.New()
	log.Infof("loading catalog from %s", cfg.DataDir)
	if err := persistence.Load(cat, cfg.DataDir); err != nil {
		log.Fatalf("startup load failed: %v", err)
	}

	exec := executor.New(cat, cfg.DataDir, log)
	prs := parser.New(cat)

	if err := os.RemoveAll(cfg.SocketPath); err != nil && !os.IsNotExist(err) {
		log.Fatalf("failed to remove stale socket %s: %v", cfg.SocketPath, err)
	}

	ln, err := net.Listen("unix", cfg.SocketPath)
	if err != nil {
		log.Fatalf("failed to listen on %s: %v", cfg.SocketPath, err)
	}
	defer ln.Close()
	log.Infof("listening on %s", cfg.SocketPath)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info("received shutdown signal")
		if err := persistence.Flush(cat, cfg.DataDir); err != nil {
			log.Errorf("flush on signal failed: %v", err)
		}
		ln.Close()
		os.Exit(0)
	}()

	// The core is single-threaded and session-serialized (spec §5): a
	// session is accepted, handled to completion, and only then is the
	// next session accepted.
	for {
		conn, err := ln.Accept()
		if err != nil {
			log.Infof("listener closed: %v", err)
			return
		}

		serve(conn, prs, exec, log)

		if exec.ShuttingDown() {
			log.Info("shutdown dispatched, closing listener")
			return
		}
	}
}

func serve(conn net.Conn, prs *parser.Parser, exec *executor.Executor, log *logger.Logger) {
	defer conn.Close()

	sess := session.New()
	defer sess.Release()
	log.Infof("session %s connected", sess.ID)
	defer log.Infof("session %s disconnected", sess.ID)

	scanner := bufio.NewScanner(conn)
	w := bufio.NewWriter(conn)

	for scanner.Scan() {
		line := scanner.Text()

		op, err := prs.Parse(sess, line)
		if err != nil {
			writeStatus(w, statusOf(err), nil)
			continue
		}
		if op == nil {
			writeStatus(w, protocol.OKDone, nil)
			continue
		}

		res := exec.Execute(op)
		if res.Err != nil {
			log.Warnf("session %s: %v", sess.ID, res.Err)
		}
		writeStatus(w, res.Status, res.Payload)

		if exec.ShuttingDown() {
			return
		}
	}
}

func statusOf(err error) protocol.StatusCode {
	if pe, ok := err.(*parser.Error); ok {
		return pe.Status
	}
	return protocol.IncorrectFormat
}

// writeStatus sends the response header ("status:<name> length:<n>\n")
// followed by length bytes of payload, if any (spec §6).
func writeStatus(w *bufio.Writer, status protocol.StatusCode, payload []byte) {
	fmt.Fprintf(w, "status:%s length:%d\n", status, len(payload))
	if len(payload) > 0 {
		w.Write(payload)
	}
	w.Flush()
}
