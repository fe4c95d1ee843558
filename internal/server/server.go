// Package server runs the line-oriented request loop consumed by the
// chat/UI collaborator and hot-reloads configuration on file changes.
package server

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Saisusmitha27/AquaGuard-AI-Smart-Water-Allocation-Compliance-System/internal/config"
	"github.com/Saisusmitha27/AquaGuard-AI-Smart-Water-Allocation-Compliance-System/internal/engine"
)

// Server reads one allocation request per input line and writes
// "status<TAB>message" per decision. Styling is the collaborator's job.
type Server struct {
	sys     *engine.System
	cfgPath string
	drought bool
	in      io.Reader
	out     io.Writer
}

// New creates a Server over the given system.
func New(sys *engine.System, cfgPath string, drought bool, in io.Reader, out io.Writer) *Server {
	return &Server{
		sys:     sys,
		cfgPath: cfgPath,
		drought: drought,
		in:      in,
		out:     out,
	}
}

// Run processes request lines until the input closes or ctx is cancelled.
// Blank lines are skipped.
func (s *Server) Run(ctx context.Context) error {
	lines := make(chan string)
	scanErr := make(chan error, 1)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(s.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					if err != nil {
						return fmt.Errorf("server: read input: %w", err)
					}
				default:
				}
				return nil
			}
			if strings.TrimSpace(line) == "" {
				continue
			}
			msg, status := s.sys.ProcessRequest(line, s.drought)
			fmt.Fprintf(s.out, "%s\t%s\n", status, msg)
		}
	}
}

// ReloadConfig re-reads the config file and swaps it into the system.
func (s *Server) ReloadConfig() error {
	cfg, err := config.Load(s.cfgPath)
	if err != nil {
		return err
	}
	s.sys.SetConfig(cfg)
	return nil
}
