package shell

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/runoshun/mfnd/internal/domain"
)

// startRecording writes every following line to path, replacing its
// previous content.
func (s *Session) startRecording(path string) error {
	if err := s.stopRecording(); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: record: %v", domain.ErrUnknownCommand, err)
	}
	s.recorder = f
	s.logger.Info("record", "recording to "+path)
	return nil
}

func (s *Session) stopRecording() error {
	if s.recorder == nil {
		return nil
	}
	err := s.recorder.Close()
	s.recorder = nil
	return err
}

// record appends a line to the active recording. Playback lines are
// skipped so a recording never replays itself.
func (s *Session) record(args []string) {
	if s.recorder == nil || args[0] == "playback" {
		return
	}
	if _, err := fmt.Fprintln(s.recorder, strings.Join(args, " ")); err != nil {
		s.logger.Warn("record", err.Error())
	}
}

// playback stops recording and queues the lines of path.
func (s *Session) playback(path string) error {
	if err := s.stopRecording(); err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: playback: %v", domain.ErrUnknownCommand, err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("%w: playback: %v", domain.ErrUnknownCommand, err)
	}
	s.queue = append(lines, s.queue...)
	s.logger.Info("playback", fmt.Sprintf("queued %d lines from %s", len(lines), path))
	return nil
}
