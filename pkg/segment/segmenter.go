package segment

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/chenBenjamin97/football-coach/pkg/utils"
	"github.com/chenBenjamin97/football-coach/pkg/video"
	"github.com/rs/zerolog/log"
)

//maxLineSize bounds one subject line, a mask of a full 4K frame is ~60MB of JSON
const maxLineSize = 128 << 20

//subjectRecord is one subject line printed by the segmentation process
type subjectRecord struct {
	ID     int
	X      int
	Y      int
	Width  int
	Height int
	Mask   []float32
}

//Process runs an external segmentation program. The program gets the frame as raw RGB bytes on
//standard input ("--width W --height H" are appended to Args), prints one JSON subject per line
//and a final "EOF" line.
type Process struct {
	Command string
	Args    []string
	Timeout time.Duration
}

func NewProcess(command string, args []string, timeout time.Duration) *Process {
	return &Process{Command: command, Args: args, Timeout: timeout}
}

//Segment returns subjects ordered by ID. An empty result is an error.
func (p *Process) Segment(ctx context.Context, img *video.Image) ([]video.Subject, error) {
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	args := append(append([]string{}, p.Args...), "--width", strconv.Itoa(img.Width), "--height", strconv.Itoa(img.Height))
	cmd := exec.CommandContext(ctx, p.Command, args...)
	//children of the segmenter inherit its stdout, cancellation must reach them too
	killProcessGroupOnCancel(cmd)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("Segment: Error getting process standard input, got '%v'", err)
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("Segment: Error getting process standard output, got '%v'", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("Segment: Error executing '%s', got '%v'", p.Command, err)
	}

	//write frame while reading, the process may start printing before it read everything
	writeErrC := make(chan error, 1)
	go func() {
		_, err := stdin.Write(img.Pix)
		stdin.Close()
		writeErrC <- err
	}()

	subjects, readErr := ReadSubjects(stdout)

	//drain the rest so the process is never blocked on a full pipe
	io.Copy(io.Discard, stdout)

	waitErr := cmd.Wait()
	writeErr := <-writeErrC

	if ctxErr := ctx.Err(); ctxErr != nil && (readErr != nil || waitErr != nil) {
		return nil, fmt.Errorf("Segment: '%s' did not finish, got '%w'", p.Command, ctxErr)
	}
	if readErr != nil {
		return nil, readErr
	}
	if waitErr != nil {
		return nil, fmt.Errorf("Segment: Error waiting '%s', got '%v'", p.Command, waitErr)
	}
	if writeErr != nil {
		return nil, fmt.Errorf("Segment: Error writing frame, got '%v'", writeErr)
	}

	return subjects, nil
}

//ReadSubjects scans segmentation output until the "EOF" line
func ReadSubjects(r io.Reader) ([]video.Subject, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	subjects := make([]video.Subject, 0)
	seen := make(map[int]bool)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == utils.SegmenterEOF {
			if len(subjects) == 0 {
				return nil, errors.New("ReadSubjects: segmentation returned no subjects")
			}
			sort.SliceStable(subjects, func(i, j int) bool { return subjects[i].ID < subjects[j].ID })
			return subjects, nil
		}

		if !strings.HasPrefix(line, "{\"ID\":") { //log print of the process, skip it
			if line != "" {
				log.Debug().Str("line", line).Msg("Segmenter output")
			}
			continue
		}

		rec := subjectRecord{}
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			return nil, fmt.Errorf("ReadSubjects: Error parsing subject line, got '%v'", err)
		}

		if seen[rec.ID] {
			return nil, fmt.Errorf("ReadSubjects: duplicated subject ID %d", rec.ID)
		}
		seen[rec.ID] = true

		s := video.Subject{
			ID:   rec.ID,
			Box:  video.BoundingBox{X: rec.X, Y: rec.Y, Width: rec.Width, Height: rec.Height},
			Mask: rec.Mask,
		}
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("ReadSubjects: %v", err)
		}

		subjects = append(subjects, s)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("ReadSubjects: Error reading output, got '%v'", err)
	}

	return nil, errors.New("ReadSubjects: output ended without EOF line")
}
