package platform

import (
	"fmt"
	"os/exec"
	"strconv"
	"time"

	"github.com/kumar10248/keyreplacer/internal/input/key"
)

type execTool string

const (
	execToolXdotool execTool = "xdotool"
	execToolWtype   execTool = "wtype"
)

// execSynthesizer shells out to an external typing tool. Slower than
// the keybd backend but handles arbitrary unicode and works where
// uinput access is unavailable.
type execSynthesizer struct {
	tool     execTool
	path     string
	keyDelay time.Duration
}

func newExecSynthesizer(tool execTool, keyDelay time.Duration) (Synthesizer, error) {
	path, err := exec.LookPath(string(tool))
	if err != nil {
		return nil, fmt.Errorf("%w: %s not found", ErrNoInjector, tool)
	}
	return &execSynthesizer{tool: tool, path: path, keyDelay: keyDelay}, nil
}

func (s *execSynthesizer) SynthesizeBackspace(n int) error {
	if n <= 0 {
		return nil
	}
	var args []string
	switch s.tool {
	case execToolXdotool:
		args = []string{"key", "--repeat", strconv.Itoa(n), "--delay",
			strconv.Itoa(int(s.keyDelay.Milliseconds())), "BackSpace"}
	case execToolWtype:
		args = make([]string, 0, 2*n)
		for i := 0; i < n; i++ {
			args = append(args, "-k", "BackSpace")
		}
	default:
		return ErrUnknownInjector
	}
	return s.run(args)
}

func (s *execSynthesizer) SynthesizeText(text string) error {
	if text == "" {
		return nil
	}
	var args []string
	switch s.tool {
	case execToolXdotool:
		args = []string{"type", "--delay",
			strconv.Itoa(int(s.keyDelay.Milliseconds())), "--", text}
	case execToolWtype:
		args = []string{"-d",
			strconv.Itoa(int(s.keyDelay.Milliseconds())), "--", text}
	default:
		return ErrUnknownInjector
	}
	return s.run(args)
}

func (s *execSynthesizer) SynthesizeKey(k key.Key) error {
	name, ok := execKeyNames[k]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnmappedRune, k)
	}
	switch s.tool {
	case execToolXdotool:
		return s.run([]string{"key", name})
	case execToolWtype:
		return s.run([]string{"-k", name})
	default:
		return ErrUnknownInjector
	}
}

func (s *execSynthesizer) run(args []string) error {
	out, err := exec.Command(s.path, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %w: %s", s.tool, err, out)
	}
	return nil
}

// execKeyNames uses xdotool keysym names, which wtype -k accepts too.
var execKeyNames = map[key.Key]string{
	key.KeyEnter:     "Return",
	key.KeyTab:       "Tab",
	key.KeyBackspace: "BackSpace",
	key.KeyEscape:    "Escape",
	key.KeyDelete:    "Delete",
}
