package canvas

import "fmt"

// Command is one recorded drawing call. Paint commands (stroke, fill, text)
// carry the paint state at the time of the call.
type Command struct {
	Op    string
	Args  []float64
	Text  string
	State State
}

func (c Command) String() string {
	if c.Text != "" {
		return fmt.Sprintf("%s(%q %v)", c.Op, c.Text, c.Args)
	}
	return fmt.Sprintf("%s%v", c.Op, c.Args)
}

// Recorder is a Context that records every call instead of drawing.
type Recorder struct {
	paint
	Commands []Command
}

var _ Context = (*Recorder)(nil)

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder { return &Recorder{paint: newPaint()} }

func (r *Recorder) add(op string, args ...float64) {
	r.Commands = append(r.Commands, Command{Op: op, Args: args})
}

func (r *Recorder) BeginPath()          { r.add("beginPath") }
func (r *Recorder) MoveTo(x, y float64) { r.add("moveTo", x, y) }
func (r *Recorder) LineTo(x, y float64) { r.add("lineTo", x, y) }

func (r *Recorder) QuadraticCurveTo(cpx, cpy, x, y float64) {
	r.add("quadraticCurveTo", cpx, cpy, x, y)
}

func (r *Recorder) Arc(x, y, rad float64) { r.add("arc", x, y, rad) }

func (r *Recorder) Stroke() {
	r.Commands = append(r.Commands, Command{Op: "stroke", State: r.st})
}

func (r *Recorder) Fill() {
	r.Commands = append(r.Commands, Command{Op: "fill", State: r.st})
}

func (r *Recorder) FillText(text string, x, y float64) {
	r.Commands = append(r.Commands, Command{Op: "fillText", Args: []float64{x, y}, Text: text, State: r.st})
}

// Count returns how many commands with the given op were recorded.
func (r *Recorder) Count(op string) int {
	n := 0
	for _, c := range r.Commands {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Last returns the most recent command with the given op.
func (r *Recorder) Last(op string) (Command, bool) {
	for i := len(r.Commands) - 1; i >= 0; i-- {
		if r.Commands[i].Op == op {
			return r.Commands[i], true
		}
	}
	return Command{}, false
}

// Reset drops recorded commands and restores the default state.
func (r *Recorder) Reset() {
	r.Commands = r.Commands[:0]
	r.paint = newPaint()
}
