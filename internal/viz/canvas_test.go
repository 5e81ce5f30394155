package viz

import (
	"strings"
	"testing"
)

func TestCanvasSetAndRender(t *testing.T) {
	c := NewCanvas(4, 2)

	out := c.String()
	if want := strings.Repeat("⠀⠀⠀⠀\n", 2); out != want {
		t.Fatalf("empty canvas rendered %q", out)
	}

	c.Set(0, 0)
	out = c.String()
	if []rune(out)[0] != 0x2801 {
		t.Errorf("top left dot rendered %U, want U+2801", []rune(out)[0])
	}

	// Out of range dots must be ignored.
	c.Set(-1, 0)
	c.Set(0, -4)
	c.Set(8, 0)
	c.Set(0, 8)
	if c.String() != out {
		t.Error("out of range Set changed the canvas")
	}
}

func TestCanvasClear(t *testing.T) {
	c := NewCanvas(3, 3)
	c.Set(2, 2)
	c.Set(5, 11)
	c.Clear()
	for _, r := range c.String() {
		if r != 0x2800 && r != '\n' {
			t.Fatalf("cell %U left after Clear", r)
		}
	}
}

func TestCanvasLineEndpoints(t *testing.T) {
	c := NewCanvas(10, 5)
	c.Line(0, 0, 19, 19)

	probe := NewCanvas(10, 5)
	probe.Set(0, 0)
	first := []rune(probe.String())[0]
	if []rune(c.String())[0]&first != first {
		t.Error("line missing its start dot")
	}
	probe.Clear()
	probe.Set(19, 19)
	rows := strings.Split(probe.String(), "\n")
	lastCell := []rune(rows[4])[9]
	rowsGot := strings.Split(c.String(), "\n")
	if []rune(rowsGot[4])[9]&lastCell != lastCell {
		t.Error("line missing its end dot")
	}
}

func TestFrameKeepsAspect(t *testing.T) {
	c := NewCanvas(40, 10) // 80x40 dots, y is the short side
	f := NewFrame(c, 0, 0, 2)

	// One world unit must map to the same number of dots on both axes.
	x0, y0 := f.dot(0, 0)
	x1, _ := f.dot(1, 0)
	_, y1 := f.dot(0, 1)
	dxDots := x1 - x0
	dyDots := y0 - y1
	if dxDots != dyDots {
		t.Errorf("anisotropic frame: 1 unit = %d dots in x, %d in y", dxDots, dyDots)
	}
	if dxDots == 0 {
		t.Error("degenerate frame scale")
	}
}

func TestTrajectoriesRendersAllBodies(t *testing.T) {
	// Two bodies tracing short horizontal paths.
	states := [][]float64{
		{-1, 1, 0, 0, 0, 0 /**/, -1, -1, 0, 0, 0, 0},
		{0, 1, 0, 0, 0, 0 /**/, 0, -1, 0, 0, 0, 0},
		{1, 1, 0, 0, 0, 0 /**/, 1, -1, 0, 0, 0, 0},
	}
	out := Trajectories(states, 20, 10)
	if out == "" {
		t.Fatal("no output")
	}
	lit := 0
	for _, r := range out {
		if r >= 0x2800 && r <= 0x28FF && r != 0x2800 {
			lit++
		}
	}
	if lit < 2 {
		t.Errorf("only %d cells lit, want trajectories for both bodies", lit)
	}
	if !strings.Contains(out, "extent") {
		t.Error("missing extent footer")
	}
}

func TestTrajectoriesEmptyInput(t *testing.T) {
	if out := Trajectories(nil, 10, 10); out != "" {
		t.Errorf("nil states rendered %q", out)
	}
	if out := Trajectories([][]float64{{1, 2}}, 10, 10); out != "" {
		t.Errorf("short rows rendered %q", out)
	}
}

func TestEnergyErrorFloorsAtMachineEpsilon(t *testing.T) {
	out := EnergyError([]float64{-1, -1, -1})
	if out == "" {
		t.Fatal("no output for a flat series")
	}
	if EnergyError([]float64{0, 0}) != "" {
		t.Error("zero reference energy should render nothing")
	}
	if EnergyError([]float64{-1}) != "" {
		t.Error("single sample should render nothing")
	}
}
