package phase

import "fmt"

// Phase indexes the three coil groups.
type Phase int

const (
	U Phase = iota
	V
	W
)

func (p Phase) String() string {
	switch p {
	case U:
		return "U"
	case V:
		return "V"
	case W:
		return "W"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// PhaseOf assigns generation index i to a group round robin.
func PhaseOf(i int) Phase { return Phase(i % 3) }

// Driven is anything whose current the controller sets, typically a coil.
type Driven interface {
	SetCurrent(float64)
}

// Controller assigns phase currents to every member of the U, V and W groups.
type Controller struct {
	groups   [3][]Driven
	currents UVW
}

func NewController() *Controller {
	return &Controller{}
}

// Add places d into group p and drives it with that group's present current.
func (c *Controller) Add(p Phase, d Driven) {
	c.groups[p] = append(c.groups[p], d)
	d.SetCurrent(c.currents[p])
}

func (c *Controller) Group(p Phase) []Driven { return c.groups[p] }

// Len returns the total number of driven members.
func (c *Controller) Len() int {
	return len(c.groups[U]) + len(c.groups[V]) + len(c.groups[W])
}

// SetCurrents drives every group with the given triple directly.
func (c *Controller) SetCurrents(u UVW) {
	c.currents = u
	for p := range c.groups {
		for _, d := range c.groups[p] {
			d.SetCurrent(u[p])
		}
	}
}

// SetAlphaBeta drives the groups with the inverse Clarke image of ab.
func (c *Controller) SetAlphaBeta(ab AlphaBeta) {
	c.SetCurrents(InverseClarke(ab))
}

// SetCurrentVector drives the groups with a current vector of the given
// magnitude pointing at angle.
func (c *Controller) SetCurrentVector(angle, magnitude float64) {
	c.SetAlphaBeta(Polar(angle, magnitude))
}

func (c *Controller) Currents() UVW { return c.currents }

// AlphaBeta returns the Clarke image of the present phase currents.
func (c *Controller) AlphaBeta() AlphaBeta { return Clarke(c.currents) }
