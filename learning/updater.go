package learning

import "github.com/chewxy/math32"
import "github.com/pkg/errors"

import "github.com/neurlang/textcnn/layer"

// Updater applies one optimization step from the gradients held in params.
type Updater interface {
	Update(params []*layer.Param)

	// Steps returns how many updates were applied.
	Steps() int

	// State snapshots the optimizer for a checkpoint.
	State() State

	// Restore loads a snapshot taken by State. It fails if the snapshot does
	// not fit params.
	Restore(s State, params []*layer.Param) error
}

// State is the serializable optimizer state. Slots maps "<param>/<slot>"
// to a buffer the size of the parameter.
type State struct {
	Updater string               `json:"updater"`
	Step    int                  `json:"step"`
	Slots   map[string][]float32 `json:"slots,omitempty"`
}

// SGD is plain gradient descent.
type SGD struct {
	h    HyperParameters
	step int
}

// Update implements Updater.
func (s *SGD) Update(params []*layer.Param) {
	s.step++
	for _, p := range params {
		for i, g := range p.Grad {
			p.Value[i] -= s.h.LearningRate * g
		}
	}
}

// Steps implements Updater.
func (s *SGD) Steps() int {
	return s.step
}

// State implements Updater.
func (s *SGD) State() State {
	return State{Updater: UpdaterSGD, Step: s.step}
}

// Restore implements Updater.
func (s *SGD) Restore(st State, params []*layer.Param) error {
	if st.Updater != UpdaterSGD {
		return errors.Errorf("optimizer state is %q, not %q", st.Updater, UpdaterSGD)
	}
	s.step = st.Step
	return nil
}

// Adam keeps bias-corrected first and second moment estimates per parameter.
type Adam struct {
	h    HyperParameters
	step int
	m, v map[string][]float32
}

// Update implements Updater.
func (a *Adam) Update(params []*layer.Param) {
	a.step++
	t := float32(a.step)
	c1 := 1 - math32.Pow(a.h.Beta1, t)
	c2 := 1 - math32.Pow(a.h.Beta2, t)
	for _, p := range params {
		m, v := a.m[p.Name], a.v[p.Name]
		if m == nil {
			m = make([]float32, p.Len())
			v = make([]float32, p.Len())
			a.m[p.Name], a.v[p.Name] = m, v
		}
		for i, g := range p.Grad {
			m[i] = a.h.Beta1*m[i] + (1-a.h.Beta1)*g
			v[i] = a.h.Beta2*v[i] + (1-a.h.Beta2)*g*g
			p.Value[i] -= a.h.LearningRate * (m[i] / c1) / (math32.Sqrt(v[i]/c2) + a.h.Epsilon)
		}
	}
}

// Steps implements Updater.
func (a *Adam) Steps() int {
	return a.step
}

// State implements Updater.
func (a *Adam) State() State {
	s := State{Updater: UpdaterAdam, Step: a.step, Slots: map[string][]float32{}}
	for name, m := range a.m {
		s.Slots[name+"/m"] = append([]float32(nil), m...)
		s.Slots[name+"/v"] = append([]float32(nil), a.v[name]...)
	}
	return s
}

// Restore implements Updater.
func (a *Adam) Restore(st State, params []*layer.Param) error {
	if st.Updater != UpdaterAdam {
		return errors.Errorf("optimizer state is %q, not %q", st.Updater, UpdaterAdam)
	}
	m, v := map[string][]float32{}, map[string][]float32{}
	for _, p := range params {
		sm, okm := st.Slots[p.Name+"/m"]
		sv, okv := st.Slots[p.Name+"/v"]
		if !okm && !okv {
			continue
		}
		if len(sm) != p.Len() || len(sv) != p.Len() {
			return errors.Errorf("optimizer slot %s has %d/%d values, want %d", p.Name, len(sm), len(sv), p.Len())
		}
		m[p.Name] = append([]float32(nil), sm...)
		v[p.Name] = append([]float32(nil), sv...)
	}
	a.step, a.m, a.v = st.Step, m, v
	return nil
}
