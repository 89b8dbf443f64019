package main

import (
	"fmt"

	"fortio.org/safecast"
	"github.com/BurntSushi/toml"

	"github.com/wippyai/ownkit/alloc"
	"github.com/wippyai/ownkit/owner"
)

// scenario holds the id, name, and payload values the driver runs with.
type scenario struct {
	ID      int
	Name    string
	Initial int
	Copied  int
	Moved   int
	Final   int
}

// defaultScenario is the reference sequence: 101, 202, 303, 404.
func defaultScenario() scenario {
	return scenario{
		ID:      1,
		Name:    "id1",
		Initial: 101,
		Copied:  202,
		Moved:   303,
		Final:   404,
	}
}

// scenarioFile is the TOML shape of a scenario manifest.
type scenarioFile struct {
	Owner struct {
		ID   int64  `toml:"id"`
		Name string `toml:"name"`
	} `toml:"owner"`
	Values struct {
		Initial int64 `toml:"initial"`
		Copied  int64 `toml:"copied"`
		Moved   int64 `toml:"moved"`
		Final   int64 `toml:"final"`
	} `toml:"values"`
}

// loadScenario reads a TOML manifest. Fields the file leaves out keep their
// defaults.
func loadScenario(path string) (scenario, error) {
	def := defaultScenario()

	var file scenarioFile
	file.Owner.ID = int64(def.ID)
	file.Owner.Name = def.Name
	file.Values.Initial = int64(def.Initial)
	file.Values.Copied = int64(def.Copied)
	file.Values.Moved = int64(def.Moved)
	file.Values.Final = int64(def.Final)

	if _, err := toml.DecodeFile(path, &file); err != nil {
		return scenario{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}

	s := scenario{Name: file.Owner.Name}
	var err error
	if s.ID, err = convValue("owner.id", file.Owner.ID); err != nil {
		return scenario{}, err
	}
	if s.Initial, err = convValue("values.initial", file.Values.Initial); err != nil {
		return scenario{}, err
	}
	if s.Copied, err = convValue("values.copied", file.Values.Copied); err != nil {
		return scenario{}, err
	}
	if s.Moved, err = convValue("values.moved", file.Values.Moved); err != nil {
		return scenario{}, err
	}
	if s.Final, err = convValue("values.final", file.Values.Final); err != nil {
		return scenario{}, err
	}
	return s, nil
}

func convValue(field string, v int64) (int, error) {
	n, err := safecast.Conv[int](v)
	if err != nil {
		return 0, fmt.Errorf("scenario value %s: %w", field, err)
	}
	return n, nil
}

// runState carries the tracker and owners across scenario steps.
type runState struct {
	cfg    scenario
	tr     *alloc.Tracker
	owner1 *owner.Owner
	owner2 *owner.Owner
	owner3 *owner.Owner
}

func newRunState(cfg scenario) *runState {
	return &runState{
		cfg: cfg,
		tr:  alloc.NewTracker(),
	}
}

// step is one stage of the demonstration. run mutates the state and returns
// display lines for the owners it touched.
type step struct {
	title string
	run   func(*runState) ([]string, error)
}

func describe(label string, o *owner.Owner) string {
	return fmt.Sprintf("%s: %s", label, o)
}

// scenarioSteps builds the reference sequence: construct, copy-construct,
// copy-assign between two owning owners, move-construct, move-assign onto a
// moved-from owner, close everything.
func scenarioSteps() []step {
	return []step{
		{
			title: "construct owner1 with a fresh resource",
			run: func(st *runState) ([]string, error) {
				res, err := st.tr.Alloc(st.cfg.Initial)
				if err != nil {
					return nil, err
				}
				st.owner1 = owner.New(st.tr, st.cfg.ID, st.cfg.Name, res)
				return []string{describe("owner1", st.owner1)}, nil
			},
		},
		{
			title: "copy-construct owner2 from owner1",
			run: func(st *runState) ([]string, error) {
				o2, err := st.owner1.Clone()
				if err != nil {
					return nil, err
				}
				st.owner2 = o2
				return []string{describe("owner2", st.owner2)}, nil
			},
		},
		{
			title: "copy-assign owner2 = owner1",
			run: func(st *runState) ([]string, error) {
				// Both sides own, so the payload is copied in place and
				// owner2 keeps its handle
				st.owner1.Resource().SetValue(st.cfg.Copied)
				if err := st.owner2.CloneFrom(st.owner1); err != nil {
					return nil, err
				}
				return []string{describe("owner2", st.owner2)}, nil
			},
		},
		{
			title: "move-construct owner3 from owner1",
			run: func(st *runState) ([]string, error) {
				st.owner1.Resource().SetValue(st.cfg.Moved)
				st.owner3 = st.owner1.Move()
				return []string{
					describe("owner3", st.owner3),
					describe("owner1", st.owner1),
				}, nil
			},
		},
		{
			title: "move-assign owner1 = owner2",
			run: func(st *runState) ([]string, error) {
				st.owner2.Resource().SetValue(st.cfg.Final)
				st.owner1.MoveFrom(st.owner2)
				return []string{
					describe("owner1", st.owner1),
					describe("owner2", st.owner2),
				}, nil
			},
		},
		{
			title: "close all owners",
			run: func(st *runState) ([]string, error) {
				for _, o := range []*owner.Owner{st.owner1, st.owner2, st.owner3} {
					if err := o.Close(); err != nil {
						return nil, err
					}
				}
				allocs, frees := st.tr.Stats()
				return []string{
					fmt.Sprintf("live=%d allocs=%d frees=%d", st.tr.Live(), allocs, frees),
				}, nil
			},
		},
	}
}
