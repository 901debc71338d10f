package workout

import (
	"encoding/json"
	"fmt"
	"strings"
)

// WorkoutMode selects how the rep targets are scaled
type WorkoutMode string

const (
	ModeFull    WorkoutMode = "full"
	ModeHalf    WorkoutMode = "half"
	ModeQuarter WorkoutMode = "quarter"
)

// AllModes lists the modes in the order they are offered to the user
var AllModes = []WorkoutMode{ModeFull, ModeHalf, ModeQuarter}

// ParseWorkoutMode converts user input into a WorkoutMode
func ParseWorkoutMode(s string) (WorkoutMode, error) {
	switch WorkoutMode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeFull:
		return ModeFull, nil
	case ModeHalf:
		return ModeHalf, nil
	case ModeQuarter:
		return ModeQuarter, nil
	}
	return "", fmt.Errorf("unknown workout mode %q (want full, half or quarter)", s)
}

// ScaleFactor returns the multiplier applied to the base rep targets
func (m WorkoutMode) ScaleFactor() float64 {
	switch m {
	case ModeHalf:
		return 0.5
	case ModeQuarter:
		return 0.25
	default:
		return 1.0
	}
}

// DisplayName is the user facing name of the workout for this mode
func (m WorkoutMode) DisplayName() string {
	switch m {
	case ModeHalf:
		return "Half Murph"
	case ModeQuarter:
		return "Quarter Murph"
	default:
		return "Murph Challenge"
	}
}

// RunDistance is the label used for the run sections
func (m WorkoutMode) RunDistance() string {
	switch m {
	case ModeHalf:
		return "Half Mile"
	case ModeQuarter:
		return "Quarter Mile"
	default:
		return "Mile"
	}
}

// SectionType distinguishes binary sections from rep counters
type SectionType string

const (
	SectionCheckbox SectionType = "checkbox"
	SectionReps     SectionType = "reps"
)

// Section is one exercise unit within a workout.
// Checkbox sections use Done; reps sections use Count, Total and LastAction.
type Section struct {
	ID   string
	Name string
	Type SectionType
	Icon string

	Done bool // checkbox only

	Total      int  // reps only, > 0
	Count      int  // reps only, 0 <= Count <= Total
	LastAction *int // reps only, size of the most recent increment
}

// IsCheckbox reports whether the section is a binary task
func (s Section) IsCheckbox() bool { return s.Type == SectionCheckbox }

// IsReps reports whether the section is a rep counter
func (s Section) IsReps() bool { return s.Type == SectionReps }

// Remaining returns the reps left to reach the target (0 for checkbox sections)
func (s Section) Remaining() int {
	if !s.IsReps() {
		return 0
	}
	if r := s.Total - s.Count; r > 0 {
		return r
	}
	return 0
}

// IsDone reports whether the section met its target
func (s Section) IsDone() bool {
	if s.IsCheckbox() {
		return s.Done
	}
	return s.Count >= s.Total
}

// sectionJSON is the persisted shape. "completed" is a bool for checkbox
// sections and an integer for reps sections.
type sectionJSON struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Type       SectionType     `json:"type"`
	Completed  json.RawMessage `json:"completed"`
	Total      *int            `json:"total,omitempty"`
	LastAction *int            `json:"lastAction"`
	Icon       string          `json:"icon,omitempty"`
}

func (s Section) MarshalJSON() ([]byte, error) {
	out := sectionJSON{
		ID:   s.ID,
		Name: s.Name,
		Type: s.Type,
		Icon: s.Icon,
	}
	var err error
	switch s.Type {
	case SectionCheckbox:
		out.Completed, err = json.Marshal(s.Done)
	case SectionReps:
		total := s.Total
		out.Total = &total
		out.LastAction = s.LastAction
		out.Completed, err = json.Marshal(s.Count)
	default:
		return nil, fmt.Errorf("section %q: unknown type %q", s.ID, s.Type)
	}
	if err != nil {
		return nil, err
	}
	return json.Marshal(out)
}

func (s *Section) UnmarshalJSON(data []byte) error {
	var in sectionJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*s = Section{ID: in.ID, Name: in.Name, Type: in.Type, Icon: in.Icon}
	switch in.Type {
	case SectionCheckbox:
		if len(in.Completed) > 0 {
			if err := json.Unmarshal(in.Completed, &s.Done); err != nil {
				return fmt.Errorf("section %q: completed: %w", in.ID, err)
			}
		}
	case SectionReps:
		if in.Total != nil {
			s.Total = *in.Total
		}
		if len(in.Completed) > 0 {
			if err := json.Unmarshal(in.Completed, &s.Count); err != nil {
				return fmt.Errorf("section %q: completed: %w", in.ID, err)
			}
		}
		s.LastAction = in.LastAction
	default:
		return fmt.Errorf("section %q: unknown type %q", in.ID, in.Type)
	}
	return nil
}

// WorkoutState is the aggregate record for one workout attempt.
// StartTime and ElapsedTime are Unix milliseconds to keep the stored shape stable.
type WorkoutState struct {
	TimerEnabled   bool        `json:"timerEnabled"`
	WorkoutMode    WorkoutMode `json:"workoutMode"`
	IsHalfMurph    bool        `json:"isHalfMurph"`
	IsQuarterMurph bool        `json:"isQuarterMurph"`
	StartTime      *int64      `json:"startTime"`
	ElapsedTime    int64       `json:"elapsedTime"`
	IsPaused       bool        `json:"isPaused"`
	IsComplete     bool        `json:"isComplete"`
	Sections       []Section   `json:"sections"`
}

// Clone returns a deep copy that shares no memory with s
func (s WorkoutState) Clone() WorkoutState {
	out := s
	if s.StartTime != nil {
		st := *s.StartTime
		out.StartTime = &st
	}
	if s.Sections != nil {
		out.Sections = make([]Section, len(s.Sections))
		for i, sec := range s.Sections {
			if sec.LastAction != nil {
				la := *sec.LastAction
				sec.LastAction = &la
			}
			out.Sections[i] = sec
		}
	}
	return out
}

// FindSection returns the index of the section with the given id, or -1
func (s WorkoutState) FindSection(id string) int {
	for i := range s.Sections {
		if s.Sections[i].ID == id {
			return i
		}
	}
	return -1
}

// Validate checks the structural requirements for a stored workout
func (s WorkoutState) Validate() error {
	if len(s.Sections) == 0 {
		return fmt.Errorf("workout has no sections")
	}
	seen := make(map[string]bool, len(s.Sections))
	for _, sec := range s.Sections {
		if sec.ID == "" {
			return fmt.Errorf("section without id")
		}
		if seen[sec.ID] {
			return fmt.Errorf("duplicate section id %q", sec.ID)
		}
		seen[sec.ID] = true
		switch sec.Type {
		case SectionCheckbox:
		case SectionReps:
			if sec.Total <= 0 {
				return fmt.Errorf("section %q: total must be positive, got %d", sec.ID, sec.Total)
			}
			if sec.Count < 0 || sec.Count > sec.Total {
				return fmt.Errorf("section %q: completed %d outside 0..%d", sec.ID, sec.Count, sec.Total)
			}
		default:
			return fmt.Errorf("section %q: unknown type %q", sec.ID, sec.Type)
		}
	}
	if s.ElapsedTime < 0 {
		return fmt.Errorf("negative elapsed time %d", s.ElapsedTime)
	}
	return nil
}
