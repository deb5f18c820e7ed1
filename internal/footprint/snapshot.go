package footprint

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Input limits.
const (
	MinLifespanYears = 0.5
	MaxLifespanYears = 20.0
	MaxHoursPerDay   = 8.0
)

// Snapshot is the immutable input of one submission.
type Snapshot struct {
	Role       Role            `json:"role" yaml:"role"`
	Devices    []DeviceEntry   `json:"devices,omitempty" yaml:"devices,omitempty"`
	Activities ActivityProfile `json:"activities,omitempty" yaml:"activities,omitempty"`
	Habits     HabitProfile    `json:"habits" yaml:"habits"`
	AIUsage    AIUsageProfile  `json:"ai_usage,omitempty" yaml:"ai_usage,omitempty"`

	// Methodology is an optional semver constraint on MethodologyVersion.
	Methodology string `json:"methodology,omitempty" yaml:"methodology,omitempty"`
}

// Breakdown computes the footprint of a validated snapshot.
func (s Snapshot) Breakdown() Breakdown {
	return ComputeBreakdown(s.Devices, s.Role, s.Activities, s.Habits, s.AIUsage)
}

// Clone returns a deep copy so the caller can keep mutating its form state.
func (s Snapshot) Clone() Snapshot {
	out := s
	if s.Devices != nil {
		out.Devices = append([]DeviceEntry(nil), s.Devices...)
	}
	if s.Activities != nil {
		out.Activities = maps.Clone(s.Activities)
	}
	if s.AIUsage != nil {
		out.AIUsage = maps.Clone(s.AIUsage)
	}
	return out
}

// ApplyDefaults fills options left blank in a decoded document: devices
// default to new, personal and certified collection; idle behavior defaults
// to powering off. Lifespans are never defaulted.
func (s *Snapshot) ApplyDefaults() {
	for i := range s.Devices {
		d := &s.Devices[i]
		if d.Condition == "" {
			d.Condition = ConditionNew
		}
		if d.Sharing == "" {
			d.Sharing = SharingPersonal
		}
		if d.EndOfLife == "" {
			d.EndOfLife = EOLCertifiedCenter
		}
	}
	if s.Habits.Idle == "" {
		s.Habits.Idle = IdlePowerOff
	}
}

// Validate checks every field against its domain and returns all violations
// joined. Each violation matches ErrInvalidInput.
func (s Snapshot) Validate() error {
	var errs []error
	if err := CheckMethodology(s.Methodology); err != nil {
		errs = append(errs, err)
	}
	if !s.Role.Valid() {
		errs = append(errs, invalid("role", ErrInvalidRole, "%q", string(s.Role)))
	}
	for i, d := range s.Devices {
		if err := d.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("devices[%d]: %w", i, err))
		}
	}
	if s.Role.Valid() {
		if err := s.Activities.Validate(s.Role); err != nil {
			errs = append(errs, err)
		}
	}
	if err := s.Habits.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := s.AIUsage.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Validate checks a single device entry.
func (d DeviceEntry) Validate() error {
	var errs []error
	if !d.Type.Valid() {
		errs = append(errs, invalid("type", ErrInvalidDevice, "%q", string(d.Type)))
	}
	if !ValidLifespan(d.LifespanYears) {
		errs = append(errs, invalid("lifespan_years", ErrInvalidLifespan,
			"%g outside [%g, %g]", d.LifespanYears, MinLifespanYears, MaxLifespanYears))
	}
	if !d.Condition.Valid() {
		errs = append(errs, invalid("condition", ErrInvalidOption, "%q", string(d.Condition)))
	}
	if !d.Sharing.Valid() {
		errs = append(errs, invalid("sharing", ErrInvalidOption, "%q", string(d.Sharing)))
	}
	if !d.EndOfLife.Valid() {
		errs = append(errs, invalid("end_of_life", ErrInvalidOption, "%q", string(d.EndOfLife)))
	}
	return errors.Join(errs...)
}

// Validate checks that every activity belongs to the role and that hours are
// within [0, 8].
func (p ActivityProfile) Validate(role Role) error {
	var errs []error
	for _, a := range sortedKeys(p) {
		field := "activities." + string(a)
		if _, ok := role.ActivityFactor(a); !ok {
			errs = append(errs, invalid(field, ErrUnknownActivity, "role %s", role.Label()))
			continue
		}
		if h := p[a]; !inRange(h, 0, MaxHoursPerDay) {
			errs = append(errs, invalid(field, ErrInvalidHours, "%g outside [0, %g]", h, MaxHoursPerDay))
		}
	}
	return errors.Join(errs...)
}

// Validate checks buckets, counts and idle behavior.
func (h HabitProfile) Validate() error {
	var errs []error
	if !h.PlainEmails.Valid() {
		errs = append(errs, invalid("habits.plain_emails", ErrInvalidBucket, "%q", string(h.PlainEmails)))
	}
	if !h.AttachmentEmails.Valid() {
		errs = append(errs, invalid("habits.attachment_emails", ErrInvalidBucket, "%q", string(h.AttachmentEmails)))
	}
	if !h.CloudStorage.Valid() {
		errs = append(errs, invalid("habits.cloud_storage", ErrInvalidBucket, "%q", string(h.CloudStorage)))
	}
	if h.PrintedPages < 0 {
		errs = append(errs, invalid("habits.printed_pages", ErrNegativeCount, "%d", h.PrintedPages))
	}
	if !inRange(h.WiFiHours, 0, MaxHoursPerDay) {
		errs = append(errs, invalid("habits.wifi_hours", ErrInvalidHours,
			"%g outside [0, %g]", h.WiFiHours, MaxHoursPerDay))
	}
	if !h.Idle.Valid() {
		errs = append(errs, invalid("habits.idle_behavior", ErrInvalidIdle, "%q", string(h.Idle)))
	}
	return errors.Join(errs...)
}

// Validate checks that every task is known and every count is non-negative.
func (p AIUsageProfile) Validate() error {
	var errs []error
	for _, t := range sortedKeys(p) {
		field := "ai_usage." + string(t)
		if !t.Valid() {
			errs = append(errs, invalid(field, ErrUnknownTask, "%q", string(t)))
			continue
		}
		if q := p[t]; q < 0 {
			errs = append(errs, invalid(field, ErrNegativeCount, "%d", q))
		}
	}
	return errors.Join(errs...)
}

// Format is a snapshot document encoding.
type Format string

// Supported snapshot encodings.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the encoding from a file extension, JSON by default.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// DecodeSnapshot reads, defaults and validates a snapshot document.
func DecodeSnapshot(r io.Reader, format Format) (Snapshot, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Snapshot{}, fmt.Errorf("reading snapshot: %w", err)
	}

	var s Snapshot
	switch format {
	case FormatYAML:
		if err = yaml.Unmarshal(data, &s); err != nil {
			return Snapshot{}, fmt.Errorf("parsing snapshot YAML: %w", err)
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err = dec.Decode(&s); err != nil {
			return Snapshot{}, fmt.Errorf("parsing snapshot JSON: %w", err)
		}
	}

	s.ApplyDefaults()
	if err = s.Validate(); err != nil {
		return Snapshot{}, err
	}
	return s, nil
}

// LoadSnapshot reads a snapshot file, choosing the encoding from its extension.
func LoadSnapshot(path string) (Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("opening snapshot %s: %w", path, err)
	}
	defer f.Close()

	s, err := DecodeSnapshot(f, FormatFromPath(path))
	if err != nil {
		return Snapshot{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// ValidLifespan reports whether years is an accepted device lifespan.
func ValidLifespan(years float64) bool {
	return inRange(years, MinLifespanYears, MaxLifespanYears)
}

// inRange reports whether v is a finite number within [lo, hi].
func inRange(v, lo, hi float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= lo && v <= hi
}

func sortedKeys[K ~string, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
