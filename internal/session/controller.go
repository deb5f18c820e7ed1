// Package session implements the three-screen questionnaire flow (role
// selection, data entry, results) as an explicit state machine holding the
// in-progress form, plus a Manager isolating many sessions by ID.
package session

import (
	"fmt"
	"maps"
	"slices"

	"github.com/greendilt/digicarbon/internal/footprint"
	"github.com/greendilt/digicarbon/internal/insight"
)

// State is a screen of the questionnaire.
type State int

const (
	// StateRoleSelect asks for the role.
	StateRoleSelect State = iota
	// StateDataEntry collects devices, activities, habits and AI usage.
	StateDataEntry
	// StateResults shows the breakdown and insights.
	StateResults
)

// String returns the wire name of the state.
func (s State) String() string {
	switch s {
	case StateRoleSelect:
		return "role_select"
	case StateDataEntry:
		return "data_entry"
	case StateResults:
		return "results"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Defaults are the initial values of a fresh form.
type Defaults struct {
	DeviceLifespanYears float64
	Habits              footprint.HabitProfile
}

// DefaultDefaults returns the form defaults of the questionnaire: one-year
// devices, 1-10 emails of each kind, under 5 GB of cloud storage, 4 hours of
// Wi-Fi and powering the computer off.
func DefaultDefaults() Defaults {
	return Defaults{
		DeviceLifespanYears: footprint.DefaultLifespanYears,
		Habits: footprint.HabitProfile{
			PlainEmails:      footprint.Email1To10,
			AttachmentEmails: footprint.Email1To10,
			CloudStorage:     footprint.CloudUnder5GB,
			WiFiHours:        4,
			Idle:             footprint.IdlePowerOff,
		},
	}
}

// Device is a device entry with its session-scoped ID.
type Device struct {
	ID string `json:"id"`
	footprint.DeviceEntry
}

// DevicePatch changes some fields of a device. Nil fields are kept.
type DevicePatch struct {
	LifespanYears *float64             `json:"lifespan_years,omitempty"`
	Condition     *footprint.Condition `json:"condition,omitempty"`
	Sharing       *footprint.Sharing   `json:"sharing,omitempty"`
	EndOfLife     *footprint.EndOfLife `json:"end_of_life,omitempty"`
}

func (p DevicePatch) apply(d footprint.DeviceEntry) footprint.DeviceEntry {
	if p.LifespanYears != nil {
		d.LifespanYears = *p.LifespanYears
	}
	if p.Condition != nil {
		d.Condition = *p.Condition
	}
	if p.Sharing != nil {
		d.Sharing = *p.Sharing
	}
	if p.EndOfLife != nil {
		d.EndOfLife = *p.EndOfLife
	}
	return d
}

// View is a read-only copy of the session state.
type View struct {
	State      State                    `json:"state"`
	Role       footprint.Role           `json:"role,omitempty"`
	Devices    []Device                 `json:"devices"`
	Activities footprint.ActivityProfile `json:"activities"`
	Habits     footprint.HabitProfile   `json:"habits"`
	AIUsage    footprint.AIUsageProfile `json:"ai_usage"`
	Result     *footprint.Breakdown     `json:"result,omitempty"`
}

// Controller holds one person's questionnaire. It is not safe for concurrent
// use; Manager serializes access per session.
type Controller struct {
	state     State
	defaults  Defaults
	generator *insight.Generator

	role       footprint.Role
	devices    []Device
	ordinals   map[footprint.DeviceType]int
	activities footprint.ActivityProfile
	habits     footprint.HabitProfile
	ai         footprint.AIUsageProfile

	submitted footprint.Snapshot
	result    footprint.Breakdown
}

// NewController returns a controller on the role selection screen. A zero
// lifespan or idle behavior in d falls back to the questionnaire default; a
// nil generator uses the auto-seeded global random source.
func NewController(d Defaults, gen *insight.Generator) *Controller {
	if gen == nil {
		gen = insight.NewGenerator(nil)
	}
	if d.DeviceLifespanYears <= 0 {
		d.DeviceLifespanYears = footprint.DefaultLifespanYears
	}
	if d.Habits.Idle == "" {
		d.Habits.Idle = footprint.IdlePowerOff
	}
	c := &Controller{defaults: d, generator: gen}
	c.Reset()
	return c
}

// State returns the current screen.
func (c *Controller) State() State { return c.state }

// Role returns the selected role, empty before selection.
func (c *Controller) Role() footprint.Role { return c.role }

func (c *Controller) require(op string, want State) error {
	if c.state != want {
		return fmt.Errorf("%w: %s not allowed in %s", ErrInvalidTransition, op, c.state)
	}
	return nil
}

// SelectRole records the role and moves to data entry. The role cannot
// change afterwards without Reset.
func (c *Controller) SelectRole(r footprint.Role) error {
	if err := c.require("select role", StateRoleSelect); err != nil {
		return err
	}
	if r == "" {
		return ErrRoleRequired
	}
	r, err := footprint.ParseRole(string(r))
	if err != nil {
		return err
	}

	c.role = r
	c.activities = make(footprint.ActivityProfile)
	for _, f := range r.Activities() {
		c.activities[f.Activity] = 0
	}
	c.state = StateDataEntry
	return nil
}

// AddDevice appends a device of type t with the default options and returns
// it. IDs are the type key and a per-type ordinal that is never reused.
func (c *Controller) AddDevice(t footprint.DeviceType) (Device, error) {
	if err := c.require("add device", StateDataEntry); err != nil {
		return Device{}, err
	}
	t, err := footprint.ParseDeviceType(string(t))
	if err != nil {
		return Device{}, err
	}

	entry := footprint.NewDeviceEntry(t)
	entry.LifespanYears = c.defaults.DeviceLifespanYears
	d := Device{ID: fmt.Sprintf("%s_%d", t, c.ordinals[t]), DeviceEntry: entry}
	c.ordinals[t]++
	c.devices = append(c.devices, d)
	return d, nil
}

func (c *Controller) deviceIndex(id string) (int, error) {
	i := slices.IndexFunc(c.devices, func(d Device) bool { return d.ID == id })
	if i < 0 {
		return -1, fmt.Errorf("%w: %q", ErrUnknownDevice, id)
	}
	return i, nil
}

// UpdateDevice applies p to a device. An invalid result leaves the device
// unchanged.
func (c *Controller) UpdateDevice(id string, p DevicePatch) (Device, error) {
	if err := c.require("update device", StateDataEntry); err != nil {
		return Device{}, err
	}
	i, err := c.deviceIndex(id)
	if err != nil {
		return Device{}, err
	}

	next := p.apply(c.devices[i].DeviceEntry)
	if err = next.Validate(); err != nil {
		return Device{}, fmt.Errorf("device %s: %w", id, err)
	}
	c.devices[i].DeviceEntry = next
	return c.devices[i], nil
}

// RemoveDevice deletes a device.
func (c *Controller) RemoveDevice(id string) error {
	if err := c.require("remove device", StateDataEntry); err != nil {
		return err
	}
	i, err := c.deviceIndex(id)
	if err != nil {
		return err
	}
	c.devices = slices.Delete(c.devices, i, i+1)
	return nil
}

// Devices returns a copy of the devices in insertion order.
func (c *Controller) Devices() []Device {
	return slices.Clone(c.devices)
}

// SetActivityHours sets the daily hours of one activity of the role.
func (c *Controller) SetActivityHours(a footprint.Activity, hours float64) error {
	if err := c.require("set activity", StateDataEntry); err != nil {
		return err
	}
	if err := (footprint.ActivityProfile{a: hours}).Validate(c.role); err != nil {
		return err
	}
	c.activities[a] = hours
	return nil
}

// SetActivities replaces every activity value. Activities of the role missing
// from p are reset to zero.
func (c *Controller) SetActivities(p footprint.ActivityProfile) error {
	if err := c.require("set activities", StateDataEntry); err != nil {
		return err
	}
	if err := p.Validate(c.role); err != nil {
		return err
	}
	for a := range c.activities {
		c.activities[a] = p[a]
	}
	return nil
}

// Activities returns a copy of the activity hours.
func (c *Controller) Activities() footprint.ActivityProfile {
	return maps.Clone(c.activities)
}

// SetHabits replaces the habit profile.
func (c *Controller) SetHabits(h footprint.HabitProfile) error {
	if err := c.require("set habits", StateDataEntry); err != nil {
		return err
	}
	if err := h.Validate(); err != nil {
		return err
	}
	c.habits = h
	return nil
}

// Habits returns the habit profile.
func (c *Controller) Habits() footprint.HabitProfile { return c.habits }

// HabitsPatch carries the habit fields to change; nil fields keep their value.
type HabitsPatch struct {
	PlainEmails      *footprint.EmailBucket  `json:"plain_emails,omitempty"`
	AttachmentEmails *footprint.EmailBucket  `json:"attachment_emails,omitempty"`
	CloudStorage     *footprint.CloudBucket  `json:"cloud_storage,omitempty"`
	PrintedPages     *int                    `json:"printed_pages,omitempty"`
	WiFiHours        *float64                `json:"wifi_hours,omitempty"`
	Idle             *footprint.IdleBehavior `json:"idle_behavior,omitempty"`
}

func (p HabitsPatch) apply(h footprint.HabitProfile) footprint.HabitProfile {
	if p.PlainEmails != nil {
		h.PlainEmails = *p.PlainEmails
	}
	if p.AttachmentEmails != nil {
		h.AttachmentEmails = *p.AttachmentEmails
	}
	if p.CloudStorage != nil {
		h.CloudStorage = *p.CloudStorage
	}
	if p.PrintedPages != nil {
		h.PrintedPages = *p.PrintedPages
	}
	if p.WiFiHours != nil {
		h.WiFiHours = *p.WiFiHours
	}
	if p.Idle != nil {
		h.Idle = *p.Idle
	}
	return h
}

// PatchHabits applies p to the current habit profile. An invalid result leaves
// the profile unchanged.
func (c *Controller) PatchHabits(p HabitsPatch) (footprint.HabitProfile, error) {
	if err := c.SetHabits(p.apply(c.habits)); err != nil {
		return footprint.HabitProfile{}, err
	}
	return c.habits, nil
}

// SetAIQueries sets the daily queries of one AI task.
func (c *Controller) SetAIQueries(t footprint.AITask, n int) error {
	if err := c.require("set AI usage", StateDataEntry); err != nil {
		return err
	}
	if err := (footprint.AIUsageProfile{t: n}).Validate(); err != nil {
		return err
	}
	c.ai[t] = n
	return nil
}

// SetAIUsage replaces every AI task count. Tasks missing from p are reset
// to zero.
func (c *Controller) SetAIUsage(p footprint.AIUsageProfile) error {
	if err := c.require("set AI usage", StateDataEntry); err != nil {
		return err
	}
	if err := p.Validate(); err != nil {
		return err
	}
	for t := range c.ai {
		c.ai[t] = p[t]
	}
	return nil
}

// AIUsage returns a copy of the AI query counts.
func (c *Controller) AIUsage() footprint.AIUsageProfile {
	return maps.Clone(c.ai)
}

// Snapshot returns an immutable copy of the form.
func (c *Controller) Snapshot() footprint.Snapshot {
	entries := make([]footprint.DeviceEntry, 0, len(c.devices))
	for _, d := range c.devices {
		entries = append(entries, d.DeviceEntry)
	}
	return footprint.Snapshot{
		Role:       c.role,
		Devices:    entries,
		Activities: maps.Clone(c.activities),
		Habits:     c.habits,
		AIUsage:    maps.Clone(c.ai),
	}
}

// Submit validates the form, computes the breakdown once and moves to the
// results screen.
func (c *Controller) Submit() (footprint.Breakdown, error) {
	if c.state == StateRoleSelect {
		return footprint.Breakdown{}, ErrRoleRequired
	}
	if err := c.require("submit", StateDataEntry); err != nil {
		return footprint.Breakdown{}, err
	}

	s := c.Snapshot()
	if err := s.Validate(); err != nil {
		return footprint.Breakdown{}, err
	}
	c.submitted = s
	c.result = s.Breakdown()
	c.state = StateResults
	return c.result, nil
}

// Result returns the breakdown of the last submission while on the results
// screen.
func (c *Controller) Result() (footprint.Breakdown, bool) {
	if c.state != StateResults {
		return footprint.Breakdown{}, false
	}
	return c.result, true
}

// Submitted returns the snapshot the current result was computed from.
func (c *Controller) Submitted() (footprint.Snapshot, bool) {
	if c.state != StateResults {
		return footprint.Snapshot{}, false
	}
	return c.submitted.Clone(), true
}

// Insights returns a fresh payload for the current result; bonus tips are
// drawn again on every call.
func (c *Controller) Insights() (insight.Payload, error) {
	if err := c.require("insights", StateResults); err != nil {
		return insight.Payload{}, err
	}
	return c.generator.Generate(c.result), nil
}

// Back returns from results to data entry keeping the form.
func (c *Controller) Back() error {
	if err := c.require("back", StateResults); err != nil {
		return err
	}
	c.state = StateDataEntry
	return nil
}

// Reset clears the form and returns to role selection.
func (c *Controller) Reset() {
	c.state = StateRoleSelect
	c.role = ""
	c.devices = nil
	c.ordinals = make(map[footprint.DeviceType]int)
	c.activities = make(footprint.ActivityProfile)
	c.habits = c.defaults.Habits
	c.ai = make(footprint.AIUsageProfile, len(footprint.AITasks()))
	for _, t := range footprint.AITasks() {
		c.ai[t] = 0
	}
	c.submitted = footprint.Snapshot{}
	c.result = footprint.Breakdown{}
}

// View returns a copy of the whole state.
func (c *Controller) View() View {
	v := View{
		State:      c.state,
		Role:       c.role,
		Devices:    c.Devices(),
		Activities: c.Activities(),
		Habits:     c.habits,
		AIUsage:    c.AIUsage(),
	}
	if c.state == StateResults {
		r := c.result
		v.Result = &r
	}
	return v
}
