package tui

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/greendilt/digicarbon/internal/footprint"
	"github.com/greendilt/digicarbon/internal/session"
)

type fieldKind int

const (
	fieldNumber fieldKind = iota // free numeric entry through the text input
	fieldChoice                  // cycled with left/right
	fieldAction                  // triggered with enter
)

// field is one row of the data entry form. Closures act on the controller so
// that the form always reflects its state.
type field struct {
	section string
	label   string
	kind    fieldKind
	value   string

	// deviceID is set on rows that belong to a device, for removal.
	deviceID string

	set   func(text string) error
	cycle func(step int) error
	run   func() error
}

// Form section titles.
const (
	sectionDevices    = "Devices"
	sectionActivities = "Daily activities (hours per day)"
	sectionHabits     = "Habits"
	sectionAI         = "AI tools (queries per day)"
	sectionSubmit     = ""
)

// cycleValue returns the value step positions away from current in values,
// wrapping around.
func cycleValue[T comparable](values []T, current T, step int) T {
	i := slices.Index(values, current)
	if i < 0 {
		return values[0]
	}
	n := len(values)
	return values[((i+step)%n+n)%n]
}

func parseHours(text string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", text)
	}
	return v, nil
}

func parseCount(text string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, fmt.Errorf("%q is not a whole number", text)
	}
	return v, nil
}

func formatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64)
}

// buildFields lays out the data entry form for the controller's current
// state. addType is the device type offered by the "add device" row.
func buildFields(c *session.Controller, addType *footprint.DeviceType) []field {
	var fields []field
	fields = append(fields, deviceFields(c, addType)...)
	fields = append(fields, activityFields(c)...)
	fields = append(fields, habitFields(c)...)
	fields = append(fields, aiFields(c)...)
	fields = append(fields, field{
		section: sectionSubmit,
		label:   "Calculate my footprint",
		kind:    fieldAction,
		run: func() error {
			_, err := c.Submit()
			return err
		},
	})
	return fields
}

func deviceFields(c *session.Controller, addType *footprint.DeviceType) []field {
	var fields []field
	for _, d := range c.Devices() {
		id := d.ID
		prefix := d.Type.Label() + " (" + id + ") "
		patch := func(p session.DevicePatch) error {
			_, err := c.UpdateDevice(id, p)
			return err
		}
		fields = append(fields,
			field{
				section: sectionDevices, deviceID: id, kind: fieldNumber,
				label: prefix + "lifespan (years)",
				value: formatHours(d.LifespanYears),
				set: func(text string) error {
					v, err := parseHours(text)
					if err != nil {
						return err
					}
					return patch(session.DevicePatch{LifespanYears: &v})
				},
			},
			field{
				section: sectionDevices, deviceID: id, kind: fieldChoice,
				label: prefix + "condition",
				value: d.Condition.Label(),
				cycle: func(step int) error {
					v := cycleValue([]footprint.Condition{footprint.ConditionNew, footprint.ConditionUsed}, d.Condition, step)
					return patch(session.DevicePatch{Condition: &v})
				},
			},
			field{
				section: sectionDevices, deviceID: id, kind: fieldChoice,
				label: prefix + "usage",
				value: d.Sharing.Label(),
				cycle: func(step int) error {
					v := cycleValue([]footprint.Sharing{footprint.SharingPersonal, footprint.SharingShared}, d.Sharing, step)
					return patch(session.DevicePatch{Sharing: &v})
				},
			},
			field{
				section: sectionDevices, deviceID: id, kind: fieldChoice,
				label: prefix + "end of life",
				value: d.EndOfLife.Label(),
				cycle: func(step int) error {
					v := cycleValue(footprint.EndOfLifeOptions(), d.EndOfLife, step)
					return patch(session.DevicePatch{EndOfLife: &v})
				},
			},
		)
	}

	fields = append(fields, field{
		section: sectionDevices,
		label:   "Add device",
		kind:    fieldAction,
		value:   addType.Label(),
		cycle: func(step int) error {
			*addType = cycleValue(footprint.DeviceTypes(), *addType, step)
			return nil
		},
		run: func() error {
			_, err := c.AddDevice(*addType)
			return err
		},
	})
	return fields
}

func activityFields(c *session.Controller) []field {
	current := c.Activities()
	acts := c.Role().Activities()
	fields := make([]field, 0, len(acts))
	for _, a := range acts {
		activity := a.Activity
		fields = append(fields, field{
			section: sectionActivities,
			label:   a.Label,
			kind:    fieldNumber,
			value:   formatHours(current[activity]),
			set: func(text string) error {
				v, err := parseHours(text)
				if err != nil {
					return err
				}
				return c.SetActivityHours(activity, v)
			},
		})
	}
	return fields
}

func habitFields(c *session.Controller) []field {
	h := c.Habits()
	update := func(mutate func(*footprint.HabitProfile)) error {
		next := c.Habits()
		mutate(&next)
		return c.SetHabits(next)
	}

	return []field{
		{
			section: sectionHabits, label: "Emails without attachment per day", kind: fieldChoice,
			value: h.PlainEmails.Label(),
			cycle: func(step int) error {
				return update(func(p *footprint.HabitProfile) {
					p.PlainEmails = cycleValue(footprint.EmailBuckets(), p.PlainEmails, step)
				})
			},
		},
		{
			section: sectionHabits, label: "Emails with attachment per day", kind: fieldChoice,
			value: h.AttachmentEmails.Label(),
			cycle: func(step int) error {
				return update(func(p *footprint.HabitProfile) {
					p.AttachmentEmails = cycleValue(footprint.EmailBuckets(), p.AttachmentEmails, step)
				})
			},
		},
		{
			section: sectionHabits, label: "Cloud storage", kind: fieldChoice,
			value: h.CloudStorage.Label(),
			cycle: func(step int) error {
				return update(func(p *footprint.HabitProfile) {
					p.CloudStorage = cycleValue(footprint.CloudBuckets(), p.CloudStorage, step)
				})
			},
		},
		{
			section: sectionHabits, label: "Printed pages per day", kind: fieldNumber,
			value: strconv.Itoa(h.PrintedPages),
			set: func(text string) error {
				v, err := parseCount(text)
				if err != nil {
					return err
				}
				return update(func(p *footprint.HabitProfile) { p.PrintedPages = v })
			},
		},
		{
			section: sectionHabits, label: "Wi-Fi hours per day", kind: fieldNumber,
			value: formatHours(h.WiFiHours),
			set: func(text string) error {
				v, err := parseHours(text)
				if err != nil {
					return err
				}
				return update(func(p *footprint.HabitProfile) { p.WiFiHours = v })
			},
		},
		{
			section: sectionHabits, label: "Computer outside working hours", kind: fieldChoice,
			value: h.Idle.Label(),
			cycle: func(step int) error {
				return update(func(p *footprint.HabitProfile) {
					p.Idle = cycleValue(footprint.IdleBehaviors(), p.Idle, step)
				})
			},
		},
	}
}

func aiFields(c *session.Controller) []field {
	usage := c.AIUsage()
	tasks := footprint.AITasks()
	fields := make([]field, 0, len(tasks))
	for _, task := range tasks {
		fields = append(fields, field{
			section: sectionAI,
			label:   task.Label(),
			kind:    fieldNumber,
			value:   strconv.Itoa(usage[task]),
			set: func(text string) error {
				v, err := parseCount(text)
				if err != nil {
					return err
				}
				return c.SetAIQueries(task, v)
			},
		})
	}
	return fields
}
