package footprint

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSnapshot() Snapshot {
	return Snapshot{
		Role:       RoleStudent,
		Devices:    []DeviceEntry{NewDeviceEntry(DeviceLaptop)},
		Activities: ActivityProfile{ActivityWebBrowsing: 2},
		Habits:     HabitProfile{PlainEmails: Email1To10, Idle: IdlePowerOff},
		AIUsage:    AIUsageProfile{TaskWriteCode: 2},
	}
}

func TestSnapshotValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(s *Snapshot)
		wantErr error
	}{
		{name: "valid", mutate: func(*Snapshot) {}},
		{
			name:    "missing role",
			mutate:  func(s *Snapshot) { s.Role = "" },
			wantErr: ErrInvalidRole,
		},
		{
			name:    "zero lifespan",
			mutate:  func(s *Snapshot) { s.Devices[0].LifespanYears = 0 },
			wantErr: ErrInvalidLifespan,
		},
		{
			name:    "lifespan above twenty years",
			mutate:  func(s *Snapshot) { s.Devices[0].LifespanYears = 25 },
			wantErr: ErrInvalidLifespan,
		},
		{
			name:    "NaN lifespan",
			mutate:  func(s *Snapshot) { s.Devices[0].LifespanYears = math.NaN() },
			wantErr: ErrInvalidLifespan,
		},
		{
			name:    "infinite lifespan",
			mutate:  func(s *Snapshot) { s.Devices[0].LifespanYears = math.Inf(1) },
			wantErr: ErrInvalidLifespan,
		},
		{
			name:    "unknown device",
			mutate:  func(s *Snapshot) { s.Devices[0].Type = "toaster" },
			wantErr: ErrInvalidDevice,
		},
		{
			name:    "unknown end of life",
			mutate:  func(s *Snapshot) { s.Devices[0].EndOfLife = "burn_it" },
			wantErr: ErrInvalidOption,
		},
		{
			name:    "activity from another role",
			mutate:  func(s *Snapshot) { s.Activities[ActivityManagementSoftware] = 1 },
			wantErr: ErrUnknownActivity,
		},
		{
			name:    "too many hours",
			mutate:  func(s *Snapshot) { s.Activities[ActivityWebBrowsing] = 8.5 },
			wantErr: ErrInvalidHours,
		},
		{
			name:    "NaN hours",
			mutate:  func(s *Snapshot) { s.Activities[ActivityWebBrowsing] = math.NaN() },
			wantErr: ErrInvalidHours,
		},
		{
			name:    "negative infinite hours",
			mutate:  func(s *Snapshot) { s.Activities[ActivityWebBrowsing] = math.Inf(-1) },
			wantErr: ErrInvalidHours,
		},
		{
			name:    "NaN wifi",
			mutate:  func(s *Snapshot) { s.Habits.WiFiHours = math.NaN() },
			wantErr: ErrInvalidHours,
		},
		{
			name:    "infinite wifi",
			mutate:  func(s *Snapshot) { s.Habits.WiFiHours = math.Inf(1) },
			wantErr: ErrInvalidHours,
		},
		{
			name:    "negative wifi",
			mutate:  func(s *Snapshot) { s.Habits.WiFiHours = -1 },
			wantErr: ErrInvalidHours,
		},
		{
			name:    "negative pages",
			mutate:  func(s *Snapshot) { s.Habits.PrintedPages = -3 },
			wantErr: ErrNegativeCount,
		},
		{
			name:    "bad bucket",
			mutate:  func(s *Snapshot) { s.Habits.CloudStorage = "1TB" },
			wantErr: ErrInvalidBucket,
		},
		{
			name:    "missing idle",
			mutate:  func(s *Snapshot) { s.Habits.Idle = "" },
			wantErr: ErrInvalidIdle,
		},
		{
			name:    "negative queries",
			mutate:  func(s *Snapshot) { s.AIUsage[TaskWriteCode] = -1 },
			wantErr: ErrNegativeCount,
		},
		{
			name:    "unknown task",
			mutate:  func(s *Snapshot) { s.AIUsage["write_poetry"] = 1 },
			wantErr: ErrUnknownTask,
		},
		{
			name:    "methodology too new",
			mutate:  func(s *Snapshot) { s.Methodology = ">=2.0.0" },
			wantErr: ErrMethodologyMismatch,
		},
		{
			name:    "methodology not a constraint",
			mutate:  func(s *Snapshot) { s.Methodology = "latest please" },
			wantErr: ErrMethodologyMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSnapshot()
			tt.mutate(&s)

			err := s.Validate()
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestSnapshotValidate_ReportsEveryViolation(t *testing.T) {
	s := validSnapshot()
	s.Devices[0].LifespanYears = -1
	s.Habits.PrintedPages = -1

	err := s.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidLifespan)
	assert.ErrorIs(t, err, ErrNegativeCount)
	assert.Contains(t, err.Error(), "devices[0]")

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.NotEmpty(t, verr.Field)
}

func TestCheckMethodology(t *testing.T) {
	assert.NoError(t, CheckMethodology(""))
	assert.NoError(t, CheckMethodology("^1.0"))
	assert.NoError(t, CheckMethodology(">=1.0.0, <2"))
	assert.ErrorIs(t, CheckMethodology("<1.0.0"), ErrMethodologyMismatch)
}

func TestSnapshotClone(t *testing.T) {
	s := validSnapshot()
	c := s.Clone()

	c.Devices[0].LifespanYears = 9
	c.Activities[ActivityWebBrowsing] = 7
	c.AIUsage[TaskWriteCode] = 40

	assert.InDelta(t, DefaultLifespanYears, s.Devices[0].LifespanYears, epsilon)
	assert.InDelta(t, 2.0, s.Activities[ActivityWebBrowsing], epsilon)
	assert.Equal(t, 2, s.AIUsage[TaskWriteCode])
}

func TestDecodeSnapshot_JSON(t *testing.T) {
	doc := `{
  "role": "Student",
  "devices": [
    {"type": "Desktop Computer", "lifespan_years": 5, "end_of_life": "I bring it to a certified e-waste collection center"},
    {"type": "smartphone", "lifespan_years": 3, "condition": "used", "sharing": "personal", "end_of_life": "resale_donation"}
  ],
  "activities": {"web_browsing": 2},
  "habits": {
    "plain_emails": "1–10",
    "attachment_emails": "> 40",
    "cloud_storage": "<5GB",
    "printed_pages": 2,
    "wifi_hours": 4,
    "idle_behavior": "I turn it off"
  },
  "ai_usage": {"Write or test code": 2}
}`

	s, err := DecodeSnapshot(strings.NewReader(doc), FormatJSON)
	require.NoError(t, err)

	assert.Equal(t, RoleStudent, s.Role)
	require.Len(t, s.Devices, 2)
	assert.Equal(t, DeviceDesktop, s.Devices[0].Type)
	assert.Equal(t, ConditionNew, s.Devices[0].Condition, "blank condition defaults to new")
	assert.Equal(t, SharingPersonal, s.Devices[0].Sharing)
	assert.Equal(t, EOLCertifiedCenter, s.Devices[0].EndOfLife)
	assert.Equal(t, ConditionUsed, s.Devices[1].Condition)
	assert.Equal(t, EOLResaleDonation, s.Devices[1].EndOfLife)
	assert.Equal(t, Email1To10, s.Habits.PlainEmails)
	assert.Equal(t, EmailOver40, s.Habits.AttachmentEmails)
	assert.Equal(t, CloudUnder5GB, s.Habits.CloudStorage)
	assert.Equal(t, IdlePowerOff, s.Habits.Idle)
	assert.Equal(t, 2, s.AIUsage[TaskWriteCode])
}

func TestDecodeSnapshot_Errors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr error
	}{
		{
			name:    "unknown role",
			doc:     `{"role": "dean", "habits": {}}`,
			wantErr: ErrInvalidRole,
		},
		{
			name:    "unknown device",
			doc:     `{"role": "student", "devices": [{"type": "toaster", "lifespan_years": 1}]}`,
			wantErr: ErrInvalidDevice,
		},
		{
			name:    "missing lifespan",
			doc:     `{"role": "student", "devices": [{"type": "tablet"}]}`,
			wantErr: ErrInvalidLifespan,
		},
		{
			name:    "unknown AI task",
			doc:     `{"role": "student", "ai_usage": {"compose_symphony": 3}}`,
			wantErr: ErrUnknownTask,
		},
		{
			name:    "bad email bucket",
			doc:     `{"role": "student", "habits": {"plain_emails": "1000"}}`,
			wantErr: ErrInvalidBucket,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeSnapshot(strings.NewReader(tt.doc), FormatJSON)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}

	t.Run("unknown field", func(t *testing.T) {
		_, err := DecodeSnapshot(strings.NewReader(`{"role": "student", "mood": "happy"}`), FormatJSON)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrInvalidInput)
	})
}

func TestDecodeSnapshot_RejectsNonFiniteYAML(t *testing.T) {
	docs := map[string]string{
		"lifespan": "role: student\ndevices:\n  - type: laptop_computer\n    lifespan_years: .nan\n",
		"activity": "role: student\nactivities:\n  web_browsing: .inf\n",
		"wifi":     "role: student\nhabits:\n  wifi_hours: .nan\n",
	}
	for name, doc := range docs {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeSnapshot(strings.NewReader(doc), FormatYAML)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestLoadSnapshot_YAML(t *testing.T) {
	doc := `role: staff
devices:
  - type: router_modem
    lifespan_years: 6
    condition: used
    sharing: shared
    end_of_life: general_waste
activities:
  management_software: 3
  video_call: 1.5
habits:
  plain_emails: "11-20"
  attachment_emails: none
  cloud_storage: 5-20GB
  wifi_hours: 8
  idle_behavior: idle_on
ai_usage:
  write_emails: 4
methodology: "^1"
`
	path := filepath.Join(t.TempDir(), "staff.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	s, err := LoadSnapshot(path)
	require.NoError(t, err)

	assert.Equal(t, RoleStaff, s.Role)
	require.Len(t, s.Devices, 1)
	assert.Equal(t, SharingShared, s.Devices[0].Sharing)
	assert.Equal(t, EmailNone, s.Habits.AttachmentEmails)
	assert.Equal(t, Cloud5To20GB, s.Habits.CloudStorage)
	assert.Equal(t, IdleOn, s.Habits.Idle)
	assert.InDelta(t, 1.5, s.Activities[ActivityVideoCall], epsilon)
	assert.Equal(t, 4, s.AIUsage[TaskWriteEmails])
}

func TestLoadSnapshot_MissingFile(t *testing.T) {
	_, err := LoadSnapshot(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, FormatYAML, FormatFromPath("a.yaml"))
	assert.Equal(t, FormatYAML, FormatFromPath("A.YML"))
	assert.Equal(t, FormatJSON, FormatFromPath("a.json"))
	assert.Equal(t, FormatJSON, FormatFromPath("-"))
}
