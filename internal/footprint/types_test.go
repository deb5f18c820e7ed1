package footprint

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		input   string
		want    Role
		wantErr bool
	}{
		{input: "student", want: RoleStudent},
		{input: "  Professor ", want: RoleProfessor},
		{input: "Staff Member", want: RoleStaff},
		{input: "STAFF", want: RoleStaff},
		{input: "dean", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseRole(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidRole)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDeviceType(t *testing.T) {
	for _, d := range DeviceTypes() {
		byKey, err := ParseDeviceType(string(d))
		require.NoError(t, err)
		assert.Equal(t, d, byKey)

		byLabel, err := ParseDeviceType(d.Label())
		require.NoError(t, err)
		assert.Equal(t, d, byLabel)
	}

	got, err := ParseDeviceType("router / modem")
	require.NoError(t, err)
	assert.Equal(t, DeviceRouter, got)

	_, err = ParseDeviceType("fax machine")
	assert.ErrorIs(t, err, ErrInvalidDevice)
}

func TestBucketText(t *testing.T) {
	var e EmailBucket
	require.NoError(t, e.UnmarshalText([]byte("None")))
	assert.Equal(t, EmailNone, e)
	require.NoError(t, e.UnmarshalText([]byte("21–30")))
	assert.Equal(t, Email21To30, e)

	out, err := json.Marshal(HabitProfile{Idle: IdleOn})
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"plain_emails": "none",
		"attachment_emails": "none",
		"cloud_storage": "none",
		"printed_pages": 0,
		"wifi_hours": 0,
		"idle_behavior": "idle_on"
	}`, string(out))

	var c CloudBucket
	require.NoError(t, c.UnmarshalText([]byte("50-100 GB")))
	assert.Equal(t, Cloud50To100GB, c)
	assert.ErrorIs(t, c.UnmarshalText([]byte("200GB")), ErrInvalidBucket)
}

func TestIdleBehaviorText(t *testing.T) {
	var i IdleBehavior
	require.NoError(t, i.UnmarshalText([]byte("I don’t have a computer")))
	assert.Equal(t, IdleNoComputer, i)
	assert.ErrorIs(t, i.UnmarshalText([]byte("sleep")), ErrInvalidIdle)
}

func TestBreakdownValue(t *testing.T) {
	b := Breakdown{Devices: 1, EWaste: -2, DigitalActivities: 3, AITools: 4}

	assert.InDelta(t, 6.0, b.Total(), epsilon)
	assert.InDelta(t, -2.0, b.Value(CategoryEWaste), epsilon)
	assert.InDelta(t, 4.0, b.Value(CategoryAITools), epsilon)
	assert.Equal(t,
		[]Category{CategoryDevices, CategoryDigitalActivities, CategoryAITools, CategoryEWaste},
		Categories())
	assert.Equal(t, "E-Waste", CategoryEWaste.Label())
	assert.Panics(t, func() { b.Value("water") })
}

func TestRoleActivities(t *testing.T) {
	assert.Len(t, RoleStudent.Activities(), 6)
	assert.Len(t, RoleProfessor.Activities(), 6)
	assert.Len(t, RoleStaff.Activities(), 5)

	acts := RoleStaff.Activities()
	acts[0].KgPerHour = 99
	assert.InDelta(t, 0.00901, RoleStaff.Activities()[0].KgPerHour, epsilon, "Activities returns a copy")

	f, ok := RoleProfessor.ActivityFactor(ActivityClassStreaming)
	assert.True(t, ok)
	assert.InDelta(t, 0.112, f, epsilon)

	_, ok = RoleStudent.ActivityFactor(ActivityVideoCall)
	assert.False(t, ok)
}

func TestFactors(t *testing.T) {
	ft := Factors()

	assert.Equal(t, MethodologyVersion, ft.Methodology)
	assert.Equal(t, 250, ft.WorkingDaysPerYear)
	assert.Len(t, ft.Devices, 8)
	assert.Len(t, ft.AITasks, 12)
	assert.Len(t, ft.EndOfLife, 5)
	assert.Len(t, ft.Activities, 3)
	assert.Equal(t, "desktop_computer", ft.Devices[0].Key)
	assert.InDelta(t, 296.0, ft.Devices[0].Factor, epsilon)
	assert.InDelta(t, 45.0, ft.EmailMidpoints[">40"], epsilon)
	assert.InDelta(t, 0.0, ft.CloudMidpoints["none"], epsilon)
	assert.InDelta(t, 4.5, ft.LifespanMultiplier["used"]["shared"], epsilon)
}
