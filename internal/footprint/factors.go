package footprint

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// MethodologyVersion is the semantic version of the factor tables below.
// Bump the minor version when a factor changes, the major version when a
// category or formula changes.
const MethodologyVersion = "1.0.0"

// WorkingDaysPerYear annualizes every per-day quantity.
const WorkingDaysPerYear = 250

// Habit factors, in kg CO2e per unit.
const (
	// EmailPlainKg is the footprint of one email without attachment.
	EmailPlainKg = 0.004

	// EmailAttachmentKg is the footprint of one email with attachment.
	EmailAttachmentKg = 0.035

	// CloudKgPerGB is a standing allocation per stored GB, not annualized.
	CloudKgPerGB = 0.01

	// WiFiKgPerHour is the footprint of one hour of Wi-Fi connectivity.
	WiFiKgPerHour = 0.00584

	// PrintKgPerPage is the footprint of one printed page.
	PrintKgPerPage = 0.0045

	// IdleOnKgPerHour is the draw of a computer left in idle mode.
	IdleOnKgPerHour = 0.0104

	// PowerOffKgPerHour is the residual draw of a computer switched off.
	PowerOffKgPerHour = 0.0005204

	// IdleHoursPerDay is the non-working time a computer sits idle or off.
	IdleHoursPerDay = 16
)

// Adjusted lifespan multipliers by (condition, sharing).
const (
	MultiplierNewPersonal  = 1.0
	MultiplierUsedPersonal = 1.5
	MultiplierNewShared    = 3.0
	MultiplierUsedShared   = 4.5
)

// ActivityFactor is one entry of a role's activity factor set.
type ActivityFactor struct {
	Activity  Activity `json:"activity"`
	Label     string   `json:"label"`
	KgPerHour float64  `json:"kg_per_hour"`
}

type labeledFactor struct {
	label  string
	factor float64
}

const (
	officeKgPerHour    = 0.00901
	browsingKgPerHour  = 0.0264
	recordingKgPerHour = 0.0439
	videoKgPerHour     = 0.112
)

//nolint:gochecknoglobals // Immutable reference table.
var roleActivities = map[Role][]ActivityFactor{
	RoleStudent: {
		{ActivityOfficeSuite, "MS Office (e.g. Excel, Word, PPT…)", officeKgPerHour},
		{ActivityTechnicalSoftware, "Technical softwares (e.g. Matlab, Python…)", officeKgPerHour},
		{ActivityWebBrowsing, "Web browsing", browsingKgPerHour},
		{ActivityLectureRecordings, "Watching lecture recordings", recordingKgPerHour},
		{ActivityOnlineClasses, "Online classes streaming or video call", videoKgPerHour},
		{
			ActivityReadingMaterials,
			"Reading study materials on your computer (e.g. slides, articles, digital textbooks)",
			officeKgPerHour,
		},
	},
	RoleProfessor: {
		{ActivityOfficeSuite, "MS Office (e.g. Excel, Word, PPT…)", officeKgPerHour},
		{ActivityWebBrowsing, "Web browsing", browsingKgPerHour},
		{ActivityVideoCall, "Videocall (e.g. Zoom, Teams…)", videoKgPerHour},
		{ActivityClassStreaming, "Online classes streaming", videoKgPerHour},
		{
			ActivityReadingMaterials,
			"Reading materials on your computer (e.g. slides, articles, digital textbooks)",
			officeKgPerHour,
		},
		{ActivityTechnicalSoftware, "Technical softwares (e.g. Matlab, Python…)", officeKgPerHour},
	},
	RoleStaff: {
		{ActivityOfficeSuite, "MS Office (e.g. Excel, Word, PPT…)", officeKgPerHour},
		{ActivityManagementSoftware, "Management software (e.g. SAP)", officeKgPerHour},
		{ActivityWebBrowsing, "Web browsing", browsingKgPerHour},
		{ActivityVideoCall, "Videocall (e.g. Zoom, Teams…)", videoKgPerHour},
		{ActivityReadingMaterials, "Reading materials on your computer (e.g. documents)", officeKgPerHour},
	},
}

//nolint:gochecknoglobals // Immutable reference table.
var aiTable = map[AITask]labeledFactor{
	TaskSummarize:       {"Summarize texts or articles", 0.000711936},
	TaskTranslate:       {"Translate sentences or texts", 0.000363008},
	TaskExplainConcept:  {"Explain a concept", 0.000310784},
	TaskGenerateQuizzes: {"Generate quizzes or questions", 0.000539136},
	TaskWriteEmails:     {"Write formal emails or messages", 0.000107776},
	TaskCorrectGrammar:  {"Correct grammar or style", 0.000107776},
	TaskAnalyzePDFs:     {"Analyze long PDF documents", 0.001412608},
	TaskWriteCode:       {"Write or test code", 0.002337024},
	TaskGenerateImages:  {"Generate images", 0.00206},
	TaskBrainstorm:      {"Brainstorm for thesis or projects", 0.000310784},
	TaskExplainCode:     {"Explain code step-by-step", 0.003542528},
	TaskPrepareLessons:  {"Prepare lessons or presentations", 0.000539136},
}

//nolint:gochecknoglobals // Immutable reference table.
var deviceTable = map[DeviceType]labeledFactor{
	DeviceDesktop:    {"Desktop Computer", 296},
	DeviceLaptop:     {"Laptop Computer", 170},
	DeviceSmartphone: {"Smartphone", 38.4},
	DeviceTablet:     {"Tablet", 87.1},
	DeviceMonitor:    {"External Monitor", 235},
	DeviceHeadphones: {"Headphones", 12.17},
	DevicePrinter:    {"Printer", 62.3},
	DeviceRouter:     {"Router/Modem", 106},
}

//nolint:gochecknoglobals // Immutable reference table.
var eolTable = map[EndOfLife]labeledFactor{
	EOLCertifiedCenter:    {"I bring it to a certified e-waste collection center", -0.224},
	EOLGeneralWaste:       {"I throw it away in general waste", 0.611},
	EOLManufacturerReturn: {"I return it to manufacturer for recycling or reuse", -0.3665},
	EOLResaleDonation:     {"I sell or donate it to someone else", -0.445},
	EOLHomeStorage:        {"I store it at home, unused", 0.402},
}

//nolint:gochecknoglobals // Immutable reference table.
var emailMidpoints = map[EmailBucket]float64{
	EmailNone:   0,
	Email1To10:  5,
	Email11To20: 15,
	Email21To30: 25,
	Email31To40: 35,
	EmailOver40: 45,
}

//nolint:gochecknoglobals // Immutable reference table.
var cloudMidpoints = map[CloudBucket]float64{
	CloudNone:      0,
	CloudUnder5GB:  3,
	Cloud5To20GB:   13,
	Cloud20To50GB:  35,
	Cloud50To100GB: 75,
}

//nolint:gochecknoglobals // Immutable reference table.
var idleKgPerHour = map[IdleBehavior]float64{
	IdlePowerOff:   PowerOffKgPerHour,
	IdleOn:         IdleOnKgPerHour,
	IdleNoComputer: 0,
}

// mustLookup returns the table entry for key and panics when the key is not
// part of the table. Callers only pass keys that passed validation.
func mustLookup[K ~string, V any](table map[K]V, key K, kind string) V {
	v, ok := table[key]
	if !ok {
		panic(fmt.Sprintf("footprint: unknown %s %q", kind, string(key)))
	}
	return v
}

// Activities returns a copy of the activity factor set of the role.
func (r Role) Activities() []ActivityFactor {
	set := mustLookup(roleActivities, r, "role")
	out := make([]ActivityFactor, len(set))
	copy(out, set)
	return out
}

// ActivityFactor returns the kg CO2e per hour of activity a for the role and
// whether the role offers that activity.
func (r Role) ActivityFactor(a Activity) (float64, bool) {
	for _, f := range roleActivities[r] {
		if f.Activity == a {
			return f.KgPerHour, true
		}
	}
	return 0, false
}

// EmbodiedKg returns the embodied emissions of the device type.
func (d DeviceType) EmbodiedKg() float64 {
	return mustLookup(deviceTable, d, "device type").factor
}

// Modifier returns the signed end-of-life modifier. Negative values are an
// avoided-emissions credit, positive values a penalty.
func (e EndOfLife) Modifier() float64 {
	return mustLookup(eolTable, e, "end-of-life disposition").factor
}

// KgPerQuery returns the footprint of one query for the task.
func (t AITask) KgPerQuery() float64 {
	return mustLookup(aiTable, t, "AI task").factor
}

// Midpoint returns the representative emails per day of the bucket.
func (b EmailBucket) Midpoint() float64 {
	return mustLookup(emailMidpoints, b, "email bucket")
}

// Midpoint returns the representative GB of the bucket.
func (b CloudBucket) Midpoint() float64 {
	return mustLookup(cloudMidpoints, b, "cloud bucket")
}

// KgPerHour returns the off-hours draw for the idle behavior.
func (i IdleBehavior) KgPerHour() float64 {
	return mustLookup(idleKgPerHour, i, "idle behavior")
}

// LifespanMultiplier returns the amortization multiplier for a condition and
// sharing pair.
func LifespanMultiplier(c Condition, s Sharing) float64 {
	switch {
	case c == ConditionNew && s == SharingPersonal:
		return MultiplierNewPersonal
	case c == ConditionUsed && s == SharingPersonal:
		return MultiplierUsedPersonal
	case c == ConditionNew && s == SharingShared:
		return MultiplierNewShared
	case c == ConditionUsed && s == SharingShared:
		return MultiplierUsedShared
	default:
		panic(fmt.Sprintf("footprint: unknown condition/sharing pair %q/%q", string(c), string(s)))
	}
}

// CheckMethodology reports whether the factor tables satisfy a semver
// constraint such as "^1.0" or ">=1.0.0, <2". An empty constraint always
// passes.
func CheckMethodology(constraint string) error {
	if constraint == "" {
		return nil
	}
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return invalid("methodology", ErrMethodologyMismatch, "invalid constraint %q: %v", constraint, err)
	}
	v := semver.MustParse(MethodologyVersion)
	if !c.Check(v) {
		return invalid("methodology", ErrMethodologyMismatch,
			"factor tables are %s, snapshot requires %s", MethodologyVersion, constraint)
	}
	return nil
}

// FactorTable is a serializable view of every reference table.
type FactorTable struct {
	Methodology        string                        `json:"methodology"`
	WorkingDaysPerYear int                           `json:"working_days_per_year"`
	Activities         map[Role][]ActivityFactor     `json:"activities"`
	AITasks            []NamedFactor                 `json:"ai_tasks"`
	Devices            []NamedFactor                 `json:"devices"`
	EndOfLife          []NamedFactor                 `json:"end_of_life"`
	Habits             map[string]float64            `json:"habits"`
	EmailMidpoints     map[string]float64            `json:"email_midpoints"`
	CloudMidpoints     map[string]float64            `json:"cloud_midpoints"`
	LifespanMultiplier map[string]map[string]float64 `json:"lifespan_multipliers"`
}

// NamedFactor is a key with its label and factor.
type NamedFactor struct {
	Key    string  `json:"key"`
	Label  string  `json:"label"`
	Factor float64 `json:"factor"`
}

// Factors returns a copy of the reference tables for display.
func Factors() FactorTable {
	ft := FactorTable{
		Methodology:        MethodologyVersion,
		WorkingDaysPerYear: WorkingDaysPerYear,
		Activities:         make(map[Role][]ActivityFactor, len(roleActivities)),
		Habits: map[string]float64{
			"email_plain_kg":        EmailPlainKg,
			"email_attachment_kg":   EmailAttachmentKg,
			"cloud_kg_per_gb":       CloudKgPerGB,
			"wifi_kg_per_hour":      WiFiKgPerHour,
			"print_kg_per_page":     PrintKgPerPage,
			"idle_on_kg_per_hour":   IdleOnKgPerHour,
			"power_off_kg_per_hour": PowerOffKgPerHour,
			"idle_hours_per_day":    IdleHoursPerDay,
		},
		EmailMidpoints: make(map[string]float64, len(emailMidpoints)),
		CloudMidpoints: make(map[string]float64, len(cloudMidpoints)),
		LifespanMultiplier: map[string]map[string]float64{
			string(ConditionNew):  {string(SharingPersonal): MultiplierNewPersonal, string(SharingShared): MultiplierNewShared},
			string(ConditionUsed): {string(SharingPersonal): MultiplierUsedPersonal, string(SharingShared): MultiplierUsedShared},
		},
	}
	for _, r := range Roles() {
		ft.Activities[r] = r.Activities()
	}
	for _, t := range AITasks() {
		ft.AITasks = append(ft.AITasks, NamedFactor{Key: string(t), Label: t.Label(), Factor: t.KgPerQuery()})
	}
	for _, d := range DeviceTypes() {
		ft.Devices = append(ft.Devices, NamedFactor{Key: string(d), Label: d.Label(), Factor: d.EmbodiedKg()})
	}
	for _, e := range EndOfLifeOptions() {
		ft.EndOfLife = append(ft.EndOfLife, NamedFactor{Key: string(e), Label: e.Label(), Factor: e.Modifier()})
	}
	for b, m := range emailMidpoints {
		ft.EmailMidpoints[b.Label()] = m
	}
	for b, m := range cloudMidpoints {
		ft.CloudMidpoints[b.Label()] = m
	}
	return ft
}
